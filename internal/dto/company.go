package dto

// SubordinatesResponse lists the transitive subordinate user IDs of the
// calling manager within a company.
type SubordinatesResponse struct {
	UserIDs []string `json:"userIDs"`
}
