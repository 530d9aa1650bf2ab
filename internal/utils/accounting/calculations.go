package accounting

import (
	"fmt"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LineDelta computes the signed effect of a single journal line on its
// account's current balance, in base currency.
//
// Debit-normal accounts (ASSET, EXPENSE) grow with debits:
//
//	delta = debitBase - creditBase
//
// Credit-normal accounts (LIABILITY, EQUITY, INCOME) grow with credits:
//
//	delta = creditBase - debitBase
func LineDelta(line domain.JournalLine, accountType domain.AccountType) (decimal.Decimal, error) {
	if !accountType.IsValid() {
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, line.AccountID)
	}
	if accountType.IsDebitNormal() {
		return line.DebitBase.Sub(line.CreditBase), nil
	}
	return line.CreditBase.Sub(line.DebitBase), nil
}

// SumBalanceChanges aggregates the net base-currency delta per account over
// all lines of an entry. Individual account deltas may be non-zero; only the
// debit/credit totals of the whole entry must agree.
func SumBalanceChanges(lines []domain.JournalLine, accountTypes map[string]domain.AccountType) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal, len(lines))
	for _, line := range lines {
		accountType, ok := accountTypes[line.AccountID]
		if !ok {
			return nil, fmt.Errorf("account type not found for account ID %s", line.AccountID)
		}
		delta, err := LineDelta(line, accountType)
		if err != nil {
			return nil, err
		}
		changes[line.AccountID] = changes[line.AccountID].Add(delta)
	}
	return changes, nil
}

// ValidateEntryBalance checks the double-entry invariant over a set of lines:
// the debit and credit totals must agree within domain.BalanceEpsilon, every
// line must carry exactly one positive side, and at least two lines are
// required.
func ValidateEntryBalance(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("entry must have at least two lines")
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, line := range lines {
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("line amounts must not be negative for account %s", line.AccountID)
		}
		debitSet := line.Debit.IsPositive()
		creditSet := line.Credit.IsPositive()
		if debitSet == creditSet {
			return fmt.Errorf("exactly one of debit/credit must be set for account %s", line.AccountID)
		}
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}

	if totalDebit.Sub(totalCredit).Abs().GreaterThan(domain.BalanceEpsilon) {
		return fmt.Errorf("entry does not balance: debit total is %s and credit total is %s",
			totalDebit.String(), totalCredit.String())
	}
	return nil
}

// NormalizeLine fills the base-currency amounts of a line from its document
// amounts at the given exchange rate. The rate is fixed at entry time and
// never recalculated retroactively.
func NormalizeLine(line *domain.JournalLine, exchangeRate decimal.Decimal) error {
	if !exchangeRate.IsPositive() {
		return fmt.Errorf("exchange rate must be positive, got %s", exchangeRate.String())
	}
	line.ExchangeRate = exchangeRate
	line.DebitBase = line.Debit.Mul(exchangeRate)
	line.CreditBase = line.Credit.Mul(exchangeRate)
	return nil
}
