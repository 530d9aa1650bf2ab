package handlers

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// buildTrialBalanceXLSX renders a trial balance as an XLSX workbook.
func buildTrialBalanceXLSX(rows []domain.TrialBalanceRow, asOf time.Time) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "trial balance"
	f.SetSheetName("Sheet1", sheet)

	_ = f.SetCellValue(sheet, "A1", "Trial Balance")
	_ = f.SetCellValue(sheet, "A2", "As of")
	_ = f.SetCellValue(sheet, "B2", asOf.Format("2006-01-02"))

	_ = f.SetCellValue(sheet, "A4", "Code")
	_ = f.SetCellValue(sheet, "B4", "Account")
	_ = f.SetCellValue(sheet, "C4", "Type")
	_ = f.SetCellValue(sheet, "D4", "Debit")
	_ = f.SetCellValue(sheet, "E4", "Credit")
	_ = f.SetCellValue(sheet, "F4", "Balance")
	for i, row := range rows {
		r := i + 5
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", r), row.AccountCode)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", r), row.AccountName)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", r), string(row.AccountType))
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", r), row.Debit.InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", r), row.Credit.InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", r), row.Balance.InexactFloat64())
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// buildTrialBalancePDF renders a trial balance as a PDF.
func buildTrialBalancePDF(rows []domain.TrialBalanceRow, asOf time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Trial Balance")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("As of: %s", asOf.Format("2006-01-02")))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(20, 6, "Code", "1", 0, "C", false, 0, "")
	pdf.CellFormat(60, 6, "Account", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Debit", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Credit", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Balance", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, row := range rows {
		pdf.CellFormat(20, 6, row.AccountCode, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, row.AccountName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, row.Debit.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, row.Credit.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, row.Balance.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// buildProfitAndLossXLSX renders a P&L statement as an XLSX workbook.
func buildProfitAndLossXLSX(report *domain.PAndLReport, from, to *time.Time) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "profit and loss"
	f.SetSheetName("Sheet1", sheet)

	_ = f.SetCellValue(sheet, "A1", "Profit and Loss")
	_ = f.SetCellValue(sheet, "A2", "Period")
	_ = f.SetCellValue(sheet, "B2", formatPeriod(from, to))

	r := 4
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", r), "Income")
	r++
	for _, line := range report.Income {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", r), line.Name)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", r), line.NetAmount.InexactFloat64())
		r++
	}
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", r), "Total Income")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", r), report.TotalIncome.InexactFloat64())
	r += 2

	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", r), "Expenses")
	r++
	for _, line := range report.Expenses {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", r), line.Name)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", r), line.NetAmount.InexactFloat64())
		r++
	}
	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", r), "Total Expenses")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", r), report.TotalExpense.InexactFloat64())
	r += 2

	_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", r), "Net Profit")
	_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", r), report.NetProfit.InexactFloat64())

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// buildProfitAndLossPDF renders a P&L statement as a PDF.
func buildProfitAndLossPDF(report *domain.PAndLReport, from, to *time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Profit and Loss")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s", formatPeriod(from, to)))
	pdf.Ln(8)

	writeSection := func(title string, lines []domain.AccountAmount, totalLabel string, total decimal.Decimal) {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, title)
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 9)
		for _, line := range lines {
			pdf.CellFormat(120, 6, line.Name, "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 6, line.NetAmount.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(120, 6, totalLabel, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, total.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}

	writeSection("Income", report.Income, "Total Income", report.TotalIncome)
	writeSection("Expenses", report.Expenses, "Total Expenses", report.TotalExpense)

	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Net Profit: %s", report.NetProfit.StringFixed(2)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// buildBalanceSheetXLSX renders a balance sheet as an XLSX workbook.
func buildBalanceSheetXLSX(report *domain.BalanceSheetReport, asOf time.Time) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "balance sheet"
	f.SetSheetName("Sheet1", sheet)

	_ = f.SetCellValue(sheet, "A1", "Balance Sheet")
	_ = f.SetCellValue(sheet, "A2", "As of")
	_ = f.SetCellValue(sheet, "B2", asOf.Format("2006-01-02"))

	r := 4
	writeSection := func(title string, lines []domain.AccountAmount, totalLabel string, total decimal.Decimal) {
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", r), title)
		r++
		for _, line := range lines {
			_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", r), line.Name)
			_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", r), line.NetAmount.InexactFloat64())
			r++
		}
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", r), totalLabel)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", r), total.InexactFloat64())
		r += 2
	}

	writeSection("Assets", report.Assets, "Total Assets", report.TotalAssets)
	writeSection("Liabilities", report.Liabilities, "Total Liabilities", report.TotalLiabilities)
	writeSection("Equity", report.Equity, "Total Equity", report.TotalEquity)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// buildBalanceSheetPDF renders a balance sheet as a PDF.
func buildBalanceSheetPDF(report *domain.BalanceSheetReport, asOf time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Balance Sheet")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("As of: %s", asOf.Format("2006-01-02")))
	pdf.Ln(8)

	writeSection := func(title string, lines []domain.AccountAmount, totalLabel string, total decimal.Decimal) {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, title)
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 9)
		for _, line := range lines {
			pdf.CellFormat(120, 6, line.Name, "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 6, line.NetAmount.StringFixed(2), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(120, 6, totalLabel, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, total.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}

	writeSection("Assets", report.Assets, "Total Assets", report.TotalAssets)
	writeSection("Liabilities", report.Liabilities, "Total Liabilities", report.TotalLiabilities)
	writeSection("Equity", report.Equity, "Total Equity", report.TotalEquity)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatPeriod(from, to *time.Time) string {
	fromStr, toStr := "beginning", "today"
	if from != nil {
		fromStr = from.Format("2006-01-02")
	}
	if to != nil {
		toStr = to.Format("2006-01-02")
	}
	return fromStr + " to " + toStr
}
