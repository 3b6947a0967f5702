// Package export renders monthly reports as xlsx workbooks.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"gastos/internal/analytics"
	"gastos/internal/core"
)

// pt-BR month names for the report title.
var monthNames = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthlyReport writes a workbook with the month's transactions and the
// category breakdown to w.
func MonthlyReport(w io.Writer, expenses []core.Expense, income []core.Income, year int, month time.Month) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Lançamentos"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	totalStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
	})

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 30)
	f.SetColWidth(sheetName, "C", "C", 22)
	f.SetColWidth(sheetName, "D", "D", 22)
	f.SetColWidth(sheetName, "E", "E", 12)

	headers := []string{"Data", "Descrição", "Categoria", "Forma de Pagamento", "Valor"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	monthlyExpenses := analytics.FilterExpenses(expenses, year, month, core.FilterAll)
	monthlyIncome := analytics.FilterIncome(income, year, month, core.FilterAll)

	var total core.Money
	row := 2
	for _, e := range monthlyExpenses {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), e.Date.Format("02/01/2006"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), e.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), e.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), e.PaymentMethod)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), e.Amount.Units())
		total = total.Add(e.Amount)
		row++
	}

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Total")
	f.MergeCell(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row))
	f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), total.Units())
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("E%d", row), totalStyle)

	if err := writeIncomeSheet(f, headerStyle, monthlyIncome); err != nil {
		return err
	}
	if err := writeSummarySheet(f, headerStyle, expenses, income, year, month); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeIncomeSheet(f *excelize.File, headerStyle int, monthlyIncome []core.Income) error {
	sheetName := "Receitas"
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("create income sheet: %w", err)
	}

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 30)
	f.SetColWidth(sheetName, "C", "C", 22)
	f.SetColWidth(sheetName, "D", "D", 12)

	headers := []string{"Data", "Descrição", "Categoria", "Valor"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, in := range monthlyIncome {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), in.Date.Format("02/01/2006"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), in.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), in.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), in.Amount.Units())
	}
	return nil
}

func writeSummarySheet(f *excelize.File, headerStyle int, expenses []core.Expense, income []core.Income, year int, month time.Month) error {
	sheetName := "Resumo"
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	f.SetColWidth(sheetName, "A", "A", 25)
	f.SetColWidth(sheetName, "B", "B", 14)
	f.SetColWidth(sheetName, "C", "C", 12)

	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Resumo de %s/%d", monthNames[month-1], year))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)
	f.MergeCell(sheetName, "A1", "C1")

	totals := analytics.MonthlyTotals(expenses, income, year, month)
	f.SetCellValue(sheetName, "A2", "Receitas")
	f.SetCellValue(sheetName, "B2", totals.Income.Units())
	f.SetCellValue(sheetName, "A3", "Despesas")
	f.SetCellValue(sheetName, "B3", totals.Expenses.Units())
	f.SetCellValue(sheetName, "A4", "Saldo")
	f.SetCellValue(sheetName, "B4", totals.Balance.Units())

	headers := []string{"Categoria", "Valor", "%"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c6", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, share := range analytics.CategoryBreakdown(expenses, income, year, month) {
		row := i + 7
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), share.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), share.Amount.Units())
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), share.Percentage)
	}
	return nil
}
