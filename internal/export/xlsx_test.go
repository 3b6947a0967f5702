package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gastos/internal/core"
)

func TestMonthlyReport(t *testing.T) {
	jan := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.Local)
	expenses := []core.Expense{
		{
			ID:            "e1",
			Amount:        core.Money{Cents: 12550},
			Category:      "🍔 Alimentação",
			PaymentMethod: "💰 Dinheiro",
			Description:   "mercado",
			Date:          jan,
		},
		// next month, must not show up
		{
			ID:          "e2",
			Amount:      core.Money{Cents: 99900},
			Category:    "🚗 Transporte",
			Description: "pneu",
			Date:        jan.AddDate(0, 1, 0),
		},
	}
	income := []core.Income{
		{
			ID:          "i1",
			Amount:      core.Money{Cents: 300000},
			Category:    "💼 Salário",
			Description: "salário",
			Date:        jan,
		},
	}

	var buf bytes.Buffer
	err := MonthlyReport(&buf, expenses, income, 2025, time.January)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Lançamentos", "Receitas", "Resumo"}, f.GetSheetList())

	desc, err := f.GetCellValue("Lançamentos", "B2")
	require.NoError(t, err)
	assert.Equal(t, "mercado", desc)

	rows, err := f.GetRows("Lançamentos")
	require.NoError(t, err)
	// header + one expense + total row
	assert.Len(t, rows, 3)

	title, err := f.GetCellValue("Resumo", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Resumo de Janeiro/2025", title)
}
