package models

import (
	"context"

	"github.com/alquilerfacil/rentas_backend/taxes"
)

// PeriodTaxData bundles everything the client needs for one month. The
// summary is recomputed from the records on every call and never stored.
type PeriodTaxData struct {
	Period   Period            `json:"period"`
	Incomes  []*IncomeRecord   `json:"income"`
	Expenses []*ExpenseInvoice `json:"expenses"`
	Summary  taxes.Summary     `json:"summary"`
}

func taxInputs(incomes []*IncomeRecord, expenses []*ExpenseInvoice) ([]taxes.Income, []taxes.Expense) {
	taxIncomes := make([]taxes.Income, 0, len(incomes))
	for _, in := range incomes {
		includes := in.IncludesIVA != nil && *in.IncludesIVA
		taxIncomes = append(taxIncomes, taxes.Income{Amount: in.Amount, IncludesIVA: includes})
	}
	taxExpenses := make([]taxes.Expense, 0, len(expenses))
	for _, ex := range expenses {
		taxExpenses = append(taxExpenses, taxes.Expense{TotalAmount: ex.TotalAmount, IVAAmount: ex.IVAAmount})
	}
	return taxIncomes, taxExpenses
}

// GetPeriodTaxData loads the user's records for the period and computes
// the suggested tax position.
func GetPeriodTaxData(ctx context.Context, period Period) (*PeriodTaxData, error) {
	incomes, err := ListIncomeRecords(ctx, period)
	if err != nil {
		return nil, err
	}
	expenses, err := ListExpenseInvoices(ctx, period)
	if err != nil {
		return nil, err
	}

	taxIncomes, taxExpenses := taxInputs(incomes, expenses)
	return &PeriodTaxData{
		Period:   period,
		Incomes:  incomes,
		Expenses: expenses,
		Summary:  taxes.Calculate(taxIncomes, taxExpenses),
	}, nil
}
