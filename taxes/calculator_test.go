package taxes

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalculateInclusiveScenario(t *testing.T) {
	// One IVA-inclusive rent of 50000 and no expenses.
	sum := Calculate([]Income{{Amount: d("50000"), IncludesIVA: true}}, nil)

	if !sum.GrossIncome.Equal(d("50000")) {
		t.Errorf("gross = %s", sum.GrossIncome)
	}
	// 50000 - 50000/1.13
	if got := sum.IVADebit.Round(2); !got.Equal(d("5752.21")) {
		t.Errorf("iva debit = %s, want 5752.21", got)
	}
	if !sum.NetIVA.Equal(sum.IVADebit) {
		t.Errorf("net iva = %s, want full debit with no credit", sum.NetIVA)
	}
	if !sum.FixedDeduction.Equal(d("7500")) {
		t.Errorf("deduction = %s, want 7500", sum.FixedDeduction)
	}
	if !sum.NetTaxableIncome.Equal(d("42500")) {
		t.Errorf("net taxable = %s, want 42500", sum.NetTaxableIncome)
	}
	if !sum.RentaTax.Equal(d("6375")) {
		t.Errorf("renta = %s, want 6375", sum.RentaTax)
	}
}

func TestCalculateExclusiveIncome(t *testing.T) {
	sum := Calculate([]Income{{Amount: d("1000"), IncludesIVA: false}}, nil)
	if !sum.IVADebit.Equal(d("130")) {
		t.Errorf("iva debit = %s, want 130", sum.IVADebit)
	}
}

func TestCalculateNetIVAFloorsAtZero(t *testing.T) {
	incomes := []Income{{Amount: d("1000"), IncludesIVA: false}}
	expenses := []Expense{{TotalAmount: d("5000"), IVAAmount: d("575")}}

	sum := Calculate(incomes, expenses)
	if !sum.IVACredit.Equal(d("575")) {
		t.Errorf("iva credit = %s", sum.IVACredit)
	}
	if !sum.NetIVA.IsZero() {
		t.Errorf("net iva = %s, want 0 with no carry-forward", sum.NetIVA)
	}
	// Expenses never touch the renta base.
	if !sum.NetTaxableIncome.Equal(d("850")) {
		t.Errorf("net taxable = %s, want 850", sum.NetTaxableIncome)
	}
}

func TestCalculateMixedRecords(t *testing.T) {
	incomes := []Income{
		{Amount: d("113000"), IncludesIVA: true},
		{Amount: d("200000"), IncludesIVA: false},
	}
	expenses := []Expense{
		{TotalAmount: d("11300"), IVAAmount: d("1300")},
		{TotalAmount: d("22600"), IVAAmount: d("2600")},
	}

	sum := Calculate(incomes, expenses)
	if !sum.GrossIncome.Equal(d("313000")) {
		t.Errorf("gross = %s", sum.GrossIncome)
	}
	// 13000 embedded + 26000 added.
	if got := sum.IVADebit.Round(2); !got.Equal(d("39000.00")) {
		t.Errorf("iva debit = %s, want 39000.00", got)
	}
	if got := sum.NetIVA.Round(2); !got.Equal(d("35100.00")) {
		t.Errorf("net iva = %s, want 35100.00", got)
	}
	if !sum.TotalExpenses.Equal(d("33900")) {
		t.Errorf("total expenses = %s", sum.TotalExpenses)
	}
}

func TestCalculateEmptyInputs(t *testing.T) {
	for _, sum := range []Summary{Calculate(nil, nil), Calculate([]Income{}, []Expense{})} {
		if !sum.GrossIncome.IsZero() || !sum.IVADebit.IsZero() || !sum.NetIVA.IsZero() ||
			!sum.FixedDeduction.IsZero() || !sum.NetTaxableIncome.IsZero() || !sum.RentaTax.IsZero() {
			t.Errorf("non-zero summary for empty inputs: %+v", sum)
		}
	}
}

func TestCalculateDeterministic(t *testing.T) {
	incomes := []Income{{Amount: d("12345.67"), IncludesIVA: true}}
	expenses := []Expense{{TotalAmount: d("500"), IVAAmount: d("57.52")}}

	first := Calculate(incomes, expenses)
	for i := 0; i < 5; i++ {
		again := Calculate(incomes, expenses)
		if !again.RentaTax.Equal(first.RentaTax) || !again.NetIVA.Equal(first.NetIVA) {
			t.Fatalf("run %d diverged: %+v vs %+v", i, again, first)
		}
	}
}
