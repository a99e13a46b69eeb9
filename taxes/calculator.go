// Package taxes computes the suggested monthly Costa Rican tax figures
// for a landlord: IVA owed on the D-104-2 form and rental income tax
// on the D-125 form. All arithmetic runs on shopspring decimals so the
// results are exact and deterministic for a given input.
package taxes

import "github.com/shopspring/decimal"

var (
	// IVARate is the standard VAT rate applied to rental income.
	IVARate = decimal.RequireFromString("0.13")
	// FixedDeductionRate is the flat deduction the simplified rental
	// regime grants against gross income.
	FixedDeductionRate = decimal.RequireFromString("0.15")
	// RentaRate is the flat income-tax rate on the net taxable base.
	RentaRate = decimal.RequireFromString("0.15")

	one = decimal.NewFromInt(1)
)

// Income is one rental income record for the period. IncludesIVA marks
// whether Amount already carries the tax.
type Income struct {
	Amount      decimal.Decimal
	IncludesIVA bool
}

// Expense is one deductible expense record for the period. Its IVA
// credits the VAT position; its total is reported but never reduces
// the renta base, which uses the fixed deduction instead.
type Expense struct {
	TotalAmount decimal.Decimal
	IVAAmount   decimal.Decimal
}

// Summary is the computed position for one period. It is derived data:
// callers recompute it from the records on every read and never store it.
type Summary struct {
	GrossIncome      decimal.Decimal `json:"gross_income"`
	IVADebit         decimal.Decimal `json:"iva_debit"`
	IVACredit        decimal.Decimal `json:"iva_credit"`
	NetIVA           decimal.Decimal `json:"net_iva"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	FixedDeduction   decimal.Decimal `json:"fixed_deduction"`
	NetTaxableIncome decimal.Decimal `json:"net_taxable_income"`
	RentaTax         decimal.Decimal `json:"renta_tax"`
}

// Calculate folds one period's records into a Summary. Nil or empty
// slices yield an all-zero summary. Net IVA is floored at zero; an
// excess credit does not carry forward to later periods.
func Calculate(incomes []Income, expenses []Expense) Summary {
	var gross, ivaDebit decimal.Decimal
	for _, in := range incomes {
		gross = gross.Add(in.Amount)
		if in.IncludesIVA {
			ivaDebit = ivaDebit.Add(in.Amount.Sub(in.Amount.Div(one.Add(IVARate))))
		} else {
			ivaDebit = ivaDebit.Add(in.Amount.Mul(IVARate))
		}
	}

	var totalExpenses, ivaCredit decimal.Decimal
	for _, ex := range expenses {
		totalExpenses = totalExpenses.Add(ex.TotalAmount)
		ivaCredit = ivaCredit.Add(ex.IVAAmount)
	}

	netIVA := ivaDebit.Sub(ivaCredit)
	if netIVA.IsNegative() {
		netIVA = decimal.Zero
	}

	deduction := gross.Mul(FixedDeductionRate)
	netTaxable := gross.Sub(deduction)
	if netTaxable.IsNegative() {
		netTaxable = decimal.Zero
	}

	return Summary{
		GrossIncome:      gross,
		IVADebit:         ivaDebit,
		IVACredit:        ivaCredit,
		NetIVA:           netIVA,
		TotalExpenses:    totalExpenses,
		FixedDeduction:   deduction,
		NetTaxableIncome: netTaxable,
		RentaTax:         netTaxable.Mul(RentaRate),
	}
}
