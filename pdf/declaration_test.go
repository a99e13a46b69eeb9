package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alquilerfacil/rentas_backend/taxes"
)

func TestRenderDeclaration(t *testing.T) {
	incomes := []taxes.Income{{Amount: decimal.RequireFromString("50000"), IncludesIVA: true}}
	summary := taxes.Calculate(incomes, nil)

	decl := Declaration{
		Year:        2024,
		Month:       3,
		GeneratedAt: time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC),
		Summary:     summary,
		Incomes: []IncomeLine{
			{Description: "Alquiler apartamento", Amount: decimal.RequireFromString("50000"), IncludesIVA: true},
		},
		Expenses: []ExpenseLine{
			{Issuer: "Ferretería", Description: "Materiales", TotalAmount: decimal.RequireFromString("11300"), IVAAmount: decimal.RequireFromString("1300")},
		},
	}

	data, name, err := RenderDeclaration(decl)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if name != "Declaracion_2024_03.pdf" {
		t.Errorf("filename = %q", name)
	}
	if len(data) == 0 {
		t.Fatal("empty output")
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output does not start with a PDF header")
	}
}

func TestRenderDeclarationEmptyPeriod(t *testing.T) {
	decl := Declaration{
		Year:        2025,
		Month:       11,
		GeneratedAt: time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC),
		Summary:     taxes.Calculate(nil, nil),
	}
	data, name, err := RenderDeclaration(decl)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if name != "Declaracion_2025_11.pdf" {
		t.Errorf("filename = %q", name)
	}
	if len(data) == 0 {
		t.Fatal("empty output")
	}
}

func TestMonthName(t *testing.T) {
	if MonthName(1) != "Enero" || MonthName(12) != "Diciembre" {
		t.Errorf("unexpected month names: %q, %q", MonthName(1), MonthName(12))
	}
}
