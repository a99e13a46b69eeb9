// Package pdf renders the suggested monthly declaration as a PDF
// document. Rendering is pure: the caller supplies every figure and
// the generation timestamp, so the same input always produces the
// same layout.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/alquilerfacil/rentas_backend/taxes"
)

// Core fonts are cp1252, so amounts carry the CRC code instead of the
// colón sign.
const currencyCode = "CRC"

var spanishMonths = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// MonthName returns the Spanish name for month 1..12.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return fmt.Sprint(month)
	}
	return spanishMonths[month-1]
}

// IncomeLine is one income row in the detail table.
type IncomeLine struct {
	Description string
	Amount      decimal.Decimal
	IncludesIVA bool
}

// ExpenseLine is one expense row in the detail table.
type ExpenseLine struct {
	Issuer      string
	Description string
	TotalAmount decimal.Decimal
	IVAAmount   decimal.Decimal
}

// Declaration is everything the renderer needs for one period.
type Declaration struct {
	Year        int
	Month       int
	GeneratedAt time.Time
	Summary     taxes.Summary
	Incomes     []IncomeLine
	Expenses    []ExpenseLine
}

// FileName is the canonical download name for the period.
func FileName(year int, month int) string {
	return fmt.Sprintf("Declaracion_%04d_%02d.pdf", year, month)
}

func money(d decimal.Decimal) string {
	return currencyCode + " " + d.Round(2).StringFixed(2)
}

// RenderDeclaration produces the PDF bytes and the canonical filename.
func RenderDeclaration(decl Declaration) ([]byte, string, error) {

	f := gofpdf.New("P", "mm", "A4", "")
	tr := f.UnicodeTranslatorFromDescriptor("")
	f.AddPage()

	// Header
	f.SetFont("Helvetica", "B", 16)
	f.CellFormat(0, 10, tr("Declaración Sugerida"), "", 1, "C", false, 0, "")
	f.SetFont("Helvetica", "", 12)
	period := fmt.Sprintf("%s %d", MonthName(decl.Month), decl.Year)
	f.CellFormat(0, 8, tr(period), "", 1, "C", false, 0, "")
	f.SetFont("Helvetica", "", 9)
	generated := "Generado: " + decl.GeneratedAt.Format("2006-01-02 15:04")
	f.CellFormat(0, 6, tr(generated), "", 1, "C", false, 0, "")
	f.Ln(4)

	// Summary table
	f.SetFont("Helvetica", "B", 12)
	f.CellFormat(0, 8, tr("Resumen de Impuestos"), "", 1, "L", false, 0, "")
	f.SetFont("Helvetica", "", 10)
	summaryRows := []struct {
		label string
		value decimal.Decimal
		bold  bool
	}{
		{"Ingresos Brutos", decl.Summary.GrossIncome, false},
		{"IVA Débito", decl.Summary.IVADebit, false},
		{"Total Gastos Deducibles", decl.Summary.TotalExpenses, false},
		{"IVA Crédito", decl.Summary.IVACredit, false},
		{"IVA a Pagar (D-104-2)", decl.Summary.NetIVA, true},
		{"Base Imponible Renta", decl.Summary.NetTaxableIncome, false},
		{"Impuesto de Renta (D-125)", decl.Summary.RentaTax, true},
	}
	for _, row := range summaryRows {
		style := ""
		if row.bold {
			style = "B"
		}
		f.SetFont("Helvetica", style, 10)
		f.CellFormat(110, 7, tr(row.label), "1", 0, "L", false, 0, "")
		f.CellFormat(60, 7, money(row.value), "1", 1, "R", false, 0, "")
	}
	f.Ln(6)

	// Income detail
	f.SetFont("Helvetica", "B", 12)
	f.CellFormat(0, 8, tr("Ingresos"), "", 1, "L", false, 0, "")
	f.SetFont("Helvetica", "B", 9)
	f.CellFormat(100, 7, tr("Descripción"), "1", 0, "L", false, 0, "")
	f.CellFormat(40, 7, tr("Monto"), "1", 0, "R", false, 0, "")
	f.CellFormat(30, 7, tr("IVA Incl."), "1", 1, "C", false, 0, "")
	f.SetFont("Helvetica", "", 9)
	if len(decl.Incomes) == 0 {
		f.CellFormat(170, 7, tr("Sin registros"), "1", 1, "C", false, 0, "")
	}
	for _, in := range decl.Incomes {
		flag := "No"
		if in.IncludesIVA {
			flag = "Sí"
		}
		f.CellFormat(100, 7, tr(in.Description), "1", 0, "L", false, 0, "")
		f.CellFormat(40, 7, money(in.Amount), "1", 0, "R", false, 0, "")
		f.CellFormat(30, 7, tr(flag), "1", 1, "C", false, 0, "")
	}
	f.Ln(6)

	// Expense detail
	f.SetFont("Helvetica", "B", 12)
	f.CellFormat(0, 8, tr("Gastos Deducibles"), "", 1, "L", false, 0, "")
	f.SetFont("Helvetica", "B", 9)
	f.CellFormat(60, 7, tr("Emisor"), "1", 0, "L", false, 0, "")
	f.CellFormat(60, 7, tr("Descripción"), "1", 0, "L", false, 0, "")
	f.CellFormat(25, 7, tr("Total"), "1", 0, "R", false, 0, "")
	f.CellFormat(25, 7, tr("IVA"), "1", 1, "R", false, 0, "")
	f.SetFont("Helvetica", "", 9)
	if len(decl.Expenses) == 0 {
		f.CellFormat(170, 7, tr("Sin registros"), "1", 1, "C", false, 0, "")
	}
	for _, ex := range decl.Expenses {
		f.CellFormat(60, 7, tr(ex.Issuer), "1", 0, "L", false, 0, "")
		f.CellFormat(60, 7, tr(ex.Description), "1", 0, "L", false, 0, "")
		f.CellFormat(25, 7, money(ex.TotalAmount), "1", 0, "R", false, 0, "")
		f.CellFormat(25, 7, money(ex.IVAAmount), "1", 1, "R", false, 0, "")
	}

	f.Ln(8)
	f.SetFont("Helvetica", "I", 8)
	f.MultiCell(0, 4, tr("Este documento es una sugerencia de declaración y no sustituye la presentación oficial ante el Ministerio de Hacienda."), "", "L", false)

	var buf bytes.Buffer
	if err := f.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), FileName(decl.Year, decl.Month), nil
}
