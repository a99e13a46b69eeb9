package reports

import (
	"bytes"
	"context"
	"fmt"

	"github.com/alquilerfacil/rentas_backend/models"
	"github.com/xuri/excelize/v2"
)

// BuildMonthlyWorkbook renders one period's records into an xlsx
// workbook: a summary sheet plus income and expense detail sheets.
// Returns the file bytes and the download filename.
func BuildMonthlyWorkbook(ctx context.Context, period models.Period) ([]byte, string, error) {

	data, err := models.GetPeriodTaxData(ctx, period)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "Resumen"
	f.SetSheetName("Sheet1", summarySheet)

	summaryRows := [][]interface{}{
		{"Concepto", "Monto (CRC)"},
		{"Ingresos Brutos", data.Summary.GrossIncome.InexactFloat64()},
		{"IVA Débito", data.Summary.IVADebit.InexactFloat64()},
		{"Total Gastos Deducibles", data.Summary.TotalExpenses.InexactFloat64()},
		{"IVA Crédito", data.Summary.IVACredit.InexactFloat64()},
		{"IVA a Pagar (D-104-2)", data.Summary.NetIVA.InexactFloat64()},
		{"Base Imponible Renta", data.Summary.NetTaxableIncome.InexactFloat64()},
		{"Impuesto de Renta (D-125)", data.Summary.RentaTax.InexactFloat64()},
	}
	for i, row := range summaryRows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, "", err
			}
			f.SetCellValue(summarySheet, cell, value)
		}
	}

	incomeSheet := "Ingresos"
	if _, err := f.NewSheet(incomeSheet); err != nil {
		return nil, "", err
	}
	f.SetCellValue(incomeSheet, "A1", "Fecha")
	f.SetCellValue(incomeSheet, "B1", "Descripción")
	f.SetCellValue(incomeSheet, "C1", "Monto")
	f.SetCellValue(incomeSheet, "D1", "IVA Incluido")
	for i, in := range data.Incomes {
		row := fmt.Sprint(i + 2)
		includes := in.IncludesIVA != nil && *in.IncludesIVA
		f.SetCellValue(incomeSheet, "A"+row, in.CreatedAt.Format("2006-01-02"))
		f.SetCellValue(incomeSheet, "B"+row, in.Description)
		f.SetCellValue(incomeSheet, "C"+row, in.Amount.InexactFloat64())
		f.SetCellValue(incomeSheet, "D"+row, includes)
	}

	expenseSheet := "Gastos"
	if _, err := f.NewSheet(expenseSheet); err != nil {
		return nil, "", err
	}
	f.SetCellValue(expenseSheet, "A1", "Fecha")
	f.SetCellValue(expenseSheet, "B1", "Emisor")
	f.SetCellValue(expenseSheet, "C1", "Descripción")
	f.SetCellValue(expenseSheet, "D1", "Total")
	f.SetCellValue(expenseSheet, "E1", "IVA")
	f.SetCellValue(expenseSheet, "F1", "Archivo")
	for i, ex := range data.Expenses {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(expenseSheet, "A"+row, ex.IssueDate.Format("2006-01-02"))
		f.SetCellValue(expenseSheet, "B"+row, ex.Issuer)
		f.SetCellValue(expenseSheet, "C"+row, ex.Description)
		f.SetCellValue(expenseSheet, "D"+row, ex.TotalAmount.InexactFloat64())
		f.SetCellValue(expenseSheet, "E"+row, ex.IVAAmount.InexactFloat64())
		f.SetCellValue(expenseSheet, "F"+row, ex.FileName)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("Registros_%04d_%02d.xlsx", period.Year, period.Month)
	return buf.Bytes(), filename, nil
}
