package einvoice

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
)

const facturaFull = `<?xml version="1.0" encoding="utf-8"?>
<FacturaElectronica xmlns="https://cdn.comprobanteselectronicos.go.cr/xml-schemas/v4.3/facturaElectronica">
  <FechaEmision>2024-03-15T10:30:00-06:00</FechaEmision>
  <Emisor><Nombre>Ferretería El Tornillo S.A.</Nombre></Emisor>
  <DetalleServicio>
    <LineaDetalle>
      <Detalle>Materiales de mantenimiento</Detalle>
      <Impuesto><Tarifa>13.00</Tarifa></Impuesto>
    </LineaDetalle>
  </DetalleServicio>
  <ResumenFactura>
    <TotalImpuesto>1300.0000</TotalImpuesto>
    <TotalComprobante>11300.0000</TotalComprobante>
  </ResumenFactura>
</FacturaElectronica>`

func mustNormalize(t *testing.T, raw, name string) *Record {
	t.Helper()
	rec, perr := Normalize([]byte(raw), name, decimal.Zero)
	if perr != nil {
		t.Fatalf("unexpected failure for %s: %v", name, perr)
	}
	return rec
}

func TestNormalizeFactura(t *testing.T) {
	rec := mustNormalize(t, facturaFull, "factura.xml")

	if rec.Issuer != "Ferretería El Tornillo S.A." {
		t.Errorf("issuer = %q", rec.Issuer)
	}
	if got := rec.IssueDate.Format("2006-01-02"); got != "2024-03-15" {
		t.Errorf("issue date = %s", got)
	}
	if !rec.TotalAmount.Equal(decimal.RequireFromString("11300")) {
		t.Errorf("total = %s", rec.TotalAmount)
	}
	if !rec.IVAAmount.Equal(decimal.RequireFromString("1300")) {
		t.Errorf("iva = %s, want stated 1300", rec.IVAAmount)
	}
	if !rec.IVARatePercent.Equal(decimal.RequireFromString("13")) {
		t.Errorf("rate = %s", rec.IVARatePercent)
	}
	if rec.Description != "Materiales de mantenimiento" {
		t.Errorf("description = %q", rec.Description)
	}
	if rec.FileName != "factura.xml" {
		t.Errorf("file name = %q", rec.FileName)
	}
}

func TestNormalizeDerivesIVAFromInclusiveTotal(t *testing.T) {
	raw := `<FacturaElectronica>
  <FechaEmision>2024-01-10</FechaEmision>
  <Emisor><Nombre>Proveedor</Nombre></Emisor>
  <DetalleServicio>
    <LineaDetalle>
      <Detalle>Servicio</Detalle>
      <Impuesto><Tarifa>13</Tarifa></Impuesto>
    </LineaDetalle>
  </DetalleServicio>
  <ResumenFactura><TotalComprobante>1000</TotalComprobante></ResumenFactura>
</FacturaElectronica>`

	rec := mustNormalize(t, raw, "derived.xml")
	// 1000 * 0.13 / 1.13
	if got := rec.IVAAmount.Round(2); !got.Equal(decimal.RequireFromString("115.04")) {
		t.Errorf("derived iva = %s, want 115.04", got)
	}
}

func TestNormalizeAllSupportedRoots(t *testing.T) {
	for _, root := range []string{"FacturaElectronica", "TiqueteElectronico", "NotaCreditoElectronica"} {
		raw := fmt.Sprintf(`<%s>
  <FechaEmision>2024-02-01</FechaEmision>
  <Emisor><Nombre>Emisor</Nombre></Emisor>
  <ResumenFactura><TotalComprobante>500</TotalComprobante></ResumenFactura>
</%s>`, root, root)
		if _, perr := Normalize([]byte(raw), root+".xml", decimal.Zero); perr != nil {
			t.Errorf("%s rejected: %v", root, perr)
		}
	}
}

func TestNormalizeUnsupportedRoot(t *testing.T) {
	raw := `<MensajeReceptor><Emisor><Nombre>X</Nombre></Emisor></MensajeReceptor>`
	_, perr := Normalize([]byte(raw), "mensaje.xml", decimal.Zero)
	if perr == nil || perr.Code != FailureUnsupported {
		t.Fatalf("got %v, want unsupported document type", perr)
	}
}

func TestNormalizeMalformed(t *testing.T) {
	_, perr := Normalize([]byte("this is not xml <"), "broken.xml", decimal.Zero)
	if perr == nil || perr.Code != FailureMalformed {
		t.Fatalf("got %v, want malformed document", perr)
	}
}

func TestNormalizeMissingFieldsNamed(t *testing.T) {
	raw := `<FacturaElectronica>
  <ResumenFactura><TotalComprobante>500</TotalComprobante></ResumenFactura>
</FacturaElectronica>`
	_, perr := Normalize([]byte(raw), "incomplete.xml", decimal.Zero)
	if perr == nil || perr.Code != FailureMissingField {
		t.Fatalf("got %v, want missing required field", perr)
	}
	want := []string{"issuer", "date"}
	if len(perr.Fields) != len(want) {
		t.Fatalf("fields = %v, want %v", perr.Fields, want)
	}
	for i, f := range want {
		if perr.Fields[i] != f {
			t.Errorf("fields[%d] = %q, want %q", i, perr.Fields[i], f)
		}
	}
}

func TestNormalizeNegativeTotalRejected(t *testing.T) {
	raw := `<FacturaElectronica>
  <FechaEmision>2024-02-01</FechaEmision>
  <Emisor><Nombre>Emisor</Nombre></Emisor>
  <ResumenFactura><TotalComprobante>-100</TotalComprobante></ResumenFactura>
</FacturaElectronica>`
	_, perr := Normalize([]byte(raw), "negative.xml", decimal.Zero)
	if perr == nil || perr.Code != FailureInvalidValue {
		t.Fatalf("got %v, want invalid field value", perr)
	}
}

func TestNormalizeDuplicateTaxLinesTakeFirst(t *testing.T) {
	raw := `<FacturaElectronica>
  <FechaEmision>2024-02-01</FechaEmision>
  <Emisor><Nombre>Emisor</Nombre></Emisor>
  <DetalleServicio>
    <LineaDetalle>
      <Detalle>Primera</Detalle>
      <Impuesto><Tarifa>4</Tarifa></Impuesto>
      <Impuesto><Tarifa>13</Tarifa></Impuesto>
    </LineaDetalle>
    <LineaDetalle>
      <Detalle>Segunda</Detalle>
      <Impuesto><Tarifa>13</Tarifa></Impuesto>
    </LineaDetalle>
  </DetalleServicio>
  <ResumenFactura><TotalComprobante>208</TotalComprobante></ResumenFactura>
</FacturaElectronica>`

	rec := mustNormalize(t, raw, "dup.xml")
	if !rec.IVARatePercent.Equal(decimal.RequireFromString("4")) {
		t.Errorf("rate = %s, want first tarifa 4", rec.IVARatePercent)
	}
	if rec.Description != "Primera" {
		t.Errorf("description = %q, want first line", rec.Description)
	}
}

func TestNormalizeDefaultsWithoutDetail(t *testing.T) {
	raw := `<TiqueteElectronico>
  <FechaEmision>2024-02-01</FechaEmision>
  <Emisor><Nombre>Pulpería</Nombre></Emisor>
  <ResumenFactura><TotalComprobante>226</TotalComprobante></ResumenFactura>
</TiqueteElectronico>`

	rec := mustNormalize(t, raw, "tiquete.xml")
	if rec.Description != NoDescription {
		t.Errorf("description = %q, want %q", rec.Description, NoDescription)
	}
	if !rec.IVARatePercent.Equal(DefaultIVARatePercent) {
		t.Errorf("rate = %s, want default 13", rec.IVARatePercent)
	}
	if got := rec.IVAAmount.Round(2); !got.Equal(decimal.RequireFromString("26.00")) {
		t.Errorf("derived iva = %s, want 26.00", got)
	}
}

func TestNormalizeBatchIsolatesFailures(t *testing.T) {
	files := []File{
		{Name: "ok1.xml", Data: []byte(facturaFull)},
		{Name: "bad.xml", Data: []byte("<nope")},
		{Name: "ok2.xml", Data: []byte(`<FacturaElectronica>
  <FechaEmision>2024-02-01</FechaEmision>
  <Emisor><Nombre>Otro</Nombre></Emisor>
  <ResumenFactura><TotalComprobante>500</TotalComprobante></ResumenFactura>
</FacturaElectronica>`)},
	}

	result := NormalizeBatch(files, decimal.Zero)
	if result.SuccessCount() != 2 {
		t.Fatalf("success count = %d, want 2", result.SuccessCount())
	}
	if result.ErrorCount() != 1 {
		t.Fatalf("error count = %d, want 1", result.ErrorCount())
	}
	if result.Failures[0].FileName != "bad.xml" {
		t.Errorf("failure file = %q", result.Failures[0].FileName)
	}
	if result.Failures[0].Reason != string(FailureMalformed) {
		t.Errorf("failure reason = %q", result.Failures[0].Reason)
	}
}
