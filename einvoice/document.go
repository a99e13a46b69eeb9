// Package einvoice parses Costa Rican electronic-invoice XML documents
// (comprobantes electrónicos, Hacienda v4.3 layout) into canonical
// expense records. It is pure: no I/O, no ambient state, and every
// data-shape problem is reported as a value instead of a panic.
package einvoice

import "encoding/xml"

// document is the generic shape shared by the supported comprobante
// types. Field paths follow the Hacienda v4.3 schema; the root element
// name decides whether the document is accepted at all.
type document struct {
	XMLName         xml.Name
	Emisor          emisor          `xml:"Emisor"`
	FechaEmision    string          `xml:"FechaEmision"`
	ResumenFactura  resumenFactura  `xml:"ResumenFactura"`
	DetalleServicio detalleServicio `xml:"DetalleServicio"`
}

type emisor struct {
	Nombre string `xml:"Nombre"`
}

type resumenFactura struct {
	TotalComprobante string `xml:"TotalComprobante"`
	TotalImpuesto    string `xml:"TotalImpuesto"`
}

type detalleServicio struct {
	Lineas []lineaDetalle `xml:"LineaDetalle"`
}

type lineaDetalle struct {
	Detalle     string     `xml:"Detalle"`
	Descripcion string     `xml:"Descripcion"`
	Impuestos   []impuesto `xml:"Impuesto"`
}

type impuesto struct {
	Tarifa string `xml:"Tarifa"`
}

// fieldExtractors maps one document type to its named field extractors.
// Every extractor returns ok=false when the element is absent or empty,
// so absence is explicit rather than an undefined chain.
type fieldExtractors struct {
	issuer      func(d *document) (string, bool)
	issueDate   func(d *document) (string, bool)
	totalAmount func(d *document) (string, bool)
	taxAmount   func(d *document) (string, bool)
	taxRate     func(d *document) (string, bool)
	description func(d *document) (string, bool)
}

func nonEmpty(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	return s, true
}

// haciendaV43 extracts the fields shared by facturas, tiquetes and
// notas de crédito. The three schemas coincide on every path we read.
var haciendaV43 = fieldExtractors{
	issuer:      func(d *document) (string, bool) { return nonEmpty(d.Emisor.Nombre) },
	issueDate:   func(d *document) (string, bool) { return nonEmpty(d.FechaEmision) },
	totalAmount: func(d *document) (string, bool) { return nonEmpty(d.ResumenFactura.TotalComprobante) },
	taxAmount:   func(d *document) (string, bool) { return nonEmpty(d.ResumenFactura.TotalImpuesto) },
	taxRate: func(d *document) (string, bool) {
		if len(d.DetalleServicio.Lineas) == 0 {
			return "", false
		}
		// Duplicate tax lines: the first one wins.
		impuestos := d.DetalleServicio.Lineas[0].Impuestos
		if len(impuestos) == 0 {
			return "", false
		}
		return nonEmpty(impuestos[0].Tarifa)
	},
	description: func(d *document) (string, bool) {
		if len(d.DetalleServicio.Lineas) == 0 {
			return "", false
		}
		linea := d.DetalleServicio.Lineas[0]
		if linea.Detalle != "" {
			return linea.Detalle, true
		}
		return nonEmpty(linea.Descripcion)
	},
}

// documentSchemas is the set of supported root elements. Anything else
// is reported as an unsupported document type.
var documentSchemas = map[string]fieldExtractors{
	"FacturaElectronica":     haciendaV43,
	"TiqueteElectronico":     haciendaV43,
	"NotaCreditoElectronica": haciendaV43,
}
