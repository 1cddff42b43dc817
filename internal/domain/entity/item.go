package entity

import "github.com/shopspring/decimal"

// Item es una posición de la factura (línea RechnPos del archivo de trabajo).
//
// VATRate se aplica directamente como multiplicador (bruto = neto * tasa),
// NO como porcentaje dividido entre 100. Es la convención de los datos del
// sistema origen y se preserva tal cual aunque para tasas > 1 el "importe de
// IVA" resulte mayor que el precio neto.
type Item struct {
	Index       int             `json:"index"` // posición 1-based dentro de la factura
	Description string          `json:"description"`
	Count       int             `json:"count"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"` // neto de la posición, ya calculado por el origen
	VATRate     decimal.Decimal `json:"vat_rate"`
}

// GrossPrice devuelve el precio bruto de la posición: unitario * cantidad * tasa.
func (it Item) GrossPrice() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Count))).Mul(it.VATRate)
}

// VATAmount devuelve el importe de IVA de la posición: neto * tasa.
func (it Item) VATAmount() decimal.Decimal {
	return it.TotalPrice.Mul(it.VATRate)
}

// NetTotal suma los totales netos de todas las posiciones.
func NetTotal(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.TotalPrice)
	}
	return total
}

// VATTotal suma los importes de IVA de todas las posiciones.
func VATTotal(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.VATAmount())
	}
	return total
}

// GrandTotal devuelve el total de la factura incluyendo IVA.
func GrandTotal(items []Item) decimal.Decimal {
	return NetTotal(items).Add(VATTotal(items))
}
