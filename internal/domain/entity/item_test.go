package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/invoice-bridge/internal/domain/entity"
)

// La tasa se aplica como multiplicador directo, no como porcentaje. Con
// neto 100.00 y tasa 7.7 el impuesto es 770.00 y el total 870.00.
func TestItem_TasaComoMultiplicadorDirecto(t *testing.T) {
	item := entity.Item{
		Index:       1,
		Description: "Service",
		Count:       2,
		UnitPrice:   decimal.RequireFromString("50.00"),
		TotalPrice:  decimal.RequireFromString("100.00"),
		VATRate:     decimal.RequireFromString("7.7"),
	}

	assert.True(t, item.VATAmount().Equal(decimal.RequireFromString("770.00")),
		"importe de IVA = neto * tasa, sin dividir entre 100")
	assert.True(t, item.GrossPrice().Equal(decimal.RequireFromString("770.00")),
		"bruto = unitario * cantidad * tasa")
}

func TestTotales(t *testing.T) {
	items := []entity.Item{
		{TotalPrice: decimal.RequireFromString("100.00"), VATRate: decimal.RequireFromString("7.7")},
		{TotalPrice: decimal.RequireFromString("50.00"), VATRate: decimal.RequireFromString("2.5")},
	}

	assert.True(t, entity.NetTotal(items).Equal(decimal.RequireFromString("150.00")))
	assert.True(t, entity.VATTotal(items).Equal(decimal.RequireFromString("895.00")))
	assert.True(t, entity.GrandTotal(items).Equal(decimal.RequireFromString("1045.00")))
}
