package invoice_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/invoice-bridge/internal/domain"
	"github.com/tu-usuario/invoice-bridge/internal/domain/invoice"
	"github.com/tu-usuario/invoice-bridge/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del parser de archivos de trabajo. El formato de entrada es el del
// sistema origen: líneas con campos separados por ";" y cuatro clases de tag
// (Rechnung_<n>, Herkunft, Endkunde, RechnPos).
// ──────────────────────────────────────────────────────────────────────────────

const sampleJob = `Rechnung_500;Auftrag_9;Zurich;01.01.2024;10:00:00;ZahlungszielInTagen_30
Herkunft;K123;Firma;Muster AG;Musterstrasse 1;8000 Zurich;CHE-123.456.789;muster@example.com
Endkunde;77;Hans Beispiel;Beispielweg 2;3000 Bern
RechnPos;1;Service;2;50.00;100.00;7.7%
`

func TestParse_ArchivoCompleto(t *testing.T) {
	p := invoice.NewParser(logger.Nop())

	inv, err := p.Parse(strings.NewReader(sampleJob), "job1.data")
	require.NoError(t, err)

	assert.Equal(t, 500, inv.InvoiceNumber)
	assert.Equal(t, "9", inv.JobID, "el prefijo Auftrag_ debe quitarse")
	assert.Equal(t, "Zurich", inv.Location)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), inv.IssuedAt)
	assert.Equal(t, "30", inv.DaysToPay, "el prefijo ZahlungszielInTagen_ debe quitarse")

	assert.Equal(t, "K123", inv.Sender.CustomerNumber)
	assert.Equal(t, "muster@example.com", inv.Sender.Email)
	assert.Equal(t, "8000", inv.Sender.Zip)
	assert.Equal(t, "Zurich", inv.Sender.Location)

	assert.Equal(t, "77", inv.Receiver.CustomerID)
	assert.Equal(t, "3000 Bern", inv.Receiver.ZipLocation)

	require.Len(t, inv.Items, 1)
	item := inv.Items[0]
	assert.Equal(t, 1, item.Index)
	assert.Equal(t, "Service", item.Description)
	assert.Equal(t, 2, item.Count)
	assert.True(t, item.UnitPrice.Equal(decimal.RequireFromString("50.00")))
	assert.True(t, item.TotalPrice.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, item.VATRate.Equal(decimal.RequireFromString("7.7")),
		"la tasa se extrae de la subcadena decimal de \"7.7%\"")

	assert.True(t, inv.Validate())
}

// TestParse_TagDesconocido verifica que una línea con identificación
// inesperada no aborta el archivo: se ignora y el resto se procesa.
func TestParse_TagDesconocido(t *testing.T) {
	p := invoice.NewParser(logger.Nop())
	content := "Kommentar;esto no es de nadie\n" + sampleJob

	inv, err := p.Parse(strings.NewReader(content), "job1.data")
	require.NoError(t, err)
	assert.Equal(t, 500, inv.InvoiceNumber)
}

// TestParse_CantidadDeCamposIncorrecta verifica que una línea con tag
// conocido pero cantidad de campos equivocada descarta el archivo completo.
func TestParse_CantidadDeCamposIncorrecta(t *testing.T) {
	cases := map[string]string{
		"cabecera con 5 campos": "Rechnung_500;Auftrag_9;Zurich;01.01.2024;10:00:00\n",
		"emisor con 7 campos":   "Herkunft;K123;Firma;Muster AG;Musterstrasse 1;8000 Zurich;CHE-123.456.789\n",
		"receptor con 4 campos": "Endkunde;77;Hans Beispiel;Beispielweg 2\n",
		"posición con 6 campos": "RechnPos;1;Service;2;50.00;100.00\n",
	}
	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			p := invoice.NewParser(logger.Nop())
			_, err := p.Parse(strings.NewReader(line), "job1.data")
			assert.ErrorIs(t, err, domain.ErrMalformedRecord)
		})
	}
}

// TestParse_TasaSinDecimal verifica que una tasa sin subcadena decimal
// (p. ej. "7%") es fatal para el archivo.
func TestParse_TasaSinDecimal(t *testing.T) {
	p := invoice.NewParser(logger.Nop())
	content := strings.Replace(sampleJob, "7.7%", "7%", 1)

	_, err := p.Parse(strings.NewReader(content), "job1.data")
	assert.ErrorIs(t, err, domain.ErrMalformedRecord)
}

// TestParse_SeccionFaltante verifica que las cuatro clases de línea son
// obligatorias: sin alguna de ellas el archivo se rechaza al final.
func TestParse_SeccionFaltante(t *testing.T) {
	lines := strings.SplitAfter(sampleJob, "\n")
	for skip := 0; skip < 4; skip++ {
		content := ""
		for i, line := range lines {
			if i == skip {
				continue
			}
			content += line
		}
		p := invoice.NewParser(logger.Nop())
		_, err := p.Parse(strings.NewReader(content), "job1.data")
		assert.ErrorIs(t, err, domain.ErrMissingSection, "sin la línea %d debe faltar una sección", skip)
	}
}

func TestParse_FechaInvalida(t *testing.T) {
	p := invoice.NewParser(logger.Nop())
	content := strings.Replace(sampleJob, "01.01.2024", "2024-01-01", 1)

	_, err := p.Parse(strings.NewReader(content), "job1.data")
	assert.ErrorIs(t, err, domain.ErrMalformedRecord)
}
