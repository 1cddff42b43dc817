package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tu-usuario/invoice-bridge/internal/domain"
	"github.com/tu-usuario/invoice-bridge/internal/domain/entity"
)

// Disposición del documento de texto: un buffer de al menos 61 líneas
// direccionadas por número literal, unidas con CRLF. Cuando las posiciones
// empujan los totales más allá del bloque del formulario el buffer crece y
// el documento queda más largo. Cada offset mágico del formulario de pago
// original está nombrado acá y cubierto por un test de alineación.
const (
	txtLineCount = 61

	lineSalutation   = 0
	lineSenderName   = 1
	lineSenderStreet = 2
	lineSenderZip    = 3
	lineSenderVAT    = 4

	lineLocationDate = 9
	lineReceiverAddr = 10
	lineReceiverZip  = 11

	lineCustomerNumber = 13
	lineJobID          = 14

	lineInvoiceNumber = 16
	lineRule          = 17

	lineItemStart = 18
	// Offsets relativos a la cantidad de posiciones.
	lineItemRuleOffset = 18
	lineNetTotalOffset = 19
	lineVATTotalOffset = 21

	linePaymentGoal = 40

	lineSlipTitle    = 42
	lineSlipAmounts  = 54
	lineSlipAddr     = 55
	lineSlipNumber   = 56
	lineSlipReceiver = 58
	lineSlipRecvAddr = 59
	lineSlipRecvZip  = 60
)

// Anchos de columna del formulario.
const (
	locationDateWidth = 50 // la línea 9 se trunca exactamente acá
	receiverMargin    = 49 // margen izquierdo de las líneas 10-11
	metaLabelWidth    = 19 // etiquetas Kundennummer/Auftragsnummer
	invoiceLabelWidth = 18

	itemIndexMargin   = 2
	itemDescWidth     = 39
	itemCountWidth    = 2
	itemPriceWidth    = 10
	itemCurrencyPad   = 2
	itemCurrencyWidth = 4
	itemTotalWidth    = 11
	itemVATGap        = 1
	itemVATWidth      = 6

	totalsMargin      = 48
	totalsAmountWidth = 16
	itemRuleMargin    = 62

	slipAmountWidth   = 13
	slipSecondColumn  = 29
	slipTrailingPad   = 5
	slipAddressMargin = 47
	slipNumberWidth   = 47
)

const (
	separatorRule   = "-----------------------"
	itemRule        = "-----------"
	slipTitle       = "Einzahlungsschein"
	slipPlaceholder = "0 00000 00000 00000"
)

// TxtBuilder renderiza la factura como documento de texto de ancho fijo que
// imita el formulario de pago. Función pura de la factura y la fecha actual
// (usada solo para la línea de lugar/fecha y la frase del plazo de pago).
type TxtBuilder struct{}

// NewTxtBuilder crea el renderer de texto.
func NewTxtBuilder() *TxtBuilder {
	return &TxtBuilder{}
}

// Build genera el documento de texto. Devuelve ErrInvalidDuration si el plazo
// de pago no es numérico; en ese caso no debe escribirse ningún documento.
func (b *TxtBuilder) Build(inv *entity.InvoiceJob, now time.Time) (string, error) {
	days, err := paymentDays(inv)
	if err != nil {
		return "", err
	}

	size := lineVATTotalOffset + len(inv.Items) + 1
	if size < txtLineCount {
		size = txtLineCount
	}
	txt := make([]string, size)
	b.addSender(inv, txt)
	b.addLocationAndDate(inv, now, txt)
	b.addReceiver(inv, txt)
	b.addMetaData(inv, txt)
	b.addBody(inv, txt)
	b.addPaymentGoal(inv, days, now, txt)
	b.addPaymentSlip(inv, txt)
	return strings.Join(txt, "\r\n"), nil
}

func paymentDays(inv *entity.InvoiceJob) (int, error) {
	days, err := strconv.Atoi(inv.DaysToPay)
	if err != nil {
		return 0, fmt.Errorf("plazo de pago %q: %w", inv.DaysToPay, domain.ErrInvalidDuration)
	}
	return days, nil
}

// spaces devuelve n espacios; cantidades negativas producen cadena vacía,
// igual que el formulario original cuando un valor desborda su columna.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

func (b *TxtBuilder) addSender(inv *entity.InvoiceJob, txt []string) {
	sender := inv.Sender
	txt[lineSalutation] = sender.Salutation
	txt[lineSenderName] = sender.Name
	txt[lineSenderStreet] = sender.Address
	txt[lineSenderZip] = sender.ZipLocation
	txt[lineSenderVAT] = sender.VATNumber
}

// addLocationAndDate arma la línea 9: "<lugar>, den <fecha>" rellenada y
// truncada a exactamente 50 columnas; el nombre del receptor se concatena
// inmediatamente después, sin separador (comportamiento heredado, se
// preserva tal cual).
func (b *TxtBuilder) addLocationAndDate(inv *entity.InvoiceJob, now time.Time, txt []string) {
	line := inv.Location + ", den " + now.Format("02.01.2006") + spaces(locationDateWidth)
	txt[lineLocationDate] = line[:locationDateWidth]
}

func (b *TxtBuilder) addReceiver(inv *entity.InvoiceJob, txt []string) {
	receiver := inv.Receiver
	txt[lineLocationDate] += receiver.Name
	txt[lineReceiverAddr] = spaces(receiverMargin) + receiver.Address
	txt[lineReceiverZip] = spaces(receiverMargin) + receiver.ZipLocation
}

func (b *TxtBuilder) addMetaData(inv *entity.InvoiceJob, txt []string) {
	customerNumberLabel := "Kundennummer:"
	jobIDLabel := "Auftragsnummer:"
	txt[lineCustomerNumber] = customerNumberLabel +
		spaces(metaLabelWidth-len(customerNumberLabel)) +
		inv.Sender.CustomerNumber
	txt[lineJobID] = jobIDLabel +
		spaces(metaLabelWidth-len(jobIDLabel)) +
		inv.JobID
}

func (b *TxtBuilder) addBody(inv *entity.InvoiceJob, txt []string) {
	invoiceNumberLabel := "Rechnung Nr"
	txt[lineInvoiceNumber] = invoiceNumberLabel +
		spaces(invoiceLabelWidth-len(invoiceNumberLabel)) +
		strconv.Itoa(inv.InvoiceNumber)
	txt[lineRule] = separatorRule
	b.addItems(inv, txt)
}

func (b *TxtBuilder) addItems(inv *entity.InvoiceJob, txt []string) {
	count := 0
	for _, item := range inv.Items {
		txt[lineItemStart+count] = b.itemLine(item)
		count++
	}
	net := entity.NetTotal(inv.Items).Round(2).StringFixed(2)
	vat := entity.VATTotal(inv.Items).Round(2).StringFixed(2)
	txt[lineItemRuleOffset+count] = spaces(itemRuleMargin) + itemRule
	totalLabel := "Total " + currencyCode
	txt[lineNetTotalOffset+count] = spaces(totalsMargin) +
		totalLabel +
		spaces(totalsAmountWidth-len(net)) +
		net
	vatLabel := "MWST  " + currencyCode
	txt[lineVATTotalOffset+count] = spaces(totalsMargin) +
		vatLabel +
		spaces(totalsAmountWidth-len(vat)) +
		vat
}

// itemLine concatena los segmentos de ancho fijo de una posición:
// índice, descripción, cantidad, precio unitario, moneda, total y tasa.
func (b *TxtBuilder) itemLine(item entity.Item) string {
	description := item.Description
	count := strconv.Itoa(item.Count)
	vat := item.VATRate.Round(2).StringFixed(2) + "%"
	unitPrice := item.UnitPrice.Round(2).StringFixed(2)
	totalPrice := item.TotalPrice.Round(2).StringFixed(2)
	return spaces(itemIndexMargin) +
		strconv.Itoa(item.Index) +
		spaces(itemIndexMargin) +
		description +
		spaces(itemDescWidth-len(description)) +
		count +
		spaces(itemCountWidth-len(count)) +
		spaces(itemPriceWidth-len(unitPrice)) +
		unitPrice +
		spaces(itemCurrencyPad) +
		currencyCode +
		spaces(itemCurrencyWidth-len(currencyCode)) +
		spaces(itemTotalWidth-len(totalPrice)) +
		totalPrice +
		spaces(itemVATGap) +
		spaces(itemVATWidth-len(vat)) +
		vat
}

func (b *TxtBuilder) addPaymentGoal(inv *entity.InvoiceJob, days int, now time.Time, txt []string) {
	due := now.AddDate(0, 0, days)
	txt[linePaymentGoal] = "Zahlungsziel ohne Abzug " + inv.DaysToPay +
		" Tage (" + due.Format("02.01.2006") + ")"
}

// addPaymentSlip arma el bloque del formulario de pago (líneas 42-60):
// importes justificados a la derecha en columnas fijas, número de boleta
// placeholder y la dirección del receptor repetida dos veces.
func (b *TxtBuilder) addPaymentSlip(inv *entity.InvoiceJob, txt []string) {
	txt[lineSlipTitle] = slipTitle
	total := entity.GrandTotal(inv.Items).Round(2).StringFixed(2)
	txt[lineSlipAmounts] = spaces(slipAmountWidth-len(total)) +
		total +
		spaces(slipSecondColumn-len(total)) +
		total +
		spaces(slipTrailingPad)
	txt[lineSlipNumber] = slipPlaceholder + spaces(slipNumberWidth-len(slipPlaceholder))

	receiver := inv.Receiver
	txt[lineSlipAmounts] += receiver.Name
	txt[lineSlipAddr] = spaces(slipAddressMargin) + receiver.Address
	txt[lineSlipNumber] += receiver.ZipLocation

	txt[lineSlipReceiver] = receiver.Name
	txt[lineSlipRecvAddr] = receiver.Address
	txt[lineSlipRecvZip] = receiver.ZipLocation
}
