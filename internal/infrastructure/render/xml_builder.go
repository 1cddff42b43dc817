package render

import (
	_ "embed"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/invoice-bridge/internal/domain"
	"github.com/tu-usuario/invoice-bridge/internal/domain/entity"
)

// Plantilla estática del documento de factura. Las secciones se direccionan
// por nombre lógico a través de los accessors de abajo, nunca por
// concatenación de nombres en runtime.
//
//go:embed template.xml
var xmlTemplate string

// Nombres de las secciones de la plantilla.
const (
	secHeader           = "Invoice_Header"
	secDetail           = "Invoice_Detail"
	secItems            = "Invoice_Items"
	secSummary          = "Invoice_Summary"
	secBasicData        = "I.H.010_Basisdaten"
	secBuyerIdent       = "I.H.020_Einkaeufer_Identifikation"
	secInvoiceAddress   = "I.H.040_Rechnungsadresse"
	secPayingConditions = "I.H.080_Zahlungsbedingungen"
	secVATInformation   = "I.H.140_MwSt._Informationen"
	secItemBasicData    = "I.D.010_Basisdaten"
	secItemPrices       = "I.D.020_Preise_und_Mengen"
	secItemTaxes        = "I.D.030_Steuern"
	secSummaryBasicData = "I.S.010_Basisdaten"
	secSummaryTaxes     = "I.S.020_Aufschluesselung_der_Steuern"
)

// Valores fijos heredados del sistema origen.
const (
	articleNumberPlaceholder = "0123456789"
	quantityUnit             = "BLL"
	currencyCode             = "CHF"
	taxFunction              = "Steuer"
	taxCategory              = "Standard Satz"
	summaryTaxRate           = "0.00"
)

// XMLBuilder renderiza la factura como documento XML a partir de la plantilla
// estática. Es una función pura de la factura: dos llamadas con la misma
// entrada producen bytes idénticos.
type XMLBuilder struct{}

// NewXMLBuilder crea el renderer XML.
func NewXMLBuilder() *XMLBuilder {
	return &XMLBuilder{}
}

// Build genera el documento XML de la factura. Si el plazo de pago no puede
// interpretarse como número entero de días devuelve ErrInvalidDuration y no
// se debe escribir ningún documento de esa factura.
func (b *XMLBuilder) Build(inv *entity.InvoiceJob) ([]byte, error) {
	dueDate, err := dueDate(inv)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(xmlTemplate); err != nil {
		return nil, fmt.Errorf("leer plantilla de factura: %w", err)
	}
	root := doc.Root()
	header := root.SelectElement(secHeader)
	if header == nil {
		return nil, fmt.Errorf("plantilla de factura sin sección %s", secHeader)
	}

	b.fillBasicData(header, inv)
	b.fillBuyerIdentification(header, inv)
	b.fillInvoiceAddress(header, inv)
	b.fillPayingConditions(header, dueDate)
	b.fillVATInformation(header, inv)

	items := root.SelectElement(secDetail).SelectElement(secItems)
	for _, item := range inv.Items {
		b.fillItem(items, item, inv)
	}

	summary := root.SelectElement(secSummary)
	b.fillSummary(summary, inv)

	doc.Indent(2)
	return doc.WriteToBytes()
}

// dueDate calcula la fecha de vencimiento: emisión + plazo de pago en días.
func dueDate(inv *entity.InvoiceJob) (time.Time, error) {
	days, err := strconv.Atoi(inv.DaysToPay)
	if err != nil {
		return time.Time{}, fmt.Errorf("plazo de pago %q: %w", inv.DaysToPay, domain.ErrInvalidDuration)
	}
	return inv.IssuedAt.AddDate(0, 0, days), nil
}

// formatTimestamp formatea una fecha con el formato del sistema de facturación.
func formatTimestamp(t time.Time) string {
	return t.Format("20060102150405") + "000"
}

func formatAmount(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}

// addValue agrega un elemento hoja con valor de texto a una sección.
func addValue(parent *etree.Element, name, value string) {
	parent.CreateElement(name).SetText(value)
}

func (b *XMLBuilder) fillBasicData(header *etree.Element, inv *entity.InvoiceJob) {
	section := header.SelectElement(secBasicData)
	addValue(section, "BV.010_Rechnungsnummer", strconv.Itoa(inv.InvoiceNumber))
	addValue(section, "BV.020_Rechnungsdatum", formatTimestamp(inv.IssuedAt))
}

func (b *XMLBuilder) fillBuyerIdentification(header *etree.Element, inv *entity.InvoiceJob) {
	section := header.SelectElement(secBuyerIdent)
	sender := inv.Sender
	addValue(section, "BV.020_Nr_Kaeufer_beim_Kaeufer", sender.CustomerNumber)
	addValue(section, "BV.040_Name1", sender.Name)
	addValue(section, "BV.070_Strasse", sender.Address)
	addValue(section, "BV.100_PLZ", sender.Zip)
	addValue(section, "BV.110_Stadt", sender.Location)
}

func (b *XMLBuilder) fillInvoiceAddress(header *etree.Element, inv *entity.InvoiceJob) {
	section := header.SelectElement(secInvoiceAddress)
	receiver := inv.Receiver
	addValue(section, "BV.040_Name1", receiver.Name)
	addValue(section, "BV.100_PLZ", receiver.Zip)
	addValue(section, "BV.110_Stadt", receiver.Location)
}

func (b *XMLBuilder) fillPayingConditions(header *etree.Element, dueDate time.Time) {
	section := header.SelectElement(secPayingConditions)
	addValue(section, "BV.020_Zahlungsbedingungen_Zusatzwert", formatTimestamp(dueDate))
}

func (b *XMLBuilder) fillVATInformation(header *etree.Element, inv *entity.InvoiceJob) {
	section := header.SelectElement(secVATInformation)
	addValue(section, "BV.010_Eingetragener_Name_des_Lieferanten", inv.Sender.Name)
	addValue(section, "BV.020_MwSt_Nummer_des_Lieferanten", inv.Sender.VATNumber)
}

// fillItem agrega el triple de bloques (datos básicos / precios / impuestos)
// de una posición.
func (b *XMLBuilder) fillItem(items *etree.Element, item entity.Item, inv *entity.InvoiceJob) {
	basic := items.CreateElement(secItemBasicData)
	addValue(basic, "BV.010_Positions_Nr_in_der_Rechnung", strconv.Itoa(item.Index))
	addValue(basic, "BV.020_Artikel_Nr_des_Lieferanten", articleNumberPlaceholder)
	addValue(basic, "BV.070_Artikel_Beschreibung", item.Description)
	addValue(basic, "BV.140_Abschlussdatum_der_Lieferung_Ausfuehrung", formatTimestamp(inv.IssuedAt))

	prices := items.CreateElement(secItemPrices)
	addValue(prices, "BV.010_Verrechnete_Menge", strconv.Itoa(item.Count))
	addValue(prices, "BV.020_Mengeneinheit_der_verrechneten_Menge", quantityUnit)
	addValue(prices, "BV.030_Verrechneter_Einzelpreis_des_Artikels", formatAmount(item.UnitPrice))
	addValue(prices, "BV.040_Waehrung_des_Einzelpreises", currencyCode)
	addValue(prices, "BV.070_Bestaetigter_Gesamtpreis_der_Position_netto", formatAmount(item.TotalPrice))
	addValue(prices, "BV.080_Bestaetigter_Gesamtpreis_der_Position_brutto", formatAmount(item.GrossPrice()))
	addValue(prices, "BV.090_Waehrung_des_Gesamtpreises", currencyCode)

	taxes := items.CreateElement(secItemTaxes)
	addValue(taxes, "BV.010_Funktion_der_Steuer", taxFunction)
	addValue(taxes, "BV.020_Steuersatz_Kategorie", taxCategory)
	addValue(taxes, "BV.030_Steuersatz", item.VATRate.String())
	addValue(taxes, "BV.040_Zu_versteuernder_Betrag", formatAmount(item.TotalPrice))
	addValue(taxes, "BV.050_Steuerbetrag", formatAmount(item.VATAmount()))
}

func (b *XMLBuilder) fillSummary(summary *etree.Element, inv *entity.InvoiceJob) {
	net := entity.NetTotal(inv.Items)
	vat := entity.VATTotal(inv.Items)
	grand := entity.GrandTotal(inv.Items)

	basic := summary.SelectElement(secSummaryBasicData)
	addValue(basic, "BV.010_Anzahl_der_Rechnungspositionen", strconv.Itoa(len(inv.Items)))
	addValue(basic, "BV.020_Gesamtbetrag_der_Rechnung_exkl_MwSt_exkl_Ab_Zuschlag", formatAmount(net))
	addValue(basic, "BV.040_Gesamtbetrag_der_Rechnung_exkl_MwSt_inkl_Ab_Zuschlag", formatAmount(vat))
	addValue(basic, "BV.080_Gesamtbetrag_der_Rechnung_inkl_MwSt_inkl_Ab_Zuschlag", formatAmount(grand))
	addValue(basic, "BV.060_Steuerbetrag", formatAmount(net))

	taxes := summary.SelectElement(secSummaryTaxes)
	addValue(taxes, "BV.030_Steuersatz", summaryTaxRate)
	addValue(taxes, "BV.040_Zu_versteuernder_Betrag", formatAmount(net))
	addValue(taxes, "BV.050_Steuerbetrag", formatAmount(vat))
}
