package invoice

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/invoice-bridge/internal/domain"
	"github.com/tu-usuario/invoice-bridge/internal/domain/entity"
	"github.com/tu-usuario/invoice-bridge/pkg/logger"
)

// Cantidad de campos requerida por cada tipo de línea.
const (
	metaFieldCount     = 6
	senderFieldCount   = 8
	receiverFieldCount = 5
	itemFieldCount     = 7
)

// Prefijos literales de la línea de cabecera.
const (
	invoiceNumberPrefix = "Rechnung_"
	jobIDPrefix         = "Auftrag_"
	daysToPayPrefix     = "ZahlungszielInTagen_"
)

// issueDateLayout combina las columnas de fecha (d.m.Y) y hora (H:i:s) de la cabecera.
const issueDateLayout = "02.01.2006-15:04:05"

var (
	metaLinePattern     = regexp.MustCompile(`^Rechnung_\d+$`)
	senderLinePattern   = regexp.MustCompile(`^Herkunft$`)
	receiverLinePattern = regexp.MustCompile(`^Endkunde$`)
	itemLinePattern     = regexp.MustCompile(`^RechnPos$`)
	vatRatePattern      = regexp.MustCompile(`\d+\.\d+`)
)

// sectionPatterns son las cuatro clases de línea que deben aparecer al menos
// una vez en cada archivo de trabajo.
var sectionPatterns = []*regexp.Regexp{metaLinePattern, senderLinePattern, receiverLinePattern, itemLinePattern}

// Parser convierte un archivo de trabajo en una factura validable.
// Las líneas con tag desconocido se registran y se ignoran; una línea
// conocida con cantidad de campos incorrecta aborta el archivo completo.
type Parser struct {
	log *logger.Logger
}

// NewParser crea el parser.
func NewParser(log *logger.Logger) *Parser {
	return &Parser{log: log}
}

// ParseFile parsea un archivo de trabajo del staging local.
func (p *Parser) ParseFile(path string) (*entity.InvoiceJob, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abrir archivo de trabajo %s: %w", path, err)
	}
	defer f.Close()
	return p.Parse(f, path)
}

// Parse parsea el contenido de un archivo de trabajo. name se usa solo para los logs.
func (p *Parser) Parse(r io.Reader, name string) (*entity.InvoiceJob, error) {
	b := newBuilder()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		fields := strings.Split(line, ";")
		tag := fields[0]
		b.sawTag(tag)
		switch {
		case metaLinePattern.MatchString(tag):
			if err := p.parseMetaLine(b, fields); err != nil {
				return nil, err
			}
		case senderLinePattern.MatchString(tag):
			if err := p.parseSenderLine(b, fields); err != nil {
				return nil, err
			}
		case receiverLinePattern.MatchString(tag):
			if err := p.parseReceiverLine(b, fields); err != nil {
				return nil, err
			}
		case itemLinePattern.MatchString(tag):
			if err := p.parseItemLine(b, fields); err != nil {
				return nil, err
			}
		default:
			p.log.Warn().
				Str("tag", tag).
				Str("file", name).
				Msg("identificación de línea inesperada, se ignora")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("leer archivo de trabajo %s: %w", name, err)
	}
	return b.build()
}

// parseMetaLine procesa la línea de cabecera (Rechnung_<n>).
func (p *Parser) parseMetaLine(b *builder, fields []string) error {
	if len(fields) != metaFieldCount {
		return fmt.Errorf("línea de cabecera con %d campos: %w", len(fields), domain.ErrMalformedRecord)
	}
	number, err := strconv.Atoi(strings.TrimPrefix(fields[0], invoiceNumberPrefix))
	if err != nil {
		return fmt.Errorf("número de factura %q: %w", fields[0], domain.ErrMalformedRecord)
	}
	issuedAt, err := time.Parse(issueDateLayout, fields[3]+"-"+fields[4])
	if err != nil {
		return fmt.Errorf("fecha de emisión %q %q: %w", fields[3], fields[4], domain.ErrMalformedRecord)
	}
	b.invoiceNumber = number
	b.jobID = strings.TrimPrefix(fields[1], jobIDPrefix)
	b.location = fields[2]
	b.issuedAt = issuedAt
	b.daysToPay = strings.TrimPrefix(fields[5], daysToPayPrefix)
	return nil
}

// parseSenderLine procesa la línea del emisor (Herkunft).
func (p *Parser) parseSenderLine(b *builder, fields []string) error {
	if len(fields) != senderFieldCount {
		return fmt.Errorf("línea de emisor con %d campos: %w", len(fields), domain.ErrMalformedRecord)
	}
	b.sender = entity.NewSender(fields[1], fields[2], fields[3], fields[4], fields[5], fields[6], fields[7])
	return nil
}

// parseReceiverLine procesa la línea del receptor (Endkunde).
func (p *Parser) parseReceiverLine(b *builder, fields []string) error {
	if len(fields) != receiverFieldCount {
		return fmt.Errorf("línea de receptor con %d campos: %w", len(fields), domain.ErrMalformedRecord)
	}
	b.receiver = entity.NewReceiver(fields[1], fields[2], fields[3], fields[4])
	return nil
}

// parseItemLine procesa una línea de posición (RechnPos). La tasa de IVA no
// se toma literal: se extrae la subcadena decimal del campo (p. ej. "7.7" de
// "7.7%"); si no hay coincidencia el archivo completo se descarta.
func (p *Parser) parseItemLine(b *builder, fields []string) error {
	if len(fields) != itemFieldCount {
		return fmt.Errorf("línea de posición con %d campos: %w", len(fields), domain.ErrMalformedRecord)
	}
	index, err := strconv.Atoi(fields[1])
	if err != nil {
		return fmt.Errorf("índice de posición %q: %w", fields[1], domain.ErrMalformedRecord)
	}
	count, err := strconv.Atoi(fields[3])
	if err != nil {
		return fmt.Errorf("cantidad %q: %w", fields[3], domain.ErrMalformedRecord)
	}
	unitPrice, err := decimal.NewFromString(fields[4])
	if err != nil {
		return fmt.Errorf("precio unitario %q: %w", fields[4], domain.ErrMalformedRecord)
	}
	totalPrice, err := decimal.NewFromString(fields[5])
	if err != nil {
		return fmt.Errorf("precio total %q: %w", fields[5], domain.ErrMalformedRecord)
	}
	rateText := vatRatePattern.FindString(fields[6])
	if rateText == "" {
		return fmt.Errorf("tasa de IVA %q sin valor decimal: %w", fields[6], domain.ErrMalformedRecord)
	}
	rate, err := decimal.NewFromString(rateText)
	if err != nil {
		return fmt.Errorf("tasa de IVA %q: %w", rateText, domain.ErrMalformedRecord)
	}
	b.items = append(b.items, entity.Item{
		Index:       index,
		Description: fields[2],
		Count:       count,
		UnitPrice:   unitPrice,
		TotalPrice:  totalPrice,
		VATRate:     rate,
	})
	return nil
}

// builder acumula los campos línea a línea y entrega una única factura
// terminada, rechazada atómicamente si falta alguna sección.
type builder struct {
	invoiceNumber int
	jobID         string
	location      string
	issuedAt      time.Time
	daysToPay     string
	sender        entity.Sender
	receiver      entity.Receiver
	items         []entity.Item
	seenTags      []string
}

func newBuilder() *builder {
	return &builder{}
}

func (b *builder) sawTag(tag string) {
	b.seenTags = append(b.seenTags, tag)
}

// build verifica que las cuatro secciones obligatorias hayan aparecido y
// entrega la factura inmutable.
func (b *builder) build() (*entity.InvoiceJob, error) {
	for _, pattern := range sectionPatterns {
		present := false
		for _, tag := range b.seenTags {
			if pattern.MatchString(tag) {
				present = true
				break
			}
		}
		if !present {
			return nil, fmt.Errorf("sección %s: %w", pattern.String(), domain.ErrMissingSection)
		}
	}
	return &entity.InvoiceJob{
		InvoiceNumber: b.invoiceNumber,
		JobID:         b.jobID,
		Location:      b.location,
		IssuedAt:      b.issuedAt,
		DaysToPay:     b.daysToPay,
		Sender:        b.sender,
		Receiver:      b.receiver,
		Items:         b.items,
	}, nil
}
