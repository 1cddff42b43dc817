package entity

import (
	"fmt"
	"time"
)

// InvoiceJob representa una factura completa generada a partir de un único archivo de trabajo.
// Se construye una sola vez (vía invoice.Builder) y es de solo lectura después.
type InvoiceJob struct {
	InvoiceNumber int       `json:"invoice_number"`
	JobID         string    `json:"job_id"`
	Location      string    `json:"location"`
	IssuedAt      time.Time `json:"issued_at"`
	// DaysToPay se conserva como el valor crudo del archivo (sin el prefijo);
	// la conversión a entero ocurre recién al renderizar, donde un valor no
	// numérico produce ErrInvalidDuration.
	DaysToPay string   `json:"days_to_pay"`
	Sender    Sender   `json:"sender"`
	Receiver  Receiver `json:"receiver"`
	Items     []Item   `json:"items"`
}

// Validate verifica que todos los datos obligatorios estén presentes:
// escalares no vacíos, ambas partes válidas y al menos una posición.
func (i *InvoiceJob) Validate() bool {
	if i.InvoiceNumber == 0 {
		return false
	}
	if i.JobID == "" {
		return false
	}
	if i.Location == "" {
		return false
	}
	if i.IssuedAt.IsZero() {
		return false
	}
	if i.DaysToPay == "" {
		return false
	}
	if !i.Sender.IsValid() {
		return false
	}
	if !i.Receiver.IsValid() {
		return false
	}
	if len(i.Items) == 0 {
		return false
	}
	return true
}

// DocumentBaseName devuelve el nombre base de los dos documentos renderizados:
// <númeroClienteEmisor>_<númeroFactura>_invoice
func (i *InvoiceJob) DocumentBaseName() string {
	return fmt.Sprintf("%s_%d_invoice", i.Sender.CustomerNumber, i.InvoiceNumber)
}
