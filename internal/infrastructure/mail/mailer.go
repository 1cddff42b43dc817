package mail

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	gomail "gopkg.in/gomail.v2"

	"github.com/tu-usuario/invoice-bridge/pkg/config"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	invoiceHTML = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/invoice.html.tmpl"))
	invoiceText = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/invoice.txt.tmpl"))
	reportHTML  = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/error-report.html.tmpl"))
	reportText  = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/error-report.txt.tmpl"))
)

// Mailer envía las notificaciones de paquetes por SMTP. Los dos cuerpos
// (HTML y texto plano) salen de plantillas estáticas embebidas.
type Mailer struct {
	dialer     *gomail.Dialer
	siteMail   string
	adminEmail string
}

// NewMailer crea el mailer a partir de la configuración SMTP.
func NewMailer(cfg config.MailConfig) *Mailer {
	return &Mailer{
		dialer:     gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		siteMail:   cfg.SiteMail,
		adminEmail: cfg.AdminEmail,
	}
}

// SendBundle envía el correo de notificación con el zip adjunto. receiptName
// es el nombre del quittungsfile sin extensión y aparece en el asunto y en
// el cuerpo.
func (m *Mailer) SendBundle(to, receiptName, archivePath string) error {
	data := struct{ ReceiptNo string }{ReceiptNo: receiptName}
	var html, text bytes.Buffer
	if err := invoiceHTML.Execute(&html, data); err != nil {
		return fmt.Errorf("renderizar cuerpo html: %w", err)
	}
	if err := invoiceText.Execute(&text, data); err != nil {
		return fmt.Errorf("renderizar cuerpo de texto: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.siteMail)
	msg.SetHeader("To", to)
	if m.adminEmail != "" {
		msg.SetHeader("Bcc", m.adminEmail)
	}
	msg.SetHeader("Subject", "Invoices and Receipt "+receiptName)
	msg.SetBody("text/plain", text.String())
	msg.AddAlternative("text/html", html.String())
	msg.Attach(archivePath)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("enviar correo a %s: %w", to, err)
	}
	return nil
}
