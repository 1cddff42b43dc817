package mail

import (
	"bytes"

	"github.com/rs/zerolog"
	gomail "gopkg.in/gomail.v2"

	"github.com/tu-usuario/invoice-bridge/pkg/config"
)

// AlertHook es un hook de zerolog que reenvía por correo al administrador
// todo evento de nivel warn o superior, al estilo del servicio de log del
// sistema origen. El envío es best-effort: un fallo del SMTP nunca afecta a
// la etapa que estaba logueando.
type AlertHook struct {
	dialer     *gomail.Dialer
	siteMail   string
	adminEmail string
}

// NewAlertHook crea el hook de alertas. Devuelve nil si no hay destinatario
// configurado, para que el llamador simplemente no lo registre.
func NewAlertHook(cfg config.MailConfig) *AlertHook {
	if cfg.AdminEmail == "" || cfg.Host == "" {
		return nil
	}
	return &AlertHook{
		dialer:     gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		siteMail:   cfg.SiteMail,
		adminEmail: cfg.AdminEmail,
	}
}

// Run implementa zerolog.Hook.
func (h *AlertHook) Run(_ *zerolog.Event, level zerolog.Level, message string) {
	if level < zerolog.WarnLevel || message == "" {
		return
	}
	data := struct{ Message string }{Message: message}
	var html, text bytes.Buffer
	if err := reportHTML.Execute(&html, data); err != nil {
		return
	}
	if err := reportText.Execute(&text, data); err != nil {
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", h.siteMail)
	msg.SetHeader("To", h.adminEmail)
	msg.SetHeader("Subject", "Invoice Service Error")
	msg.SetBody("text/plain", text.String())
	msg.AddAlternative("text/html", html.String())
	// Best-effort: si el SMTP no está disponible la alerta se pierde en
	// silencio, el evento ya quedó en el log.
	_ = h.dialer.DialAndSend(msg)
}
