package mail_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/invoice-bridge/internal/infrastructure/mail"
	"github.com/tu-usuario/invoice-bridge/pkg/config"
)

// Sin destinatario o sin host SMTP no hay alertas: el constructor devuelve
// nil y el llamador no registra el hook.
func TestNewAlertHook_SinConfiguracion(t *testing.T) {
	assert.Nil(t, mail.NewAlertHook(config.MailConfig{}))
	assert.Nil(t, mail.NewAlertHook(config.MailConfig{AdminEmail: "admin@example.com"}))
	assert.Nil(t, mail.NewAlertHook(config.MailConfig{Host: "smtp.example.com"}))
}

func TestNewAlertHook_Configurado(t *testing.T) {
	hook := mail.NewAlertHook(config.MailConfig{
		Host:       "smtp.example.com",
		Port:       587,
		AdminEmail: "admin@example.com",
		SiteMail:   "noreply@example.com",
	})
	assert.NotNil(t, hook)
}
