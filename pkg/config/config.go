package config

import (
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
// Cada buzón FTP se enumera de forma explícita: nada se lee dentro de los constructores.
type Config struct {
	App             AppConfig
	Staging         StagingConfig
	Jobs            Mailbox // salida del sistema del cliente: archivos de trabajo *.data
	Archive         Mailbox // entrada del sistema del cliente: archivos zip enviados
	InvoiceInbound  Mailbox // entrada del sistema de facturación: facturas xml/txt
	InvoiceReceipts Mailbox // salida del sistema de facturación: quittungsfiles
	Mail            MailConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// StagingConfig ubicación del área de staging local (subcarpetas jobs/, xml/, txt/, data/, zip/, receipts/, invoices/).
type StagingConfig struct {
	Root string
}

// Mailbox un endpoint FTP lógico: host + credenciales + directorio de trabajo.
type Mailbox struct {
	Host     string
	User     string
	Password string
	Dir      string
}

// MailConfig configuración SMTP para notificaciones y alertas.
type MailConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	SiteMail   string // remitente de todos los correos
	AdminEmail string // BCC de notificaciones y destino de alertas
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: FTP_HOST, FTP_INVOICE_HOST, SITE_MAIL, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// También intenta config.env
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	customerHost := getString(v, "FTP_HOST", "")
	customerUser := getString(v, "FTP_USER", "")
	customerPassword := getString(v, "FTP_PASSWORD", "")
	invoiceHost := getString(v, "FTP_INVOICE_HOST", "")
	invoiceUser := getString(v, "FTP_INVOICE_USER", "")
	invoicePassword := getString(v, "FTP_INVOICE_PASSWORD", "")

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "invoice-bridge"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		Staging: StagingConfig{
			Root: getString(v, "STAGING_DIR", "var/staging"),
		},
		Jobs: Mailbox{
			Host:     customerHost,
			User:     customerUser,
			Password: customerPassword,
			Dir:      getString(v, "FTP_SCHOOLER_OUT", ""),
		},
		Archive: Mailbox{
			Host:     customerHost,
			User:     customerUser,
			Password: customerPassword,
			Dir:      getString(v, "FTP_SCHOOLER_IN", ""),
		},
		InvoiceInbound: Mailbox{
			Host:     invoiceHost,
			User:     invoiceUser,
			Password: invoicePassword,
			Dir:      getString(v, "FTP_INVOICE_IN", ""),
		},
		InvoiceReceipts: Mailbox{
			Host:     invoiceHost,
			User:     invoiceUser,
			Password: invoicePassword,
			Dir:      getString(v, "FTP_INVOICE_OUT", ""),
		},
		Mail: MailConfig{
			Host:       getString(v, "SMTP_HOST", ""),
			Port:       getInt(v, "SMTP_PORT", 587),
			User:       getString(v, "SMTP_USER", ""),
			Password:   getString(v, "SMTP_PASSWORD", ""),
			SiteMail:   getString(v, "SITE_MAIL", ""),
			AdminEmail: getString(v, "ADMIN_EMAIL", ""),
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
