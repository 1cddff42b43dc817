// Package session abre sesiones acotadas con los buzones remotos del
// pipeline. Cada etapa abre la suya, la usa y la cierra al salir.
package session

import (
	"fmt"

	"github.com/tu-usuario/invoice-bridge/internal/application/ports"
	"github.com/tu-usuario/invoice-bridge/internal/domain"
	"github.com/tu-usuario/invoice-bridge/pkg/config"
	"github.com/tu-usuario/invoice-bridge/pkg/logger"
)

// Open abre la sesión con un buzón: conexión, login y cambio al directorio
// de la etapa. Un fallo en cualquiera de los pasos se registra con la máxima
// severidad y aborta la etapa.
func Open(dial ports.MailboxDialer, box config.Mailbox, log *logger.Logger) (ports.Mailbox, error) {
	mb, err := dial(box.Host)
	if err != nil {
		log.Error().Err(err).Str("host", box.Host).Msg("no se pudo conectar al buzón remoto")
		return nil, fmt.Errorf("conectar a %s: %w", box.Host, domain.ErrConnectionFailed)
	}
	if err := mb.Login(box.User, box.Password); err != nil {
		mb.Close()
		log.Error().Err(err).Str("host", box.Host).Msg("no se pudo iniciar sesión en el buzón remoto")
		return nil, fmt.Errorf("login en %s: %w", box.Host, domain.ErrConnectionFailed)
	}
	if box.Dir != "" {
		if err := mb.ChangeDirectory(box.Dir); err != nil {
			mb.Close()
			log.Error().Err(err).Str("dir", box.Dir).Msg("no se pudo cambiar al directorio del buzón")
			return nil, fmt.Errorf("directorio %s: %w", box.Dir, domain.ErrConnectionFailed)
		}
	}
	return mb, nil
}
