package storage

import (
	"fmt"
	"os"

	"github.com/tu-usuario/invoice-bridge/pkg/logger"
)

// Sufijos de estado terminal. Local los artefactos en cuarentena se renombran
// con .sav; en el buzón remoto con .broken.
const (
	QuarantineSuffix = ".sav"
	BrokenSuffix     = ".broken"
)

// RemoteFS es el subconjunto del buzón remoto que necesita el ciclo de vida.
type RemoteFS interface {
	Delete(name string) error
	Rename(name, newName string) error
}

// Lifecycle es la primitiva única borrar-o-cuarentena usada por todas las
// etapas posteriores del pipeline.
type Lifecycle struct {
	log *logger.Logger
}

// NewLifecycle crea el ciclo de vida de artefactos.
func NewLifecycle(log *logger.Logger) *Lifecycle {
	return &Lifecycle{log: log}
}

// Resolve elimina o pone en cuarentena un artefacto local. La ausencia del
// archivo se registra como aviso y cuenta como éxito: borrar algo que ya no
// está no es un fallo.
func (l *Lifecycle) Resolve(path string, quarantine bool) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		l.log.Info().Str("file", path).Msg("se intentó resolver un archivo que ya no existe")
		return nil
	}
	if quarantine {
		if err := os.Rename(path, path+QuarantineSuffix); err != nil {
			l.log.Warn().Err(err).Str("file", path).Msg("no se pudo poner en cuarentena el archivo")
			return fmt.Errorf("cuarentena de %s: %w", path, err)
		}
		l.log.Info().Str("file", path).Msg("archivo puesto en cuarentena")
		return nil
	}
	if err := os.Remove(path); err != nil {
		l.log.Warn().Err(err).Str("file", path).Msg("no se pudo eliminar el archivo")
		return fmt.Errorf("eliminar %s: %w", path, err)
	}
	l.log.Info().Str("file", path).Msg("archivo eliminado")
	return nil
}

// ResolveRemote elimina o renombra (a .broken) un artefacto del buzón remoto.
// Los fallos se registran como advertencia y no detienen el resto del purgado.
func (l *Lifecycle) ResolveRemote(remote RemoteFS, name string, quarantine bool) error {
	if remote == nil {
		l.log.Warn().Str("file", name).Msg("sin sesión remota para resolver el artefacto")
		return nil
	}
	if quarantine {
		if err := remote.Rename(name, name+BrokenSuffix); err != nil {
			l.log.Warn().Err(err).Str("file", name).Msg("no se pudo renombrar el archivo remoto")
			return err
		}
		l.log.Info().Str("file", name).Msg("archivo remoto renombrado a .broken")
		return nil
	}
	if err := remote.Delete(name); err != nil {
		l.log.Warn().Err(err).Str("file", name).Msg("no se pudo eliminar el archivo remoto")
		return err
	}
	l.log.Info().Str("file", name).Msg("archivo remoto eliminado")
	return nil
}
