package ports

import "regexp"

// Mailbox es la capacidad abstracta de un buzón remoto de transferencia de
// archivos. Una sesión se obtiene con un MailboxDialer, se usa para una
// secuencia acotada de llamadas dentro de una etapa y se cierra al salir.
type Mailbox interface {
	Login(user, password string) error
	ChangeDirectory(path string) error
	List(pattern *regexp.Regexp) ([]string, error)
	Get(remoteName, localPath string) error
	Put(localPath, remoteName string) error
	Delete(name string) error
	Rename(name, newName string) error
	Close() error
}

// MailboxDialer abre la conexión de control con un host.
type MailboxDialer func(host string) (Mailbox, error)

// Mailer envía la notificación de un paquete receipt+facturas a un destinatario.
type Mailer interface {
	SendBundle(to, receiptName, archivePath string) error
}
