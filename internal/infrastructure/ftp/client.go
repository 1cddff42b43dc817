package ftp

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
)

// dialTimeout límite para el establecimiento de la conexión de control.
// Las transferencias heredan el timeout que imponga el propio transporte.
const dialTimeout = 30 * time.Second

// Client envuelve una sesión FTP con la superficie de buzón que usan las
// etapas del pipeline: list/get/put/delete/rename sobre un directorio de
// trabajo. La sesión se adquiere al inicio de la etapa y se libera con Close
// en todos los caminos de salida.
type Client struct {
	conn *ftp.ServerConn
}

// Dial abre la conexión de control con el host. Si el host no trae puerto se
// asume el 21.
func Dial(host string) (*Client, error) {
	addr := host
	if !strings.Contains(addr, ":") {
		addr += ":21"
	}
	conn, err := ftp.Dial(addr, ftp.DialWithTimeout(dialTimeout))
	if err != nil {
		return nil, fmt.Errorf("conectar a %s: %w", host, err)
	}
	return &Client{conn: conn}, nil
}

// Login autentica la sesión.
func (c *Client) Login(user, password string) error {
	if err := c.conn.Login(user, password); err != nil {
		return fmt.Errorf("login de %s: %w", user, err)
	}
	return nil
}

// ChangeDirectory cambia el directorio de trabajo remoto.
func (c *Client) ChangeDirectory(path string) error {
	if err := c.conn.ChangeDir(path); err != nil {
		return fmt.Errorf("cambiar a directorio %s: %w", path, err)
	}
	return nil
}

// List devuelve los nombres del directorio actual que coinciden con el patrón.
func (c *Client) List(pattern *regexp.Regexp) ([]string, error) {
	names, err := c.conn.NameList(".")
	if err != nil {
		return nil, fmt.Errorf("listar directorio remoto: %w", err)
	}
	var matched []string
	for _, name := range names {
		if pattern.MatchString(name) {
			matched = append(matched, name)
		}
	}
	return matched, nil
}

// Get descarga un archivo remoto a la ruta local indicada. El archivo local
// solo queda escrito si la transferencia completa tuvo éxito.
func (c *Client) Get(remoteName, localPath string) error {
	resp, err := c.conn.Retr(remoteName)
	if err != nil {
		return fmt.Errorf("descargar %s: %w", remoteName, err)
	}
	defer resp.Close()

	f, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("crear archivo local %s: %w", localPath, err)
	}
	if _, err := io.Copy(f, resp); err != nil {
		f.Close()
		os.Remove(localPath)
		return fmt.Errorf("escribir archivo local %s: %w", localPath, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(localPath)
		return fmt.Errorf("cerrar archivo local %s: %w", localPath, err)
	}
	return nil
}

// Put sube un archivo local con el nombre remoto indicado.
func (c *Client) Put(localPath, remoteName string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("abrir archivo local %s: %w", localPath, err)
	}
	defer f.Close()
	if err := c.conn.Stor(remoteName, f); err != nil {
		return fmt.Errorf("subir %s: %w", remoteName, err)
	}
	return nil
}

// Delete elimina un archivo remoto.
func (c *Client) Delete(name string) error {
	if err := c.conn.Delete(name); err != nil {
		return fmt.Errorf("eliminar archivo remoto %s: %w", name, err)
	}
	return nil
}

// Rename renombra un archivo remoto.
func (c *Client) Rename(name, newName string) error {
	if err := c.conn.Rename(name, newName); err != nil {
		return fmt.Errorf("renombrar archivo remoto %s: %w", name, err)
	}
	return nil
}

// Close termina la sesión.
func (c *Client) Close() error {
	return c.conn.Quit()
}
