package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	// ErrMalformedRecord una línea con tag conocido trae más o menos campos de los requeridos.
	ErrMalformedRecord = errors.New("registro con cantidad de campos incorrecta")
	// ErrMissingSection falta alguna de las cuatro líneas obligatorias del archivo de trabajo.
	ErrMissingSection = errors.New("falta una sección obligatoria en el archivo de trabajo")
	// ErrInvalidDuration el plazo de pago no es un número entero de días.
	ErrInvalidDuration = errors.New("el plazo de pago no es una duración válida")
	// ErrInvalidAggregate la factura parseada no pasa la validación de campos obligatorios.
	ErrInvalidAggregate = errors.New("la factura no tiene todos los valores obligatorios")
	// ErrConnectionFailed no se pudo establecer la sesión con el buzón remoto; aborta la etapa.
	ErrConnectionFailed = errors.New("no se pudo conectar al buzón remoto")
	// ErrArchiveNotCreatable no se pudo crear el archivo zip del paquete.
	ErrArchiveNotCreatable = errors.New("no se pudo crear el archivo zip")
	// ErrInvalidInvoiceFileName el token de nombre de factura no contiene un número válido.
	ErrInvalidInvoiceFileName = errors.New("nombre de archivo de factura inválido")
	// ErrMissingInvoiceFile no existe copia local del txt de la factura referenciada.
	ErrMissingInvoiceFile = errors.New("no se encontró el archivo de la factura")
)
