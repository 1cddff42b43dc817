package entity

import "regexp"

var (
	zipPattern      = regexp.MustCompile(`\d+`)
	locationPattern = regexp.MustCompile(`\pL\D*`)
)

// splitZipLocation separa el campo combinado "código postal + localidad":
// la primera corrida de dígitos es el código postal y la primera corrida de
// no-dígitos que empieza con letra es la localidad.
func splitZipLocation(zipLocation string) (zip, location string) {
	zip = zipPattern.FindString(zipLocation)
	location = locationPattern.FindString(zipLocation)
	return zip, location
}

// Sender es el emisor de la factura (línea Herkunft del archivo de trabajo).
type Sender struct {
	CustomerNumber string `json:"customer_number"`
	Salutation     string `json:"salutation"`
	Name           string `json:"name"`
	Address        string `json:"address"`
	ZipLocation    string `json:"zip_location"`
	Zip            string `json:"zip"`
	Location       string `json:"location"`
	VATNumber      string `json:"vat_number"`
	Email          string `json:"email"`
}

// NewSender crea un emisor derivando código postal y localidad del campo combinado.
func NewSender(customerNumber, salutation, name, address, zipLocation, vatNumber, email string) Sender {
	zip, location := splitZipLocation(zipLocation)
	return Sender{
		CustomerNumber: customerNumber,
		Salutation:     salutation,
		Name:           name,
		Address:        address,
		ZipLocation:    zipLocation,
		Zip:            zip,
		Location:       location,
		VATNumber:      vatNumber,
		Email:          email,
	}
}

// IsValid verifica que todos los campos obligatorios del emisor estén presentes.
func (s Sender) IsValid() bool {
	if s.CustomerNumber == "" {
		return false
	}
	if s.Salutation == "" {
		return false
	}
	if s.Name == "" {
		return false
	}
	if s.Address == "" {
		return false
	}
	if s.ZipLocation == "" {
		return false
	}
	if s.VATNumber == "" {
		return false
	}
	if s.Email == "" {
		return false
	}
	return true
}

// Receiver es el receptor de la factura (línea Endkunde del archivo de trabajo).
// No tiene email: las notificaciones van siempre al emisor.
type Receiver struct {
	CustomerID  string `json:"customer_id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	ZipLocation string `json:"zip_location"`
	Zip         string `json:"zip"`
	Location    string `json:"location"`
}

// NewReceiver crea un receptor derivando código postal y localidad del campo combinado.
func NewReceiver(customerID, name, address, zipLocation string) Receiver {
	zip, location := splitZipLocation(zipLocation)
	return Receiver{
		CustomerID:  customerID,
		Name:        name,
		Address:     address,
		ZipLocation: zipLocation,
		Zip:         zip,
		Location:    location,
	}
}

// IsValid verifica que todos los campos obligatorios del receptor estén presentes.
func (r Receiver) IsValid() bool {
	if r.CustomerID == "" {
		return false
	}
	if r.Name == "" {
		return false
	}
	if r.Address == "" {
		return false
	}
	if r.ZipLocation == "" {
		return false
	}
	return true
}
