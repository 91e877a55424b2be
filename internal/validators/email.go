package validators

import (
	"net"
	"net/mail"
	"strings"
)

// IsEmailFormatValid valida solo la sintaxis, sin tocar la red.
func IsEmailFormatValid(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// IsEmailDomainValid verifica que el dominio del correo tenga registros
// MX o al menos resuelva a una IP. Se usa en el registro de negocios,
// no en cada cita.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
