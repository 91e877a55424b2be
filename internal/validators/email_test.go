package validators

import "testing"

func TestIsEmailFormatValid(t *testing.T) {
	valid := []string{
		"cliente@example.com",
		"maria.lopez+citas@example.com.mx",
	}
	for _, e := range valid {
		if !IsEmailFormatValid(e) {
			t.Fatalf("%q must be valid", e)
		}
	}

	invalid := []string{
		"",
		"no-es-un-correo",
		"@example.com",
		"cliente@",
		"Ana <cliente@example.com>",
		"cliente@example.com ",
	}
	for _, e := range invalid {
		if IsEmailFormatValid(e) {
			t.Fatalf("%q must be invalid", e)
		}
	}
}
