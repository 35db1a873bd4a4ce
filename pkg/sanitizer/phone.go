package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhone returns phone in E.164 form. Numbers without a country code are
// read in defaultRegion. Anything that does not parse to a valid number is
// returned trimmed but otherwise untouched, so the phone validator reports it.
func NormalizePhone(phone, defaultRegion string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	parsed, err := phonenumbers.Parse(phone, defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return phone
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}

// IsValidPhone reports whether phone is a valid number, reading numbers without
// a country code in defaultRegion.
func IsValidPhone(phone, defaultRegion string) bool {
	parsed, err := phonenumbers.Parse(strings.TrimSpace(phone), defaultRegion)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(parsed)
}
