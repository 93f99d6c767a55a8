package model

import (
	"net/mail"
	"regexp"
)

// DateTimeFormat is the fixed textual format dates round-trip through. The
// remote case API consumes dates in exactly this shape.
const DateTimeFormat = "2006-01-02 15:04:05"

var (
	registrationNumberRe = regexp.MustCompile(
		`(?i)^(([0-9]{8})|([A-Z]{2}[0-9]{6})|(R[0-9]{7}))$`)

	sicCodesRe = regexp.MustCompile(`^\d{5}(,\s?\d{5})*$`)

	// UK postcode, including BFPO and Channel Islands variants.
	postcodeRe = regexp.MustCompile(
		`(?i)^\s*((([A-Z]{1,2}[0-9][A-Z0-9]?` +
			`|ASCN|STHL|TDCU|BBND|[BFS]IQQ|PCRN|TKCA) ?[0-9][A-Z]{2}|BFPO ?` +
			`[0-9]{1,4}|(KY[0-9]|MSR|VG|AI)[ -]?[0-9]{4}|[A-Z]{2} ?[0-9]{2}|GE ?` +
			`CX|GIR ?0A{2}|SAN ?TA1))\s*$`)

	// UK landline/mobile numbers with +44, 0044, 011 44 or 0 prefixes.
	telephoneRe = regexp.MustCompile(
		`^(?:(?:\(?(?:0(?:0|11)\)?[\s-]?\(?|\+)44\)?[\s-]?` +
			`(?:\(?0\)?[\s-]?)?)|(?:\(?0))(?:(?:\d{5}\)?[\s-]?\d{4,5})` +
			`|(?:\d{4}\)?[\s-]?(?:\d{5}|\d{3}[\s-]?\d{3}))|(?:\d{3}\)?` +
			`[\s-]?\d{3}[\s-]?\d{3,4})|(?:\d{2}\)?[\s-]?\d{4}[\s-]?\d{4}))$`)
)

// ValidPostcode reports whether s matches the UK postcode pattern.
func ValidPostcode(s string) bool { return postcodeRe.MatchString(s) }

// ValidRegistrationNumber reports whether s is a Companies House style
// registration number: 8 digits, 2 letters + 6 digits, or R + 7 digits.
func ValidRegistrationNumber(s string) bool { return registrationNumberRe.MatchString(s) }

// ValidSICCodes reports whether s is a comma separated list of 5-digit SIC codes.
func ValidSICCodes(s string) bool { return sicCodesRe.MatchString(s) }

// ValidTelephone reports whether s matches the UK telephone pattern.
func ValidTelephone(s string) bool { return telephoneRe.MatchString(s) }

// ValidEmail reports whether s parses as an RFC 5322 address.
func ValidEmail(s string) bool {
	_, err := mail.ParseAddress(s)
	return err == nil
}
