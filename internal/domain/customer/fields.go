package customer

import "regexp"

var (
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern      = regexp.MustCompile(`^\+?[0-9]{1,3}[\s.-]?[0-9]{6,14}$`)
	gstinPattern      = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[1-9A-Z]{1}Z[0-9A-Z]{1}$`)
	alphaSpacePattern = regexp.MustCompile(`^[A-Za-z\s]+$`)
)

// IsValidEmail reports whether s looks like local@domain.tld.
// Only the shape is checked; deliverability is not.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidPhoneNumber accepts an optional "+", a 1-3 digit country code,
// an optional space, dot or hyphen, then 6-14 digits.
func IsValidPhoneNumber(s string) bool {
	return phonePattern.MatchString(s)
}

// IsValidGSTIN checks the 15 character Indian GST identification number layout.
// The checksum character is not verified.
func IsValidGSTIN(s string) bool {
	return gstinPattern.MatchString(s)
}

// IsAlphaWithSpaces reports whether s is non-empty and holds only ASCII letters and whitespace
func IsAlphaWithSpaces(s string) bool {
	return alphaSpacePattern.MatchString(s)
}
