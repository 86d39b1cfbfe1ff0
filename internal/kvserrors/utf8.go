package kvserrors

import "unicode/utf8"

// ValidateUTF8 converts b to a string, failing with Kind UTF8 if b is
// not valid UTF-8. field names the offending piece (e.g. "key",
// "value") for the resulting error's details.
func ValidateUTF8(b []byte, field string) (string, error) {
	if !utf8.Valid(b) {
		return "", New(nil, UTF8, "field is not valid UTF-8").WithDetail("field", field)
	}
	return string(b), nil
}
