package models

import "strings"

// maskRune is what masked characters are rendered as.
const maskRune = "*"

// MaskSecret hides a value completely. The output has a fixed width of 8 so
// the real length is not leaked either.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	return strings.Repeat(maskRune, 8)
}

// MaskCardNumber keeps the last four digits and hides the rest, grouped the
// way card numbers usually are: "**** **** **** 1234". Inputs shorter than
// four characters are masked completely.
func MaskCardNumber(s string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if len(digits) < 4 {
		return MaskSecret(s)
	}
	return "**** **** **** " + digits[len(digits)-4:]
}

// MaskTail keeps the last keep characters visible and masks the rest.
func MaskTail(s string, keep int) string {
	if len(s) <= keep {
		return MaskSecret(s)
	}
	return strings.Repeat(maskRune, len(s)-keep) + s[len(s)-keep:]
}
