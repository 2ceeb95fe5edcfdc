package format

import (
	"fmt"
	"strings"
)

// WhereToOpenWhatsApp selects the messaging deep link for a button.
const WhereToOpenWhatsApp = "whatsapp"

const brazilCountryCode = "55"

// Digits strips everything but ASCII digits.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WhatsAppURL builds a wa.me deep link from a phone number in any formatting.
// Numbers of 11 digits or fewer are local and get the Brazilian country code.
// It returns "" when the phone has no digits.
func WhatsAppURL(phone string) string {
	digits := Digits(phone)
	if digits == "" {
		return ""
	}
	if len(digits) <= 11 {
		digits = brazilCountryCode + digits
	}
	return "https://wa.me/" + digits
}

// ButtonURL resolves a call-to-action target: the WhatsApp deep link when the
// button opens WhatsApp and a phone is present, the literal href otherwise.
func ButtonURL(whereToOpen, href, phone string) string {
	if strings.EqualFold(strings.TrimSpace(whereToOpen), WhereToOpenWhatsApp) {
		if u := WhatsAppURL(phone); u != "" {
			return u
		}
	}
	return href
}

// Ordinal renders a 1-based position as a zero-padded two digit label, e.g. "01.".
func Ordinal(position int) string {
	return fmt.Sprintf("%02d.", position)
}
