package db

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugBase = 48

// Slugify lower-cases title, strips accents and joins words with hyphens.
// "Proposta Comercial: São Paulo" becomes "proposta-comercial-sao-paulo".
func Slugify(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, title)
	if err != nil {
		plain = title
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(plain) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if len(slug) > maxSlugBase {
		slug = strings.TrimSuffix(slug[:maxSlugBase], "-")
	}
	if slug == "" {
		slug = "proposta"
	}
	return slug
}

// NewSlug returns a unique public slug for title.
func NewSlug(title string) string {
	return Slugify(title) + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
