package location

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/PtitMax51/vent-pdf/internal/wind"
)

// Place is a resolved location. It is produced once per run and never
// mutated afterwards.
type Place struct {
	Name     string
	Coord    wind.Coordinates
	Timezone string
}

// Resolver maps a free-text identifier to a Place.
type Resolver interface {
	Resolve(ctx context.Context, identifier string) (Place, error)
}

// NotFoundError reports an identifier no strategy could resolve. Supported
// is only set by the static resolver, which knows its full key set.
type NotFoundError struct {
	Query     string
	Supported []string
}

func (e *NotFoundError) Error() string {
	if len(e.Supported) == 0 {
		return fmt.Sprintf("ville introuvable : %q", e.Query)
	}
	return fmt.Sprintf("ville non supportée : %q (disponibles : %s)", e.Query, strings.Join(e.Supported, ", "))
}

// normalizeKey strips diacritics, casefolds and trims the identifier so that
// "Épernay " and "epernay" address the same table entry.
func normalizeKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
