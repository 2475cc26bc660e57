package slug

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
)

// Fallback is used when a title normalizes to nothing.
const Fallback = "product"

// DefaultMaxProbes bounds the suffix search.
const DefaultMaxProbes = 100

var replacer = strings.NewReplacer(
	"&", " and ",
	"@", " at ",
	"%", " percent ",
	"+", " plus ",
	"ß", "ss", "ẞ", "SS",
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
	"ø", "o", "Ø", "O",
	"đ", "d", "Đ", "D",
	"ł", "l", "Ł", "L",
	"þ", "th", "Þ", "TH",
)

// Normalize turns title into a lowercase, hyphen-delimited ASCII token.
// Diacritics are stripped, Latin letters without a decomposition are
// transliterated, every run of other characters becomes one hyphen
// and hyphens are trimmed from both ends.
func Normalize(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, title)
	if err != nil {
		stripped = title
	}
	stripped = replacer.Replace(stripped)

	var b strings.Builder
	b.Grow(len(stripped))
	pendingHyphen := false
	for _, r := range strings.ToLower(stripped) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		// Apostrophes join words: "Men's" -> "mens".
		if r == '\'' || r == '’' {
			continue
		}
		pendingHyphen = true
	}

	return b.String()
}

// ExistsFunc reports whether slug is used by a product other than excludeID.
type ExistsFunc func(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)

// Generator derives unique slugs by probing for collisions.
//
// The probe and the later write are not atomic. The slug unique constraint in
// the store stays authoritative and callers must handle apperr.SlugTakenErr.
type Generator struct {
	exists    ExistsFunc
	maxProbes int
}

func NewGenerator(exists ExistsFunc) *Generator {
	return &Generator{
		exists:    exists,
		maxProbes: DefaultMaxProbes,
	}
}

// WithMaxProbes returns a copy of g with a different probe bound.
func (g *Generator) WithMaxProbes(n int) *Generator {
	cp := *g
	cp.maxProbes = n
	return &cp
}

// Generate returns base, base-1, base-2, ... whichever is free first.
// excludeID lets a product being edited keep its own slug.
func (g *Generator) Generate(ctx context.Context, title string, excludeID *uuid.UUID) (string, error) {
	base := Normalize(title)
	if base == "" {
		base = Fallback
	}

	candidate := base
	for i := 0; i < g.maxProbes; i++ {
		if i > 0 {
			candidate = base + "-" + strconv.Itoa(i)
		}

		taken, err := g.exists(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", apperr.SlugConflictErr.WithMsg(
		fmt.Sprintf("no free slug for %q after %d attempts", base, g.maxProbes))
}
