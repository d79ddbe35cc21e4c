package storage

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// NewKey derives a collision-resistant storage key for an upload: a random
// identifier joined with a sanitized form of the original filename. The
// random part guarantees concurrent uploads of identically named files never
// collide; the sanitized part keeps keys readable for operators.
func NewKey(category Category, originalFilename string) (string, error) {
	if !category.Valid() {
		return "", ErrCategoryRejected
	}
	if !category.AllowsExtension(originalFilename) {
		return "", ErrExtensionRejected
	}
	return uuid.NewString() + "_" + SanitizeFilename(originalFilename), nil
}

// SanitizeFilename strips everything that could escape the target directory
// or bucket-key namespace: path separators, parent references and any rune
// outside a conservative allow-list. The display name is never trusted for
// addressing.
func SanitizeFilename(name string) string {
	name = norm.NFKC.String(name)

	// Drop any client-supplied directory part, both separators.
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	cleaned := strings.Trim(b.String(), ".")
	if cleaned == "" {
		return "file"
	}
	return cleaned
}
