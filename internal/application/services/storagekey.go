package services

import (
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxBaseNameLen = 100

// SanitizeFileName reduces an uploaded name to a safe ASCII file name:
// path components stripped, diacritics folded, anything outside
// [a-z0-9._-] collapsed to '-'.
func SanitizeFileName(original string) string {
	if original == "" {
		return "file"
	}

	s := strings.TrimSpace(original)
	s = strings.ReplaceAll(s, "\\", "/")
	s = path.Base(s)

	if s == "." || s == ".." || s == "" {
		return "file"
	}

	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	s, _, _ = transform.String(t, s)

	ext := path.Ext(s)
	base := strings.TrimSuffix(s, ext)
	ext = strings.ToLower(ext)

	var b strings.Builder
	b.Grow(len(base))
	prevDash := false
	for _, r := range base {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z':
			b.WriteRune(r)
			prevDash = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
			prevDash = false
		case r == '-' || r == '_' || r == '.' || unicode.IsSpace(r):
			if !prevDash {
				b.WriteRune('-')
				prevDash = true
			}
		default:
		}
	}
	base = strings.Trim(b.String(), "-")

	if base == "" {
		base = "file"
	}
	if len(base) > maxBaseNameLen {
		base = base[:maxBaseNameLen]
	}

	return base + ext
}

// objectKey builds "<category-folder><kind>/<unix-ms>_<name>", e.g.
// "laser/files/1714828996210_snowflake.svg".
func objectKey(folder, kind, fileName string, now time.Time) string {
	return fmt.Sprintf("%s%s/%d_%s", folder, kind, now.UnixMilli(), SanitizeFileName(fileName))
}

func isMn(r rune) bool { return unicode.Is(unicode.Mn, r) }
