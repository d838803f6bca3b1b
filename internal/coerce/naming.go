package coerce

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// AttributeName derives the kebab-case attribute name for a camelCase prop
// name. The mapping is pure and bijective with PropName: every uppercase rune
// starts a new dash-separated lowercase segment.
//
//	AttributeName("syncInterval") == "sync-interval"
//	AttributeName("name") == "name"
func AttributeName(propName string) string {
	var b strings.Builder
	b.Grow(len(propName) + 4)
	for _, r := range propName {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// PropName reverses AttributeName, reproducing the camelCase prop name from
// its kebab-case attribute form exactly.
//
//	PropName("sync-interval") == "syncInterval"
func PropName(attributeName string) string {
	segments := strings.Split(attributeName, "-")
	if len(segments) == 1 {
		return attributeName
	}
	var b strings.Builder
	b.Grow(len(attributeName))
	b.WriteString(segments[0])
	for _, seg := range segments[1:] {
		b.WriteString(titleCaser.String(seg))
	}
	return b.String()
}

// ValidPropName reports whether name is a camelCase identifier that survives
// the attribute round-trip: non-empty, starts lowercase, no digits adjacent
// to case boundaries that would break bijectivity, and no literal dashes.
func ValidPropName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 && !unicode.IsLower(r) {
			return false
		}
		if r == '-' || r == '_' || unicode.IsSpace(r) {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return PropName(AttributeName(name)) == name
}
