package project

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// idPattern matches a project identifier: timestamp plus a short random
// hex suffix, e.g. p_20240131_093012_a4f2.
var idPattern = regexp.MustCompile(`^p_\d{8}_\d{6}_[0-9a-fA-F]{4}$`)

// NewID mints a globally unique project identifier.
func NewID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
	return fmt.Sprintf("p_%s_%s", now.Format("20060102_150405"), suffix)
}

// ValidID reports whether s is a well-formed project identifier.
func ValidID(s string) bool {
	return idPattern.MatchString(s)
}

// IDFromFolderName extracts the identifier from a directory name of the
// form {id} or {id}__{slug}. It returns "" when the name does not carry
// a well-formed identifier.
func IDFromFolderName(name string) string {
	id, _, _ := strings.Cut(name, "__")
	if ValidID(id) {
		return id
	}
	return ""
}

const maxSlugLen = 40

// TitleSlug converts a title into the folder-name slug frozen at project
// creation. Unicode letters and digits survive, whitespace becomes an
// underscore, everything else is dropped.
func TitleSlug(title string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.TrimSpace(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		case unicode.IsSpace(r) || r == '_':
			if !lastUnderscore && b.Len() > 0 {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}

	slug := strings.Trim(b.String(), "_")
	if runes := []rune(slug); len(runes) > maxSlugLen {
		slug = strings.Trim(string(runes[:maxSlugLen]), "_")
	}
	if slug == "" {
		return "untitled"
	}
	return slug
}
