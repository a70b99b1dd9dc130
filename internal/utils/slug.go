package utils

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)
	domainPattern    = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?(\.[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?)+$`)
)

// Slugify derives a URL-safe slug from a name: lowercase, non-alphanumeric
// runs collapsed to single hyphens. Deterministic; collision handling is the
// caller's job.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// ValidateDomain reports whether s looks like a bare domain name
// (e.g. "example.com").
func ValidateDomain(s string) bool {
	return domainPattern.MatchString(strings.ToLower(s))
}
