package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var postSlugRegex = regexp.MustCompile(`^[a-z0-9-]{3,80}$`)

var reservedPostSlugs = map[string]struct{}{
	"admin":    {},
	"api":      {},
	"auth":     {},
	"blog":     {},
	"recipes":  {},
	"products": {},
	"prices":   {},
	"shop":     {},
	"feed":     {},
	"ws":       {},
	"swagger":  {},
	"metrics":  {},
	"login":    {},
	"signup":   {},
}

// ValidatePostSlug validates blog slug format and reserved names.
func ValidatePostSlug(slug string) error {
	if !postSlugRegex.MatchString(slug) {
		return fmt.Errorf("slug must be 3-80 characters and contain only lowercase letters, numbers, and hyphens")
	}

	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
		return fmt.Errorf("slug cannot start or end with a hyphen")
	}

	if _, exists := reservedPostSlugs[slug]; exists {
		return fmt.Errorf("slug is reserved")
	}

	return nil
}

var slugSanitizeRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a title: lowercase, non-alphanumerics
// collapsed to single hyphens, trimmed to the slug length limit.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugSanitizeRegex.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 80 {
		s = strings.Trim(s[:80], "-")
	}
	return s
}
