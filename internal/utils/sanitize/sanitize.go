package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict is a cached bluemonday policy that removes all HTML tags and attributes.
// Safe for concurrent use as bluemonday.Policy is read-only after build; never
// call mutating helpers (AddAttr, AllowElements, ...) on it after init.
var strict = func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true) // Prevents word concatenation
	return p
}()

// Clean strips HTML from user-supplied text and normalizes whitespace.
// Free-text tour and user fields (name, summary, description) pass through
// Clean before hitting the DB; repositories assume already-sanitized input.
//
// Examples:
//   - "<script>alert('xss')</script>Sea Explorer" -> "Sea Explorer"
//   - "  <p>Breathtaking   hike</p>  " -> "Breathtaking hike"
func Clean(s string) string {
	sanitized := strict.Sanitize(s)
	sanitized = strings.TrimSpace(sanitized)

	// Unescape HTML entities first to handle &#13; etc. as single chars
	sanitized = html.UnescapeString(sanitized)

	// Normalize non-breaking spaces before collapsing runs
	sanitized = strings.ReplaceAll(sanitized, "\u00a0", " ")

	// Collapse repeated spaces while preserving newlines
	lines := strings.Split(sanitized, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.Join(lines, "\n")
}
