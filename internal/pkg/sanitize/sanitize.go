/*
Package sanitize strips markup from user-supplied strings.

Every inbound string field (participant name, recipient, text, type) passes
through Strip before it reaches the registry or the message log, so the core
only ever sees plain text.
*/
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Strip removes all HTML elements and attributes from s, decodes the entities
// the policy escaped, and trims surrounding whitespace.
func Strip(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
