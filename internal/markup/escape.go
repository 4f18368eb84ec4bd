package markup

import (
	"github.com/yuin/goldmark/util"
)

// EscapeHref percent-encodes a link destination and escapes the result for
// safe inclusion in an HTML attribute, the same way goldmark renders hrefs.
func EscapeHref(dest string) string {
	if dest == "" {
		return ""
	}
	return string(util.EscapeHTML(util.URLEscape([]byte(dest), true)))
}
