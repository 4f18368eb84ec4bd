package parser

import "strings"

// splitList splits a tags or yields run on commas. A comma between two digits
// is part of a number ("1,5 l") and does not split. Items are trimmed and
// empty items dropped.
func splitList(s string) []string {
	var items []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] != ',' || isDigitAt(s, i-1) && isDigitAt(s, i+1) {
			continue
		}
		items = appendItem(items, s[start:i])
		start = i + 1
	}
	return appendItem(items, s[start:])
}

func appendItem(items []string, item string) []string {
	if item = strings.TrimSpace(item); item != "" {
		items = append(items, item)
	}
	return items
}

func isDigitAt(s string, i int) bool {
	return i >= 0 && i < len(s) && s[i] >= '0' && s[i] <= '9'
}

func trimNewlines(s string) string {
	return strings.Trim(s, "\r\n")
}
