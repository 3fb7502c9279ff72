package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var countPrinter = message.NewPrinter(language.English)

// Count formats a dashboard figure with thousands separators, e.g. 1,234.
func Count(n int) string {
	return countPrinter.Sprintf("%d", n)
}
