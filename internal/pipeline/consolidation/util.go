package consolidation

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// formatCount renders n with comma thousands separators: 1234567 => "1,234,567".
func formatCount(n int64) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// FormatCount is formatCount for renderers outside the package.
func FormatCount(n int64) string {
	return formatCount(n)
}
