package history

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// TimestampLayout is the display layout for history timestamps
	TimestampLayout = "2006-01-02 15:04:05"
	CurrencySuffix  = "원"
)

var amountPrinter = message.NewPrinter(language.Korean)

// FormatAmount renders minor units with thousands grouping, e.g. 1234567 -> "1,234,567원"
func FormatAmount(amount int64) string {
	return amountPrinter.Sprintf("%d", amount) + CurrencySuffix
}

func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
