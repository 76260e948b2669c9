package money

import (
	"fmt"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Layouts used for date and time rendering. They are fixed rather than
// locale-negotiated so that exported files stay consistent.
const (
	DateLayout = "02.01.2006"
	TimeLayout = "15:04:05"
)

// Formatter renders amounts and instants for display. It is only used at
// presentation boundaries, never for arithmetic or storage.
type Formatter struct {
	printer *message.Printer
	unit    currency.Unit
}

// NewFormatter builds a display formatter for the given BCP 47 locale and
// ISO 4217 currency code, e.g. "de-DE" and "EUR".
func NewFormatter(locale, currencyCode string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parsing locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return nil, fmt.Errorf("parsing currency %q: %w", currencyCode, err)
	}
	return &Formatter{printer: message.NewPrinter(tag), unit: unit}, nil
}

// FormatAmount renders the amount as a localized currency string.
func (f *Formatter) FormatAmount(c Cents) string {
	return f.printer.Sprintf("%v", currency.Symbol(f.unit.Amount(c.Decimal().InexactFloat64())))
}

// FormatDate renders the day portion of an instant.
func (f *Formatter) FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatTime renders the time-of-day portion of an instant.
func (f *Formatter) FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}
