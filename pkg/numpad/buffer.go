// Package numpad maintains the decimal-string entry buffer behind the
// amount keypad. It guards the string's shape only; parsing happens in
// pkg/money.
package numpad

import "strings"

// Separator is the decimal separator the keypad emits.
const Separator = ','

// maxFractionDigits limits input to whole cents.
const maxFractionDigits = 2

// Buffer accumulates a non-negative decimal amount one key at a time.
// The zero value is an empty buffer.
type Buffer struct {
	value string
}

// AppendDigit adds a digit unless two fraction digits are already present.
// Non-digit runes are ignored.
func (b *Buffer) AppendDigit(r rune) {
	if r < '0' || r > '9' {
		return
	}
	if i := strings.IndexRune(b.value, Separator); i >= 0 && len(b.value)-i-1 >= maxFractionDigits {
		return
	}
	b.value += string(r)
}

// AppendSeparator inserts the decimal separator; a no-op when one is
// already present. A leading separator is permitted (",") and renders as
// an amount below one.
func (b *Buffer) AppendSeparator() {
	if strings.ContainsRune(b.value, Separator) {
		return
	}
	b.value += string(Separator)
}

// Backspace drops the last character.
func (b *Buffer) Backspace() {
	if b.value == "" {
		return
	}
	b.value = b.value[:len(b.value)-1]
}

// Clear resets the buffer to empty.
func (b *Buffer) Clear() {
	b.value = ""
}

// Value returns the current buffer contents.
func (b *Buffer) Value() string {
	return b.value
}

// CanConfirm reports whether the buffer holds anything to confirm.
func (b *Buffer) CanConfirm() bool {
	return b.value != ""
}
