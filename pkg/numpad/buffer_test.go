package numpad

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func press(b *Buffer, keys string) {
	for _, r := range keys {
		switch r {
		case ',':
			b.AppendSeparator()
		case '<':
			b.Backspace()
		case 'C':
			b.Clear()
		default:
			b.AppendDigit(r)
		}
	}
}

func TestBufferBuildsAmount(t *testing.T) {
	var b Buffer
	press(&b, "150,00")
	assert.Equal(t, "150,00", b.Value())
	assert.True(t, b.CanConfirm())
}

func TestBufferSecondSeparatorIgnored(t *testing.T) {
	var b Buffer
	press(&b, "1,,5")
	assert.Equal(t, "1,5", b.Value())
}

func TestBufferRejectsThirdFractionDigit(t *testing.T) {
	var b Buffer
	press(&b, "9,991")
	assert.Equal(t, "9,99", b.Value())
}

func TestBufferBackspaceAndClear(t *testing.T) {
	var b Buffer
	press(&b, "42,5<")
	assert.Equal(t, "42,", b.Value())

	press(&b, "<")
	assert.Equal(t, "42", b.Value())

	press(&b, "C")
	assert.Equal(t, "", b.Value())
	assert.False(t, b.CanConfirm())

	// backspace on an empty buffer stays empty
	press(&b, "<")
	assert.Equal(t, "", b.Value())
}

func TestBufferLeadingSeparatorQuirk(t *testing.T) {
	var b Buffer
	press(&b, ",50")
	assert.Equal(t, ",50", b.Value())
	assert.True(t, b.CanConfirm())
}

func TestBufferIgnoresNonDigits(t *testing.T) {
	var b Buffer
	press(&b, "1x2")
	assert.Equal(t, "12", b.Value())
}
