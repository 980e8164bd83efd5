// Package source provides UTF-16-counted spans over Enso source text.
//
// Every token and tree node carries a Span measured in UTF-16 code units,
// per the concatenation and span invariants (I1/I2): offsets are not byte
// offsets and not rune counts, they are the same unit JavaScript/LSP tools
// use, so a conversion layer at this boundary is mandatory.
package source

import "unicode/utf16"

// Code wraps the original source text together with a precomputed table
// mapping UTF-16 code unit offsets to byte offsets, so Slice is O(1) after
// the one-time O(n) scan in New.
type Code struct {
	text  string
	units []uint16 // full UTF-16 encoding of text
	// byteAt[i] is the byte offset in text corresponding to units[i].
	byteAt []int
}

// New builds a Code from raw UTF-8 source text.
func New(text string) *Code {
	c := &Code{text: text}
	runes := []rune(text)
	c.units = make([]uint16, 0, len(runes))
	c.byteAt = make([]int, 0, len(runes))

	byteOffset := 0
	for _, r := range runes {
		enc := utf16.Encode([]rune{r})
		for range enc {
			c.byteAt = append(c.byteAt, byteOffset)
		}
		c.units = append(c.units, enc...)
		byteOffset += runeLen(r)
	}
	// Sentinel for end-of-input offset lookups.
	c.byteAt = append(c.byteAt, byteOffset)
	return c
}

func runeLen(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}

// Text returns the full original source string.
func (c *Code) Text() string { return c.text }

// Len returns the length of the source in UTF-16 code units.
func (c *Code) Len() int { return len(c.units) }

// Slice returns the UTF-8 text covered by [start, end) UTF-16 code units.
func (c *Code) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(c.units) {
		end = len(c.units)
	}
	if start >= end {
		return ""
	}
	return c.text[c.byteAt[start]:c.byteAt[end]]
}

// Span describes a half-open range [Start, End) in UTF-16 code units.
type Span struct {
	Start int
	End   int
}

// Len reports the width of the span in UTF-16 code units.
func (s Span) Len() int { return s.End - s.Start }

// Empty reports whether the span covers no code units.
func (s Span) Empty() bool { return s.Start >= s.End }

// Contains reports whether inner lies within s, inclusive of shared edges.
func (s Span) Contains(inner Span) bool {
	return inner.Start >= s.Start && inner.End <= s.End
}

// Join returns the smallest span covering both s and other. A zero-value
// operand (Start == End == 0 on an otherwise unused Span) is ignored so
// callers can fold over optional children without special-casing nils.
func Join(spans ...Span) Span {
	first := true
	var out Span
	for _, s := range spans {
		if s.Empty() && s.Start == 0 {
			continue
		}
		if first {
			out = s
			first = false
			continue
		}
		if s.Start < out.Start {
			out.Start = s.Start
		}
		if s.End > out.End {
			out.End = s.End
		}
	}
	return out
}

// SliceOf is a convenience wrapper combining Code.Slice with a Span.
func (c *Code) SliceOf(s Span) string { return c.Slice(s.Start, s.End) }

// Concat reports whether the source slices of a, then b, are adjacent and
// in order — the building block for checking the concatenation invariant.
func Concat(a, b Span) bool { return a.End == b.Start }

// Equal reports whether two spans of the same Code cover identical text.
func (c *Code) Equal(a, b Span) bool { return c.SliceOf(a) == c.SliceOf(b) }
