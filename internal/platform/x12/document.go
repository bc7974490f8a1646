// Package x12 provides low-level construction of ANSI X12 EDI documents.
// It knows about delimiters, envelope padding and trailer counts, but not
// about any particular transaction set; the claims domain maps its records
// onto segments using this package.
package x12

import (
	"strconv"
	"strings"
	"time"
)

// Standard 005010 delimiters. Elements are joined with "*", composite
// sub-elements with ":", and every segment is terminated with "~".
const (
	ElementSeparator    = "*"
	SubElementSeparator = ":"
	SegmentTerminator   = "~"
)

// Document accumulates segments in emission order. Segment order is
// significant in X12; callers append exactly in wire order.
type Document struct {
	segments []string
}

// Add appends one segment built from the given elements. Trailing empty
// elements are preserved because X12 positions are fixed.
func (d *Document) Add(elements ...string) {
	d.segments = append(d.segments, strings.Join(elements, ElementSeparator)+SegmentTerminator)
}

// Count returns the number of segments emitted so far.
func (d *Document) Count() int {
	return len(d.segments)
}

// String renders the document as newline-delimited segments.
func (d *Document) String() string {
	return strings.Join(d.segments, "\n")
}

// Composite joins sub-elements with the component separator, e.g. a
// procedure code with modifiers ("HC:99213:25").
func Composite(parts ...string) string {
	return strings.Join(parts, SubElementSeparator)
}

// PadRight pads s with spaces to exactly n characters, truncating when
// longer. ISA sender/receiver IDs are fixed 15-character fields.
func PadRight(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	return s + strings.Repeat(" ", n-len(s))
}

// FormatDate renders a date as CCYYMMDD.
func FormatDate(t time.Time) string {
	return t.Format("20060102")
}

// FormatDateShort renders a date as YYMMDD (ISA09).
func FormatDateShort(t time.Time) string {
	return t.Format("060102")
}

// FormatTime renders a time as HHMM.
func FormatTime(t time.Time) string {
	return t.Format("1504")
}

// FormatAmount renders a monetary amount without forced decimal padding:
// 120 -> "120", 120.5 -> "120.5". Payers parse the value, not the width.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// StripCode removes the period from an ICD-10 code ("E11.9" -> "E119"),
// as required inside HI segments.
func StripCode(code string) string {
	return strings.ReplaceAll(code, ".", "")
}
