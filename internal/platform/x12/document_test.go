package x12

import (
	"testing"
	"time"
)

func TestAddPreservesEmptyElements(t *testing.T) {
	var d Document
	d.Add("NM1", "41", "2", "ACME BILLING", "", "", "", "", "46", "123456789")
	got := d.String()
	want := "NM1*41*2*ACME BILLING*****46*123456789~"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCount(t *testing.T) {
	var d Document
	d.Add("ST", "837", "0001")
	d.Add("SE", "2", "0001")
	if d.Count() != 2 {
		t.Errorf("expected 2 segments, got %d", d.Count())
	}
}

func TestComposite(t *testing.T) {
	got := Composite("HC", "99213", "25")
	if got != "HC:99213:25" {
		t.Errorf("unexpected composite: %s", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("SENDER", 15); got != "SENDER         " {
		t.Errorf("unexpected padding: %q", got)
	}
	if got := PadRight("AVERYLONGSENDERIDENTIFIER", 15); got != "AVERYLONGSENDER" {
		t.Errorf("expected truncation to 15, got %q", got)
	}
}

func TestFormatAmount(t *testing.T) {
	cases := map[float64]string{
		120:    "120",
		120.5:  "120.5",
		0.99:   "0.99",
		1250.0: "1250",
	}
	for in, want := range cases {
		if got := FormatAmount(in); got != want {
			t.Errorf("FormatAmount(%v): expected %s, got %s", in, want, got)
		}
	}
}

func TestStripCode(t *testing.T) {
	if got := StripCode("E11.9"); got != "E119" {
		t.Errorf("expected E119, got %s", got)
	}
	if got := StripCode("I10"); got != "I10" {
		t.Errorf("expected I10 unchanged, got %s", got)
	}
}

func TestDateFormats(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC)
	if got := FormatDate(ts); got != "20240305" {
		t.Errorf("unexpected date: %s", got)
	}
	if got := FormatDateShort(ts); got != "240305" {
		t.Errorf("unexpected short date: %s", got)
	}
	if got := FormatTime(ts); got != "1407" {
		t.Errorf("unexpected time: %s", got)
	}
}
