package daterange

import (
	"testing"
	"time"
)

var now = time.Date(2026, 5, 14, 15, 30, 0, 0, time.UTC)

func TestDate(t *testing.T) {
	p := NewParser(time.UTC)
	cases := map[string]string{
		"2026-05-01":          "2026-05-01",
		"2026/05/02":          "2026-05-02",
		"2026-05-03T22:10:00": "2026-05-03",
		"today":               "2026-05-14",
		"yesterday":           "2026-05-13",
	}
	for in, want := range cases {
		got, err := p.Date(in, now)
		if err != nil {
			t.Fatalf("Date(%q) error = %v", in, err)
		}
		if got.Format("2006-01-02") != want || got.Hour() != 0 {
			t.Fatalf("Date(%q) = %s, want %s at midnight", in, got, want)
		}
	}

	if _, err := p.Date("zzz", now); err == nil {
		t.Fatal("garbage accepted")
	}
}

func TestRange(t *testing.T) {
	p := NewParser(time.UTC)

	from, to, err := p.Range("", "", now)
	if err != nil {
		t.Fatalf("Range() error = %v", err)
	}
	if from.Format("2006-01-02") != "2026-05-08" || to.Format("2006-01-02") != "2026-05-14" {
		t.Fatalf("default range = %s..%s", from, to)
	}
	if to.Hour() != 23 || to.Minute() != 59 {
		t.Fatalf("range end = %s, want end of day", to)
	}

	from, to, err = p.Range("2026-05-01", "2026-05-03", now)
	if err != nil {
		t.Fatalf("Range() error = %v", err)
	}
	if from.Day() != 1 || to.Day() != 3 {
		t.Fatalf("range = %s..%s", from, to)
	}

	if _, _, err := p.Range("2026-05-10", "2026-05-01", now); err == nil {
		t.Fatal("inverted range accepted")
	}
}
