package version

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseBanners(t *testing.T) {
	cases := []struct {
		name string
		text string
		want Version
	}{
		{"standard", "PHP 8.2.12 (cli) (built: Oct 24 2023 12:00:00) (NTS)", New(8, 2, 12)},
		{"bare", "PHP 7.4.33", New(7, 4, 33)},
		{"dev suffix", "PHP 8.4.0-dev (cli) (built: Oct 23 2025 10:00:00) (NTS)", New(8, 4, 0)},
		{"leading noise", "warning: something\nPHP 8.1.2-1ubuntu2.14 (cli)", New(8, 1, 2)},
		{"first match wins", "PHP 8.3.1 (cli)\nPHP 5.6.40", New(8, 3, 1)},
		{"zend line ignored", "Zend Engine v4.2.12\nPHP 8.2.12", New(8, 2, 12)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.text)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestParseRecoversComponentsFromAnySurroundings(t *testing.T) {
	for _, v := range []Version{New(0, 0, 0), New(5, 6, 40), New(8, 10, 123), New(12, 0, 7)} {
		for _, wrap := range []string{"%s", "prefix %s suffix", "%s-RC1", "x\n%s\ny", "%s+build.5"} {
			text := fmt.Sprintf(wrap, "PHP "+v.String())
			got, err := Parse(text)
			if err != nil {
				t.Fatalf("parse %q: %v", text, err)
			}
			if got != v {
				t.Fatalf("parse %q: expected %s, got %s", text, v, got)
			}
		}
	}
}

func TestParseNoVersion(t *testing.T) {
	for _, text := range []string{"", "Not a PHP version", "PHP 8.2", "php 8.2.1", "Python 3.12.1"} {
		if _, err := Parse(text); !errors.Is(err, ErrNoVersionFound) {
			t.Fatalf("parse %q: expected ErrNoVersionFound, got %v", text, err)
		}
	}
}

func TestParseNamed(t *testing.T) {
	got, err := ParseNamed("interp", "interp 3.1.4 (test build)")
	if err != nil {
		t.Fatalf("parse named: %v", err)
	}
	if got != New(3, 1, 4) {
		t.Fatalf("expected 3.1.4, got %s", got)
	}
	if _, err := ParseNamed("interp", "PHP 8.2.12"); !errors.Is(err, ErrNoVersionFound) {
		t.Fatalf("expected mismatch for other banner, got %v", err)
	}
}

func TestFromString(t *testing.T) {
	got, err := FromString("8.2.12")
	if err != nil {
		t.Fatalf("from string: %v", err)
	}
	if got != New(8, 2, 12) {
		t.Fatalf("expected 8.2.12, got %s", got)
	}
	for _, bad := range []string{"", "8.2", "8.2.x", "a.b.c", "8.2.12.1"} {
		if _, err := FromString(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestMatches(t *testing.T) {
	v := New(8, 2, 12)
	cases := map[string]bool{
		"8":        true,
		"8.2":      true,
		"8.2.12":   true,
		"8.3":      false,
		"7":        false,
		"8.2.1":    false,
		"":         false,
		"8.":       false,
		"x":        false,
		"8.x":      false,
		"-8":       false,
		"8.2.12.0": false,
		" 8":       false,
	}
	for pattern, want := range cases {
		if got := v.Matches(pattern); got != want {
			t.Fatalf("Matches(%q) = %v, want %v", pattern, got, want)
		}
	}
}

func TestMatchesIsReflexive(t *testing.T) {
	for _, v := range []Version{New(0, 0, 0), New(7, 4, 33), New(8, 2, 12), New(10, 20, 30)} {
		if !v.Matches(v.String()) {
			t.Fatalf("%s does not match its own string", v)
		}
		if !v.Matches(v.Short()) {
			t.Fatalf("%s does not match its short form %s", v, v.Short())
		}
	}
}

func TestCompareTotalOrder(t *testing.T) {
	versions := []Version{
		New(7, 4, 33), New(8, 2, 11), New(8, 2, 12), New(8, 3, 0), New(8, 10, 0), New(9, 0, 0),
	}
	for i, a := range versions {
		for j, b := range versions {
			c := Compare(a, b)
			switch {
			case i < j && c >= 0:
				t.Fatalf("expected %s < %s", a, b)
			case i == j && c != 0:
				t.Fatalf("expected %s == %s", a, b)
			case i > j && c <= 0:
				t.Fatalf("expected %s > %s", a, b)
			}
			if (c < 0) != a.Less(b) {
				t.Fatalf("Less disagrees with Compare for %s, %s", a, b)
			}
			for _, c2 := range versions {
				if Compare(a, b) < 0 && Compare(b, c2) < 0 && Compare(a, c2) >= 0 {
					t.Fatalf("ordering not transitive for %s < %s < %s", a, b, c2)
				}
			}
		}
	}
}

func TestShortAndString(t *testing.T) {
	v := New(8, 2, 12)
	if v.String() != "8.2.12" {
		t.Fatalf("unexpected string %s", v.String())
	}
	if v.Short() != "8.2" {
		t.Fatalf("unexpected short %s", v.Short())
	}
}
