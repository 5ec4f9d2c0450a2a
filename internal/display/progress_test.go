package display

import (
	"regexp"
	"strings"
	"testing"

	"github.com/muesli/termenv"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func barCells(t *testing.T, line string) (filled, empty int) {
	t.Helper()
	line = ansiRe.ReplaceAllString(line, "")
	start := strings.Index(line, "[")
	end := strings.Index(line, "]")
	if start < 0 || end < start {
		t.Fatalf("no bar in %q", line)
	}
	for _, r := range line[start+1 : end] {
		switch r {
		case '█':
			filled++
		case '-':
			empty++
		default:
			t.Fatalf("unexpected rune %q in bar %q", r, line)
		}
	}
	return filled, empty
}

func TestFraction(t *testing.T) {
	tests := []struct {
		completed, failed, total int
		want                     float64
	}{
		{0, 0, 0, 0},
		{0, 0, 4, 0},
		{1, 1, 4, 0.5},
		{3, 1, 4, 1},
		{5, 0, 4, 1},
	}
	for _, tt := range tests {
		if got := Fraction(tt.completed, tt.failed, tt.total); got != tt.want {
			t.Errorf("Fraction(%d,%d,%d) = %v, want %v", tt.completed, tt.failed, tt.total, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	bar := NewProgressBar(termenv.Ascii)

	tests := []struct {
		name                     string
		completed, failed, total int
		wantFilled               int
		wantSuffix               string
	}{
		{"empty", 0, 0, 4, 0, "0.0% (0/4, 0 succeeded, 0 failed)"},
		{"half", 1, 1, 4, 25, "50.0% (2/4, 1 succeeded, 1 failed)"},
		{"done", 3, 1, 4, 50, "100.0% (4/4, 3 succeeded, 1 failed)"},
		{"one third floors", 1, 0, 3, 16, "33.3% (1/3, 1 succeeded, 0 failed)"},
		{"two thirds floors", 1, 1, 3, 33, "66.7% (2/3, 1 succeeded, 1 failed)"},
		{"almost done", 98, 1, 100, 49, "99.0% (99/100, 98 succeeded, 1 failed)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := bar.Render(tt.completed, tt.failed, tt.total)
			if !strings.HasPrefix(line, "Progress: [") {
				t.Errorf("line = %q", line)
			}
			if !strings.HasSuffix(line, tt.wantSuffix) {
				t.Errorf("line = %q, want suffix %q", line, tt.wantSuffix)
			}
			filled, empty := barCells(t, line)
			if filled+empty != BarWidth {
				t.Errorf("bar width = %d, want %d", filled+empty, BarWidth)
			}
			if filled != tt.wantFilled {
				t.Errorf("filled = %d, want %d", filled, tt.wantFilled)
			}
		})
	}
}

func TestRender_Colored(t *testing.T) {
	line := NewProgressBar(termenv.ANSI256).Render(1, 0, 3)
	if !strings.Contains(line, "\x1b[") {
		t.Errorf("colored bar has no escape codes: %q", line)
	}
	if filled, _ := barCells(t, line); filled != 16 {
		t.Errorf("filled = %d, want 16", filled)
	}
}
