package display

import (
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/muesli/termenv"
)

// BarWidth is the number of cells in the progress bar.
const BarWidth = 50

// ProgressBar renders the one-line batch progress shown after every
// completed file.
type ProgressBar struct {
	bar progress.Model
}

// NewProgressBar returns a bar of [BarWidth] cells rendered for profile;
// termenv.Ascii yields plain text.
func NewProgressBar(profile termenv.Profile) *ProgressBar {
	bar := progress.New(
		progress.WithWidth(BarWidth),
		progress.WithoutPercentage(),
		progress.WithFillCharacters('█', '-'),
		progress.WithSolidFill("#5fd787"),
		progress.WithColorProfile(profile),
	)
	return &ProgressBar{bar: bar}
}

// Fraction returns (completed+failed)/total, or 0 when total is 0.
func Fraction(completed, failed, total int) float64 {
	if total <= 0 {
		return 0
	}
	f := float64(completed+failed) / float64(total)
	if f > 1 {
		f = 1
	}
	return f
}

// Render returns the progress line for the given counters, e.g.
//
//	Progress: [█████-----…] 50.0% (1/2, 1 succeeded, 0 failed)
func (p *ProgressBar) Render(completed, failed, total int) string {
	frac := Fraction(completed, failed, total)
	// Whole cells only: a partially done cell stays empty.
	cells := math.Floor(frac*BarWidth) / BarWidth
	return fmt.Sprintf("Progress: [%s] %.1f%% (%d/%d, %d succeeded, %d failed)",
		p.bar.ViewAs(cells), frac*100, completed+failed, total, completed, failed)
}
