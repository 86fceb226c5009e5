package output

import (
	"fmt"
	"strings"

	"github.com/blackwell-systems/workflowx/internal/model"
)

// FrictionBadge renders a friction level as a colored label.
func FrictionBadge(level model.FrictionLevel) string {
	switch level {
	case model.FrictionCritical:
		return StyleCritical.Render("CRITICAL")
	case model.FrictionHigh:
		return StyleError.Render("high")
	case model.FrictionMedium:
		return StyleWarning.Render("medium")
	default:
		return StyleMuted.Render("low")
	}
}

// TrendIndicator renders a pattern trend as an arrow plus label.
func TrendIndicator(trend string) string {
	switch trend {
	case model.TrendWorsening:
		return StyleError.Render("↑ worsening")
	case model.TrendImproving:
		return StyleSuccess.Render("↓ improving")
	default:
		return StyleMuted.Render("→ stable")
	}
}

// OutcomeBadge renders a replacement outcome status.
func OutcomeBadge(status string) string {
	switch status {
	case model.OutcomeAdopted:
		return StyleSuccess.Render("adopted")
	case model.OutcomeRejected:
		return StyleError.Render("rejected")
	default:
		return StyleWarning.Render("measuring")
	}
}

// RatioBar renders a 0..1 ratio as a fixed-width bar, e.g. "[████······] 40%".
func RatioBar(ratio float64, width int) string {
	if width <= 0 {
		width = 10
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio*float64(width) + 0.5)
	bar := strings.Repeat("█", filled) + strings.Repeat("·", width-filled)
	return fmt.Sprintf("[%s] %.0f%%", bar, ratio*100)
}

// Section renders a styled section header with an underline.
func Section(title string) string {
	return StyleHeader.Render(title) + "\n" + StyleMuted.Render(strings.Repeat("─", len([]rune(title))))
}
