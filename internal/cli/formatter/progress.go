package formatter

import (
	"fmt"
	"strings"
)

// RenderDone draws done out of total as a bar of width cells followed by
// the percentage. The bar turns yellow past a third and green past two
// thirds.
func RenderDone(done, total, width int) string {
	width = max(width, 2)
	pct := 0.0
	if total > 0 {
		pct = min(max(float64(done)/float64(total), 0), 1)
	}
	filled := int(pct * float64(width))

	style := StyleRed
	switch {
	case pct >= 0.66:
		style = StyleGreen
	case pct >= 0.33:
		style = StyleYellow
	}
	bar := style.Render(strings.Repeat("█", filled)) + StyleDim.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("[%s] %3.0f%%", bar, pct*100)
}
