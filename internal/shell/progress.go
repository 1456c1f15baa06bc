package shell

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/3rg0n/termfolio/internal/clock"
)

const (
	progressSteps = 20
	progressFrame = 70 * time.Millisecond
	minBarWidth   = 10
	maxBarWidth   = 40
)

// BarWidth sizes a progress bar so label, brackets and percentage fit in columns
func BarWidth(label string, columns int) int {
	// label + ": [" + "] " + "100%"
	width := columns - len(label) - 9
	return max(minBarWidth, min(width, maxBarWidth))
}

// RenderBar draws one progress frame without the leading carriage return
func RenderBar(label string, step, steps, width int) string {
	filled := width * step / steps
	pct := 100 * step / steps
	return fmt.Sprintf("%s: [%s%s] %d%%", label, strings.Repeat("#", filled), strings.Repeat(" ", width-filled), pct)
}

// PlayProgress animates a labeled bar from 0 to 100%. The width is
// recomputed from columns on every frame so a resize takes effect mid-run.
func PlayProgress(ctx context.Context, io IO, clk clock.Clock, label string, columns func() int) error {
	width := func() int {
		if columns == nil {
			return BarWidth(label, LineWidth)
		}
		return BarWidth(label, columns())
	}

	for step := 0; step <= progressSteps; step++ {
		io.Write("\r\x1b[K" + RenderBar(label, step, progressSteps, width()))
		if step == progressSteps {
			break
		}
		if err := clk.Sleep(ctx, progressFrame); err != nil {
			io.Write("\r\n")
			return err
		}
	}
	io.Write("\r\n")
	return nil
}
