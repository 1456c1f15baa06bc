package konami

import (
	"context"
	"io"
	"time"

	"github.com/3rg0n/termfolio/internal/clock"
)

// Typewriter writes lines one character at a time. Each character waits
// charDelay plus jitter(charJitter); each line ends with linePause.
type Typewriter struct {
	Clock      clock.Clock
	CharDelay  time.Duration
	CharJitter time.Duration
	LinePause  time.Duration
	Jitter     func(max time.Duration) time.Duration
}

func (t Typewriter) Play(ctx context.Context, w io.StringWriter, lines []string) error {
	for _, line := range lines {
		for _, r := range line {
			if _, err := w.WriteString(string(r)); err != nil {
				return err
			}
			delay := t.CharDelay
			if t.Jitter != nil && t.CharJitter > 0 {
				delay += t.Jitter(t.CharJitter)
			}
			if err := t.Clock.Sleep(ctx, delay); err != nil {
				return err
			}
		}
		if _, err := w.WriteString("\r\n"); err != nil {
			return err
		}
		if err := t.Clock.Sleep(ctx, t.LinePause); err != nil {
			return err
		}
	}
	return nil
}
