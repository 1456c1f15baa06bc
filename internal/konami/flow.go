package konami

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/3rg0n/termfolio/internal/clock"
	"github.com/3rg0n/termfolio/internal/logging"
)

const (
	clearScreen = "\x1b[2J\x1b[3J\x1b[H"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
)

// DefaultMessage is revealed before the challenge appears
var DefaultMessage = []string{
	"Access pattern recognized.",
	"Unlocking the real challenge...",
	"Prove you are human to continue.",
}

// Outcome is how a challenge run ended
type Outcome int

const (
	Verified Outcome = iota
	TimedOut
	Unavailable // the widget failed to load or render
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Verified:
		return "verified"
	case TimedOut:
		return "timed out"
	case Unavailable:
		return "unavailable"
	default:
		return "cancelled"
	}
}

// Options tunes the challenge sub-flow. Zero durations take defaults.
type Options struct {
	Message       []string
	Clock         clock.Clock
	CharDelay     time.Duration
	CharJitter    time.Duration
	LinePause     time.Duration
	WidgetPause   time.Duration
	LoadTimeout   time.Duration
	VerifyTimeout time.Duration
	Jitter        func(max time.Duration) time.Duration
}

func (o *Options) applyDefaults() {
	if o.Message == nil {
		o.Message = DefaultMessage
	}
	if o.Clock == nil {
		o.Clock = clock.Real{}
	}
	if o.CharDelay == 0 {
		o.CharDelay = 25 * time.Millisecond
	}
	if o.CharJitter == 0 {
		o.CharJitter = 45 * time.Millisecond
	}
	if o.LinePause == 0 {
		o.LinePause = 400 * time.Millisecond
	}
	if o.WidgetPause == 0 {
		o.WidgetPause = 800 * time.Millisecond
	}
	if o.LoadTimeout == 0 {
		o.LoadTimeout = 10 * time.Second
	}
	if o.VerifyTimeout == 0 {
		o.VerifyTimeout = 2 * time.Minute
	}
	if o.Jitter == nil {
		o.Jitter = func(max time.Duration) time.Duration { return rand.N(max) }
	}
}

// Flow is the reveal + verification sub-flow run while input is locked
type Flow struct {
	opts   Options
	loader *Loader
}

func NewFlow(loader *Loader, opts Options) *Flow {
	opts.applyDefaults()
	return &Flow{opts: opts, loader: loader}
}

// Run clears the screen, plays the reveal, then shows the widget until it
// completes, times out, or fails. The screen is cleared and the cursor
// restored on every path out. Only cancellation of ctx is an error.
func (f *Flow) Run(ctx context.Context, screen io.StringWriter) (Outcome, error) {
	log := logging.WithContext(ctx)

	_, _ = screen.WriteString(clearScreen + hideCursor)
	defer func() { _, _ = screen.WriteString(clearScreen + showCursor) }()

	tw := Typewriter{
		Clock:      f.opts.Clock,
		CharDelay:  f.opts.CharDelay,
		CharJitter: f.opts.CharJitter,
		LinePause:  f.opts.LinePause,
		Jitter:     f.opts.Jitter,
	}
	if err := tw.Play(ctx, screen, f.opts.Message); err != nil {
		return Cancelled, err
	}
	if err := f.opts.Clock.Sleep(ctx, f.opts.WidgetPause); err != nil {
		return Cancelled, err
	}

	loadCtx, cancelLoad := context.WithTimeout(ctx, f.opts.LoadTimeout)
	widget, err := f.loader.Load(loadCtx)
	cancelLoad()
	if err != nil || widget == nil {
		if ctx.Err() != nil {
			return Cancelled, ctx.Err()
		}
		log.Warn("challenge widget failed to load", zap.Error(err))
		return Unavailable, nil
	}
	defer widget.Reset()

	verifyCtx, cancelVerify := context.WithTimeout(ctx, f.opts.VerifyTimeout)
	defer cancelVerify()

	done := make(chan struct{})
	var once sync.Once
	onDone := func() { once.Do(func() { close(done) }) }

	if !widget.Render(verifyCtx, onDone) {
		log.Warn("challenge widget failed to render")
		return Unavailable, nil
	}

	select {
	case <-done:
		log.Info("challenge verified")
		return Verified, nil
	case <-verifyCtx.Done():
		if ctx.Err() != nil {
			return Cancelled, ctx.Err()
		}
		log.Info("challenge timed out", zap.Duration("after", f.opts.VerifyTimeout))
		return TimedOut, nil
	}
}

// ErrNoWidget is returned by loaders that have nothing to show
var ErrNoWidget = errors.New("no verification widget configured")
