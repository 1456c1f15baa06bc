package konami

import (
	"context"
	"sync"
)

// Widget is an external human-verification control
type Widget interface {
	// Render shows the widget and arranges for onDone to be called once the
	// visitor passes. It reports false when the widget cannot be shown.
	// onDone may never be called.
	Render(ctx context.Context, onDone func()) bool

	// Reset tears the widget down so it can be rendered again.
	Reset()
}

// LoadFunc fetches a widget
type LoadFunc func(ctx context.Context) (Widget, error)

type loadCall struct {
	done   chan struct{}
	widget Widget
	err    error
}

// Loader loads a widget at most once. Callers arriving while a load is in
// flight share it; a failed load is forgotten so the next call retries.
type Loader struct {
	load LoadFunc

	mu       sync.Mutex
	widget   Widget
	inflight *loadCall
}

func NewLoader(load LoadFunc) *Loader {
	return &Loader{load: load}
}

// Load returns the widget, waiting for an in-flight load if needed.
// Cancelling ctx abandons the wait but not the load itself.
func (l *Loader) Load(ctx context.Context) (Widget, error) {
	l.mu.Lock()
	if l.widget != nil {
		w := l.widget
		l.mu.Unlock()
		return w, nil
	}
	c := l.inflight
	if c == nil {
		c = &loadCall{done: make(chan struct{})}
		l.inflight = c
		go l.run(c)
	}
	l.mu.Unlock()

	select {
	case <-c.done:
		return c.widget, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *Loader) run(c *loadCall) {
	c.widget, c.err = l.load(context.Background())

	l.mu.Lock()
	if c.err == nil {
		l.widget = c.widget
	}
	l.inflight = nil
	l.mu.Unlock()

	close(c.done)
}
