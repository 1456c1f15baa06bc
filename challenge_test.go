package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/3rg0n/termfolio/internal/clock"
	"github.com/3rg0n/termfolio/internal/konami"
)

func TestPuzzleAccepts(t *testing.T) {
	p := Puzzle{Question: "What is 7 + 5?", Answers: []string{"12", "Twelve"}}

	tests := []struct {
		answer string
		want   bool
	}{
		{"12", true},
		{"  12 ", true},
		{"twelve", true},
		{"TWELVE", true},
		{"13", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			if got := p.Accepts(tt.answer); got != tt.want {
				t.Errorf("Accepts(%q) = %v, want %v", tt.answer, got, tt.want)
			}
		})
	}
}

func TestBuiltinPuzzlesAreAnswerable(t *testing.T) {
	for _, p := range builtinPuzzles {
		if p.Question == "" || len(p.Answers) == 0 {
			t.Errorf("puzzle %+v has no question or answers", p)
			continue
		}
		if !p.Accepts(p.Answers[0]) {
			t.Errorf("puzzle %q rejects its own answer", p.Question)
		}
	}
}

func TestFetchPuzzles(t *testing.T) {
	t.Run("valid response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "termfolio/") {
				t.Errorf("User-Agent = %q", ua)
			}
			_, _ = w.Write([]byte(`[
				{"question": "2 + 2?", "answers": ["4"]},
				{"question": "", "answers": ["skipped"]},
				{"question": "no answers"}
			]`))
		}))
		defer srv.Close()

		puzzles, err := fetchPuzzles(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("fetchPuzzles: %v", err)
		}
		if len(puzzles) != 1 || puzzles[0].Question != "2 + 2?" {
			t.Errorf("puzzles = %+v, want only the usable one", puzzles)
		}
	})

	t.Run("bad status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := fetchPuzzles(context.Background(), srv.URL)
		if err == nil || !strings.Contains(err.Error(), "503") {
			t.Errorf("err = %v, want status 503", err)
		}
	})

	t.Run("nothing usable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		if _, err := fetchPuzzles(context.Background(), srv.URL); err == nil {
			t.Error("expected an error for an empty puzzle list")
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"question":`))
		}))
		defer srv.Close()

		if _, err := fetchPuzzles(context.Background(), srv.URL); err == nil {
			t.Error("expected a decode error")
		}
	})
}

// msgRecorder collects what a widget sends to the TUI
type msgRecorder struct {
	msgs []tea.Msg
}

func (r *msgRecorder) send(msg tea.Msg) { r.msgs = append(r.msgs, msg) }

func TestChallengeWidget(t *testing.T) {
	t.Run("render opens the overlay and done fires once", func(t *testing.T) {
		rec := &msgRecorder{}
		w := &challengeWidget{puzzles: builtinPuzzles[:1], send: rec.send, pick: func(int) int { return 0 }}

		calls := 0
		if !w.Render(context.Background(), func() { calls++ }) {
			t.Fatal("Render() = false, want true")
		}
		if len(rec.msgs) != 1 {
			t.Fatalf("sent %d messages, want 1", len(rec.msgs))
		}
		open, ok := rec.msgs[0].(challengeOpenMsg)
		if !ok {
			t.Fatalf("sent %T, want challengeOpenMsg", rec.msgs[0])
		}
		if open.puzzle.Question != builtinPuzzles[0].Question {
			t.Errorf("puzzle = %q", open.puzzle.Question)
		}
		open.done()
		open.done()
		if calls != 1 {
			t.Errorf("onDone called %d times, want 1", calls)
		}

		w.Reset()
		if _, ok := rec.msgs[len(rec.msgs)-1].(challengeCloseMsg); !ok {
			t.Error("Reset should close the overlay")
		}
	})

	t.Run("no puzzles cannot render", func(t *testing.T) {
		w := &challengeWidget{send: (&msgRecorder{}).send, pick: func(int) int { return 0 }}
		if w.Render(context.Background(), func() {}) {
			t.Error("Render() = true with no puzzles")
		}
	})
}

func TestLoadChallenge(t *testing.T) {
	t.Run("built-in set without a url", func(t *testing.T) {
		widget, err := loadChallenge("", (&msgRecorder{}).send)(context.Background())
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		cw, ok := widget.(*challengeWidget)
		if !ok {
			t.Fatalf("widget is %T", widget)
		}
		if len(cw.puzzles) != len(builtinPuzzles) {
			t.Errorf("puzzles = %d, want %d", len(cw.puzzles), len(builtinPuzzles))
		}
	})

	t.Run("fetch failure is a load error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		if _, err := loadChallenge(srv.URL, (&msgRecorder{}).send)(context.Background()); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestChallengeFlowThroughModel(t *testing.T) {
	// send drives a Model the way the running program would and answers
	// the puzzle as soon as it appears
	m := NewModel(nil, nil, nil, NewTheme("default"))
	send := func(msg tea.Msg) {
		next, _ := m.Update(msg)
		m = next.(Model)
		if m.overlay == OverlayChallenge {
			m.answer.SetValue(m.puzzle.Answers[0])
			next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
			m = next.(Model)
		}
	}

	flow := konami.NewFlow(konami.NewLoader(loadChallenge("", send)), konami.Options{
		Clock:  &clock.Fake{},
		Jitter: func(time.Duration) time.Duration { return 0 },
	})

	var screen strings.Builder
	outcome, err := flow.Run(context.Background(), &screen)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome != konami.Verified {
		t.Errorf("outcome = %v, want verified", outcome)
	}
	if m.overlay != OverlayNone {
		t.Errorf("overlay = %v after the flow, want none", m.overlay)
	}
}
