package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/3rg0n/termfolio/internal/konami"
)

// Puzzle is one human-verification question
type Puzzle struct {
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
}

// Accepts reports whether answer matches one of the puzzle's answers,
// ignoring case and surrounding space
func (p Puzzle) Accepts(answer string) bool {
	answer = strings.TrimSpace(answer)
	for _, a := range p.Answers {
		if strings.EqualFold(answer, strings.TrimSpace(a)) {
			return true
		}
	}
	return false
}

var builtinPuzzles = []Puzzle{
	{Question: "What is 7 + 5?", Answers: []string{"12", "twelve"}},
	{Question: "Type the word 'human' backwards.", Answers: []string{"namuh"}},
	{Question: "Which color do you get by mixing blue and yellow?", Answers: []string{"green"}},
	{Question: "How many legs does a spider have?", Answers: []string{"8", "eight"}},
	{Question: "What comes after Tuesday?", Answers: []string{"wednesday"}},
}

// fetchPuzzles downloads a JSON array of puzzles from url
func fetchPuzzles(ctx context.Context, url string) ([]Puzzle, error) {
	client := &http.Client{Timeout: 5 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "termfolio/"+Version)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("puzzle endpoint returned status %d", resp.StatusCode)
	}

	var puzzles []Puzzle
	if err := json.NewDecoder(resp.Body).Decode(&puzzles); err != nil {
		return nil, err
	}

	valid := puzzles[:0]
	for _, p := range puzzles {
		if p.Question != "" && len(p.Answers) > 0 {
			valid = append(valid, p)
		}
	}
	if len(valid) == 0 {
		return nil, errors.New("puzzle endpoint returned no usable puzzles")
	}
	return valid, nil
}

// challengeWidget asks a puzzle through the TUI's challenge overlay
type challengeWidget struct {
	puzzles []Puzzle
	send    func(tea.Msg)
	pick    func(n int) int
}

func (w *challengeWidget) Render(_ context.Context, onDone func()) bool {
	if len(w.puzzles) == 0 || w.send == nil {
		return false
	}
	var once sync.Once
	w.send(challengeOpenMsg{
		puzzle: w.puzzles[w.pick(len(w.puzzles))],
		done:   func() { once.Do(onDone) },
	})
	return true
}

func (w *challengeWidget) Reset() {
	if w.send != nil {
		w.send(challengeCloseMsg{})
	}
}

// loadChallenge returns the loader for the verification widget. Puzzles
// come from url when set, otherwise from the built-in set.
func loadChallenge(url string, send func(tea.Msg)) konami.LoadFunc {
	return func(ctx context.Context) (konami.Widget, error) {
		puzzles := builtinPuzzles
		if url != "" {
			fetched, err := fetchPuzzles(ctx, url)
			if err != nil {
				return nil, fmt.Errorf("fetch puzzles: %w", err)
			}
			puzzles = fetched
		}
		return &challengeWidget{puzzles: puzzles, send: send, pick: rand.IntN}, nil
	}
}
