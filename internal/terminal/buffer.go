package terminal

import (
	"strings"
	"sync"
)

// DefaultScrollback is how many lines a Buffer keeps
const DefaultScrollback = 1000

// Buffer is a minimal screen model the shell writes into and the UI renders.
// It understands CR, LF (which also returns the carriage), BS, and the CSI
// sequences 2J, 3J, H, K and ?25l/?25h. Other escapes are dropped.
type Buffer struct {
	mu            sync.Mutex
	lines         [][]rune
	row, col      int
	cursorVisible bool
	maxLines      int

	// partial escape sequence carried across writes
	esc []rune
}

func NewBuffer(maxLines int) *Buffer {
	if maxLines <= 0 {
		maxLines = DefaultScrollback
	}
	return &Buffer{lines: [][]rune{{}}, cursorVisible: true, maxLines: maxLines}
}

// WriteString implements io.StringWriter
func (b *Buffer) WriteString(s string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, r := range s {
		if b.esc != nil {
			b.escape(r)
			continue
		}
		switch r {
		case '\x1b':
			b.esc = []rune{}
		case '\r':
			b.col = 0
		case '\n':
			b.newline()
		case '\b':
			if b.col > 0 {
				b.col--
			}
		default:
			if r < 0x20 {
				continue
			}
			b.put(r)
		}
	}
	b.trim()
	return len(s), nil
}

func (b *Buffer) put(r rune) {
	line := b.lines[b.row]
	for len(line) < b.col {
		line = append(line, ' ')
	}
	if b.col < len(line) {
		line[b.col] = r
	} else {
		line = append(line, r)
	}
	b.lines[b.row] = line
	b.col++
}

func (b *Buffer) newline() {
	b.row++
	b.col = 0
	if b.row == len(b.lines) {
		b.lines = append(b.lines, []rune{})
	}
}

func (b *Buffer) escape(r rune) {
	if len(b.esc) == 0 {
		if r != '[' {
			b.esc = nil // not CSI; drop it
			return
		}
		b.esc = append(b.esc, r)
		return
	}
	// final byte of a CSI sequence
	if r < 0x40 || r > 0x7e {
		b.esc = append(b.esc, r)
		return
	}

	params := string(b.esc[1:])
	b.esc = nil
	switch r {
	case 'J':
		if params == "2" || params == "3" {
			b.lines = [][]rune{{}}
			b.row, b.col = 0, 0
		}
	case 'H':
		b.row, b.col = 0, 0
	case 'K':
		if line := b.lines[b.row]; b.col < len(line) {
			b.lines[b.row] = line[:b.col]
		}
	case 'l':
		if params == "?25" {
			b.cursorVisible = false
		}
	case 'h':
		if params == "?25" {
			b.cursorVisible = true
		}
	}
}

func (b *Buffer) trim() {
	if extra := len(b.lines) - b.maxLines; extra > 0 {
		b.lines = append([][]rune(nil), b.lines[extra:]...)
		b.row -= extra
	}
}

// Lines returns a copy of every line
func (b *Buffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.lines))
	for i, l := range b.lines {
		out[i] = string(l)
	}
	return out
}

// Tail returns at most n lines ending at the cursor row
func (b *Buffer) Tail(n int) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	end := min(b.row+1, len(b.lines))
	start := max(0, end-n)
	out := make([]string, 0, end-start)
	for _, l := range b.lines[start:end] {
		out = append(out, string(l))
	}
	return out
}

// Cursor reports the cursor position and visibility
func (b *Buffer) Cursor() (row, col int, visible bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.row, b.col, b.cursorVisible
}

func (b *Buffer) String() string {
	return strings.Join(b.Lines(), "\n")
}
