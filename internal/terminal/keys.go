// Package terminal is the line-editing front of the shell: key translation,
// a small screen model, the boot sequence and the session state machine.
package terminal

import (
	"strings"

	"github.com/3rg0n/termfolio/internal/konami"
)

// KeyKind classifies a key event
type KeyKind int

const (
	KeyOther KeyKind = iota
	KeyPrintable
	KeyEnter
	KeyBackspace
	KeyTab
	KeyCtrlC
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
)

// Key is a terminal-library-independent key event. Text is set for
// printable input and may hold several characters (a paste).
type Key struct {
	Kind KeyKind
	Text string
}

func Printable(text string) Key { return Key{Kind: KeyPrintable, Text: text} }

func (k Key) IsArrow() bool {
	return k.Kind == KeyUp || k.Kind == KeyDown || k.Kind == KeyLeft || k.Kind == KeyRight
}

// FromSequence classifies raw xterm-style input
func FromSequence(raw string) Key {
	switch raw {
	case "":
		return Key{Kind: KeyOther}
	case "\r", "\n", "\r\n":
		return Key{Kind: KeyEnter}
	case "\x7f", "\b":
		return Key{Kind: KeyBackspace}
	case "\t":
		return Key{Kind: KeyTab}
	case "\x03":
		return Key{Kind: KeyCtrlC}
	case "\x1b[A", "\x1bOA":
		return Key{Kind: KeyUp}
	case "\x1b[B", "\x1bOB":
		return Key{Kind: KeyDown}
	case "\x1b[C", "\x1bOC":
		return Key{Kind: KeyRight}
	case "\x1b[D", "\x1bOD":
		return Key{Kind: KeyLeft}
	}

	if strings.ContainsFunc(raw, isControl) {
		return Key{Kind: KeyOther, Text: raw}
	}
	return Printable(raw)
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}

// Symbol maps k onto the secret-sequence alphabet
func (k Key) Symbol() konami.Symbol {
	switch k.Kind {
	case KeyUp:
		return konami.Up
	case KeyDown:
		return konami.Down
	case KeyLeft:
		return konami.Left
	case KeyRight:
		return konami.Right
	case KeyPrintable:
		switch k.Text {
		case "b", "B":
			return konami.B
		case "a", "A":
			return konami.A
		}
	}
	return konami.Other
}
