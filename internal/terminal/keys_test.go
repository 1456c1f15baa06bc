package terminal

import (
	"testing"

	"github.com/3rg0n/termfolio/internal/konami"
)

func TestFromSequence(t *testing.T) {
	tests := []struct {
		raw  string
		want Key
	}{
		{"\r", Key{Kind: KeyEnter}},
		{"\n", Key{Kind: KeyEnter}},
		{"\x7f", Key{Kind: KeyBackspace}},
		{"\b", Key{Kind: KeyBackspace}},
		{"\t", Key{Kind: KeyTab}},
		{"\x03", Key{Kind: KeyCtrlC}},
		{"\x1b[A", Key{Kind: KeyUp}},
		{"\x1b[B", Key{Kind: KeyDown}},
		{"\x1b[C", Key{Kind: KeyRight}},
		{"\x1b[D", Key{Kind: KeyLeft}},
		{"\x1bOA", Key{Kind: KeyUp}},
		{"\x1b[3~", Key{Kind: KeyOther, Text: "\x1b[3~"}},
		{"\x01", Key{Kind: KeyOther, Text: "\x01"}},
		{"a", Key{Kind: KeyPrintable, Text: "a"}},
		{"ls -la", Key{Kind: KeyPrintable, Text: "ls -la"}},
		{"é", Key{Kind: KeyPrintable, Text: "é"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := FromSequence(tt.raw); got != tt.want {
				t.Errorf("FromSequence(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestKeySymbol(t *testing.T) {
	tests := []struct {
		key  Key
		want konami.Symbol
	}{
		{Key{Kind: KeyUp}, konami.Up},
		{Key{Kind: KeyDown}, konami.Down},
		{Key{Kind: KeyLeft}, konami.Left},
		{Key{Kind: KeyRight}, konami.Right},
		{Printable("b"), konami.B},
		{Printable("A"), konami.A},
		{Printable("ab"), konami.Other},
		{Key{Kind: KeyEnter}, konami.Other},
	}

	for _, tt := range tests {
		if got := tt.key.Symbol(); got != tt.want {
			t.Errorf("%+v.Symbol() = %v, want %v", tt.key, got, tt.want)
		}
	}
}
