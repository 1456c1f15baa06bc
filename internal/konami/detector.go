// Package konami recognizes the secret key sequence and drives the
// human-verification challenge it unlocks.
package konami

// Symbol is one key of the secret alphabet
type Symbol int

const (
	Other Symbol = iota // any key outside the alphabet
	Up
	Down
	Left
	Right
	B
	A
)

func (s Symbol) String() string {
	switch s {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	case B:
		return "b"
	case A:
		return "a"
	default:
		return "other"
	}
}

// Sequence is the code the detector waits for
var Sequence = [...]Symbol{Up, Up, Down, Down, Left, Right, Left, Right, B, A}

// Detector tracks progress through Sequence. The zero value is ready to use.
type Detector struct {
	pos int
}

// Feed consumes one symbol and reports whether it completed the sequence.
// A mismatch restarts at 1 when the symbol is the sequence's first symbol,
// otherwise at 0. Completion resets to 0.
func (d *Detector) Feed(s Symbol) bool {
	if s == Sequence[d.pos] {
		d.pos++
		if d.pos == len(Sequence) {
			d.pos = 0
			return true
		}
		return false
	}

	if s == Sequence[0] {
		d.pos = 1
	} else {
		d.pos = 0
	}
	return false
}

// Progress is the number of symbols matched so far
func (d *Detector) Progress() int { return d.pos }

func (d *Detector) Reset() { d.pos = 0 }
