package filterbank

import "github.com/llehouerou/go-aacenc/internal/syntax"

// Switcher chooses the window sequence of consecutive frames so that
// neighbouring windows always overlap with matching slopes.
//
// The zero value is ready to use: the first frame only overlaps silence and
// may take any sequence.
type Switcher struct {
	prev    syntax.WindowSequence
	started bool
}

// Next returns the sequence for the current frame. attack reports a
// transient in the current frame, nextAttack one in the following frame.
func (s *Switcher) Next(attack, nextAttack bool) syntax.WindowSequence {
	var seq syntax.WindowSequence
	switch {
	case !s.started:
		switch {
		case attack:
			seq = syntax.EightShortSequence
		case nextAttack:
			seq = syntax.LongStartSequence
		default:
			seq = syntax.OnlyLongSequence
		}
	case s.prev == syntax.LongStartSequence:
		seq = syntax.EightShortSequence
	case s.prev == syntax.EightShortSequence:
		if attack || nextAttack {
			seq = syntax.EightShortSequence
		} else {
			seq = syntax.LongStopSequence
		}
	default:
		if attack || nextAttack {
			seq = syntax.LongStartSequence
		} else {
			seq = syntax.OnlyLongSequence
		}
	}

	s.prev = seq
	s.started = true
	return seq
}

// Prev returns the sequence chosen for the previous frame.
func (s *Switcher) Prev() syntax.WindowSequence {
	return s.prev
}
