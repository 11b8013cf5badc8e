package beat

import "fmt"

// StepsPerBar is the number of 16th-note steps in one bar.
const StepsPerBar = 16

// StepsPerBeat is the number of 16th-note steps in one quarter-note beat.
const StepsPerBeat = 4

// Pattern is a per-level 16-step table for the ambient layers.
// Entries are 1-based scale degrees; 0 is a rest.
type Pattern struct {
	Scale []int
	Pad   [StepsPerBar]int
	Arp   [StepsPerBar]int
	Bass  [StepsPerBar]int
}

// MinorPentatonic is the default scale, in semitones above the root.
var MinorPentatonic = []int{0, 3, 5, 7, 10}

// DefaultPattern returns the pattern used when a level does not define one.
func DefaultPattern() Pattern {
	return Pattern{
		Scale: MinorPentatonic,
		Pad:   [StepsPerBar]int{1, 0, 0, 0, 0, 0, 0, 0, 3, 0, 0, 0, 0, 0, 0, 0},
		Arp:   [StepsPerBar]int{1, 0, 2, 0, 3, 0, 4, 0, 5, 0, 4, 0, 3, 0, 2, 0},
		Bass:  [StepsPerBar]int{1, 0, 0, 0, 1, 0, 0, 0, 4, 0, 0, 0, 5, 0, 0, 0},
	}
}

// NewPattern builds a pattern from variable-length step lists.
// Each list must have exactly StepsPerBar entries or be empty.
func NewPattern(scale, pad, arp, bass []int) (Pattern, error) {
	p := DefaultPattern()
	if len(scale) > 0 {
		p.Scale = append([]int(nil), scale...)
	}
	for _, tbl := range []struct {
		name  string
		steps []int
		dst   *[StepsPerBar]int
	}{
		{"pad", pad, &p.Pad},
		{"arp", arp, &p.Arp},
		{"bass", bass, &p.Bass},
	} {
		if len(tbl.steps) == 0 {
			continue
		}
		if len(tbl.steps) != StepsPerBar {
			return Pattern{}, fmt.Errorf("beat: %s pattern has %d steps, expected %d", tbl.name, len(tbl.steps), StepsPerBar)
		}
		for i, d := range tbl.steps {
			if d < 0 {
				return Pattern{}, fmt.Errorf("beat: %s step %d has negative degree %d", tbl.name, i, d)
			}
			tbl.dst[i] = d
		}
	}
	return p, nil
}

// Pitch converts a 1-based scale degree to a semitone offset, wrapping into
// higher octaves past the end of the scale.
func (p Pattern) Pitch(degree int) int {
	scale := p.Scale
	if len(scale) == 0 {
		scale = MinorPentatonic
	}
	if degree < 1 {
		degree = 1
	}
	idx := degree - 1
	return scale[idx%len(scale)] + 12*(idx/len(scale))
}
