package psy

// Attack detection parameters.
const (
	subBlocks       = 8
	subBlockSize    = 128
	subBlockStart   = 512 // Block offset of the first sub-block
	attackRatio     = 10.0
	attackMinEnergy = 1e6 // Sub-block energy below which nothing is an attack
	meanDecay       = 0.7 // Weight of the history in the running mean
)

// AttackDetector flags transients in consecutive analysis blocks.
//
// Each 2048-sample block is split into eight 128-sample sub-blocks centred
// on the frame boundary, which are the cores of the eight short windows.
// The sub-blocks of consecutive blocks are contiguous, so the running mean
// carries over from one call to the next.
type AttackDetector struct {
	mean float64
	prev float64 // Last input sample, for the first difference
}

// Detect reports whether block contains an attack: a sub-block whose
// first-difference energy exceeds ten times the running mean of the
// sub-blocks before it. Blocks must be passed in order.
func (d *AttackDetector) Detect(block []float64) bool {
	attack := false
	x := block[subBlockStart : subBlockStart+subBlocks*subBlockSize]
	prev := d.prev
	for b := 0; b < subBlocks; b++ {
		e := 0.0
		for _, v := range x[b*subBlockSize : (b+1)*subBlockSize] {
			diff := v - prev
			e += diff * diff
			prev = v
		}
		if e > attackMinEnergy && e > attackRatio*d.mean {
			attack = true
		}
		d.mean = meanDecay*d.mean + (1-meanDecay)*e
	}
	d.prev = prev
	return attack
}

// Reset forgets the history.
func (d *AttackDetector) Reset() {
	*d = AttackDetector{}
}
