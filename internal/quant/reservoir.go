package quant

import "math"

// Reservoir parameters.
const (
	// ChannelBits is the decoder input buffer size per channel.
	ChannelBits = 6144

	drawNormal = 0.2 // Share of the reservoir a frame may take
	drawDemand = 0.6 // Share for short blocks and high entropy frames
	peHighRate = 1.5 // Entropy relative to the running mean that counts as high
	peDecay    = 0.9
)

// Reservoir tracks the bit budget of a constant bit rate stream.
//
// The mean frame size follows the bit rate exactly: the accumulator
// carries the fractional remainder from frame to frame. Frames below the
// mean save bits into the reservoir and frames above it draw them back.
// The reservoir never holds more than ChannelBits per channel minus one
// mean frame; excess bits must be written as fill. A frame that ends above
// its budget leaves the level negative, and the following budgets stay
// below the mean until that debt is repaid.
type Reservoir struct {
	bitRate    int64 // Total bits per second
	sampleRate int64
	frameLen   int64
	maxFrame   int

	acc      int64 // Fractional bit accumulator, in bits * sampleRate
	mean     int   // Mean bits of the current frame
	level    int
	maxLevel int
	peMean   float64
}

// NewReservoir returns a reservoir for a stream of total bitRate bits per
// second, frames of frameLen samples and channels channels.
func NewReservoir(bitRate, sampleRate, frameLen, channels int) *Reservoir {
	r := &Reservoir{
		bitRate:    int64(bitRate),
		sampleRate: int64(sampleRate),
		frameLen:   int64(frameLen),
		maxFrame:   ChannelBits * channels,
	}
	mean := int(r.bitRate * r.frameLen / r.sampleRate)
	r.maxLevel = max(r.maxFrame-mean, 0)
	return r
}

// BitRate returns the total bit rate the reservoir was created for.
func (r *Reservoir) BitRate() int {
	return int(r.bitRate)
}

// MaxFrameBits returns the size limit of any access unit.
func (r *Reservoir) MaxFrameBits() int {
	return r.maxFrame
}

// Level returns the number of bits currently saved, negative while a debt
// is outstanding.
func (r *Reservoir) Level() int {
	return r.level
}

// MaxLevel returns the reservoir capacity.
func (r *Reservoir) MaxLevel() int {
	return r.maxLevel
}

// Budget starts a frame and returns its bit budget. Frames with short
// blocks or a perceptual entropy well above the running mean may draw a
// larger share of the reservoir.
func (r *Reservoir) Budget(pe float64, short bool) int {
	r.acc += r.bitRate * r.frameLen
	r.mean = int(r.acc / r.sampleRate)
	r.acc %= r.sampleRate

	draw := drawNormal
	if r.level > 0 && (short || (r.peMean > 0 && pe > peHighRate*r.peMean)) {
		draw = drawDemand
	}
	if r.peMean == 0 {
		r.peMean = pe
	} else {
		r.peMean = peDecay*r.peMean + (1-peDecay)*pe
	}

	budget := r.mean + int(math.Floor(draw*float64(r.level)))
	return max(min(budget, r.mean+max(r.level, 0), r.maxFrame), 0)
}

// FillBits returns the number of bits a frame of used bits must add as
// fill so that the reservoir does not overflow.
func (r *Reservoir) FillBits(used int) int {
	return max(r.level+r.mean-used-r.maxLevel, 0)
}

// Commit ends the frame with its final size in bits, fill included.
func (r *Reservoir) Commit(used int) {
	r.level = min(r.level+r.mean-used, r.maxLevel)
}
