package aacenc

import (
	"bytes"
	"math"
	"testing"

	"github.com/llehouerou/go-aacenc/internal/refdec"
	"github.com/llehouerou/go-aacenc/internal/syntax"
)

// channel extracts channel c of interleaved samples, dropping the
// decoder delay of one frame.
func channel(x []float64, channels, c int) []float64 {
	out := make([]float64, 0, len(x)/channels)
	for i := FrameLength*channels + c; i < len(x); i += channels {
		out = append(out, x[i])
	}
	return out
}

// power returns the power of x at freq Hz (Goertzel).
func power(x []float64, freq float64, sampleRate int) float64 {
	w := 2 * math.Pi * freq / float64(sampleRate)
	coeff := 2 * math.Cos(w)
	var s1, s2 float64
	for _, v := range x {
		s1, s2 = v+coeff*s1-s2, s1
	}
	return (s1*s1 + s2*s2 - coeff*s1*s2) / float64(len(x)*len(x))
}

func rms(x []float64) float64 {
	e := 0.0
	for _, v := range x {
		e += v * v
	}
	return math.Sqrt(e / float64(len(x)))
}

// checkTone verifies that freq dominates the decoded channel and that the
// level is close to amp.
func checkTone(t *testing.T, name string, x []float64, freq, amp float64, sampleRate int) {
	t.Helper()
	// Skip the first and the last frames: start-up and drain padding.
	x = x[2*FrameLength : len(x)-2*FrameLength]

	p := power(x, freq, sampleRate)
	for _, other := range []float64{freq / 2, freq * 1.5, freq * 2, freq + 700} {
		if q := power(x, other, sampleRate); q*100 > p {
			t.Errorf("%s: power at %.0f Hz = %g, at %.0f Hz = %g, want 20 dB below", name, other, q, freq, p)
		}
	}
	want := amp / math.Sqrt2
	if got := rms(x); got < 0.8*want || got > 1.25*want {
		t.Errorf("%s: rms = %.1f, want %.1f +-2 dB", name, got, want)
	}
}

func decodeUnits(t *testing.T, units [][]byte) ([]float64, refdec.StreamInfo) {
	t.Helper()
	pcm, info, err := refdec.DecodeADTS(bytes.Join(units, nil))
	if err != nil {
		t.Fatalf("DecodeADTS: %v", err)
	}
	return pcm, info
}

func TestRoundTrip_MonoQuality(t *testing.T) {
	const frames = 20
	enc := newEncoder(t, 44100, 1, nil)
	units := encodeAll(t, enc, tone(frames*FrameLength, 44100, 8000, 1000))

	pcm, info := decodeUnits(t, units)
	if info.SampleRate != 44100 || info.Channels != 1 || info.ObjectType != 2 {
		t.Errorf("stream info = %+v, want 44100 Hz, 1 channel, LC", info)
	}
	if want := (frames + 1) * FrameLength; len(pcm) != want {
		t.Errorf("decoded %d samples, want %d", len(pcm), want)
	}
	checkTone(t, "mono", channel(pcm, 1, 0), 1000, 8000, 44100)
}

func TestRoundTrip_StereoBitRate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Configuration)
	}{
		{"mid side", func(c *Configuration) { c.BitRate = 64000 }},
		{"no joint", func(c *Configuration) {
			c.BitRate = 64000
			c.JointMode, c.AllowMidSide = JointNone, false
		}},
		{"tns", func(c *Configuration) {
			c.BitRate = 96000
			c.UseTNS = true
		}},
		{"mpeg2", func(c *Configuration) {
			c.BitRate = 64000
			c.MPEGVersion = MPEG2
		}},
		{"fixed psy", func(c *Configuration) { c.PsyModelIdx = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const frames = 24
			enc := newEncoder(t, 48000, 2, tt.mutate)
			units := encodeAll(t, enc, tone(frames*FrameLength, 48000, 6000, 440, 2500))

			pcm, info := decodeUnits(t, units)
			if info.Channels != 2 {
				t.Fatalf("decoded %d channels, want 2", info.Channels)
			}
			checkTone(t, "left", channel(pcm, 2, 0), 440, 6000, 48000)
			checkTone(t, "right", channel(pcm, 2, 1), 2500, 6000, 48000)
		})
	}
}

func TestRoundTrip_ChannelMap(t *testing.T) {
	const frames = 16
	enc := newEncoder(t, 44100, 2, func(c *Configuration) { c.ChannelMap = []int{1, 0} })
	units := encodeAll(t, enc, tone(frames*FrameLength, 44100, 6000, 440, 2500))

	pcm, _ := decodeUnits(t, units)
	checkTone(t, "left", channel(pcm, 2, 0), 2500, 6000, 44100)
	checkTone(t, "right", channel(pcm, 2, 1), 440, 6000, 44100)
}

func TestRoundTrip_SixChannels(t *testing.T) {
	const frames = 16
	enc := newEncoder(t, 48000, 6, func(c *Configuration) { c.BitRate = 64000 })
	freqs := []float64{500, 700, 900, 1100, 1300, 60}
	units := encodeAll(t, enc, tone(frames*FrameLength, 48000, 5000, freqs...))

	pcm, info := decodeUnits(t, units)
	if info.Channels != 6 {
		t.Fatalf("decoded %d channels, want 6", info.Channels)
	}
	for c, f := range freqs[:5] {
		checkTone(t, "channel", channel(pcm, 6, c), f, 5000, 48000)
	}
	lfe := channel(pcm, 6, 5)
	lfe = lfe[2*FrameLength : len(lfe)-2*FrameLength]
	if p, q := power(lfe, 60, 48000), power(lfe, 1000, 48000); q*100 > p {
		t.Errorf("LFE: power at 60 Hz = %g, at 1000 Hz = %g", p, q)
	}
}

func TestRoundTrip_RawOutput(t *testing.T) {
	const frames = 12
	enc := newEncoder(t, 32000, 1, func(c *Configuration) { c.OutputFormat = OutputRaw })
	asc, err := enc.DecoderSpecificInfo()
	if err != nil {
		t.Fatalf("DecoderSpecificInfo: %v", err)
	}
	units := encodeAll(t, enc, tone(frames*FrameLength, 32000, 8000, 1500))

	dec := refdec.New()
	if _, err := dec.Init2(asc); err != nil {
		t.Fatalf("Init2: %v", err)
	}
	var pcm []float64
	for i, au := range units {
		if au[0] == 0xFF && au[1]&0xF0 == 0xF0 {
			t.Fatalf("unit %d starts with a syncword", i)
		}
		out, fi, err := dec.Decode(au)
		if err != nil {
			t.Fatalf("unit %d: %v", i, err)
		}
		if fi.BytesConsumed != len(au) {
			t.Errorf("unit %d: consumed %d of %d bytes", i, fi.BytesConsumed, len(au))
		}
		pcm = append(pcm, out...)
	}
	checkTone(t, "raw", channel(pcm, 1, 0), 1500, 8000, 32000)
}

// snr returns the ratio in dB of the input power to the power of the
// decoding error, at the best alignment within a few samples of the
// nominal decoder delay. in and decoded are mono.
func snr(in []int16, decoded []float64) float64 {
	const skip = 2 * FrameLength
	best := math.Inf(-1)
	for lag := -16; lag <= 16; lag++ {
		var sig, errp float64
		for i := skip; i < len(in)-skip; i++ {
			j := i + FrameLength + lag
			if j < 0 || j >= len(decoded) {
				continue
			}
			x := float64(in[i])
			d := decoded[j] - x
			sig += x * x
			errp += d * d
		}
		best = max(best, 10*math.Log10(sig/errp))
	}
	return best
}

// harmonics returns a mono signal of several partials below 6 kHz.
func harmonics(frames, sampleRate int) []int16 {
	x := make([]int16, frames)
	for i := range x {
		v := 0.0
		for k, f := range []float64{220, 530, 1170, 1890, 2440, 3310, 4170, 5230} {
			v += 1800 / float64(k+1) * math.Sin(2*math.Pi*f*float64(i)/float64(sampleRate)+float64(k))
		}
		x[i] = int16(v)
	}
	return x
}

func TestRoundTrip_SNRRises(t *testing.T) {
	const frames = 40
	in := harmonics(frames*FrameLength, 44100)
	tests := []struct {
		name    string
		mutates []func(*Configuration)
		minTop  float64 // Lowest SNR accepted for the finest setting
	}{
		{"bit rate", []func(*Configuration){
			func(c *Configuration) { c.BitRate = 64000 },
			func(c *Configuration) { c.BitRate = 128000 },
			func(c *Configuration) { c.BitRate = 256000 },
		}, 30},
		{"quality", []func(*Configuration){
			func(c *Configuration) { c.QuantQual = 50 },
			func(c *Configuration) { c.QuantQual = 100 },
			func(c *Configuration) { c.QuantQual = 400 },
		}, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []float64
			for _, mutate := range tt.mutates {
				enc := newEncoder(t, 44100, 1, func(c *Configuration) {
					c.PNSLevel = 0
					mutate(c)
				})
				pcm, _ := decodeUnits(t, encodeAll(t, enc, in))
				got = append(got, snr(in, pcm))
			}
			for i := 1; i < len(got); i++ {
				if got[i] < got[i-1]-0.5 {
					t.Errorf("SNR %v: step %d falls", got, i)
				}
			}
			if last := got[len(got)-1]; last < got[0]+6 || last < tt.minTop {
				t.Errorf("SNR %v dB, want the finest setting 6 dB above the coarsest and at least %v dB", got, tt.minTop)
			}
		})
	}
}

// windows decodes units and returns the window sequence of the first
// channel of every frame.
func windows(t *testing.T, units [][]byte) []syntax.WindowSequence {
	t.Helper()
	dec := refdec.New()
	if _, err := dec.Init(units[0]); err != nil {
		t.Fatalf("Init: %v", err)
	}
	var seqs []syntax.WindowSequence
	for i, au := range units {
		_, fi, err := dec.Decode(au)
		if err != nil {
			t.Fatalf("unit %d: %v", i, err)
		}
		seqs = append(seqs, fi.Windows[0])
	}
	return seqs
}

// click returns silence with a loud burst at sample at.
func click(n, at int) []int16 {
	x := make([]int16, n)
	for i := at; i < min(at+64, n); i++ {
		x[i] = int16(20000 * math.Sin(float64(i-at)))
	}
	return x
}

func TestBlockSwitching(t *testing.T) {
	in := click(12*FrameLength, 6*FrameLength+300)
	tests := []struct {
		name     string
		ctl      ShortCtl
		anyShort bool
		anyLong  bool
	}{
		{"normal", ShortCtlNormal, true, true},
		{"no short", ShortCtlNoShort, false, true},
		{"no long", ShortCtlNoLong, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := newEncoder(t, 44100, 1, func(c *Configuration) { c.ShortCtl = tt.ctl })
			seqs := windows(t, encodeAll(t, enc, in))

			var short, long bool
			for i, s := range seqs {
				switch s {
				case syntax.EightShortSequence:
					short = true
				case syntax.OnlyLongSequence:
					long = true
				}
				if i > 0 && !validTransition(seqs[i-1], s) {
					t.Errorf("frame %d: %v after %v", i, s, seqs[i-1])
				}
			}
			if short != tt.anyShort || long != tt.anyLong {
				t.Errorf("sequences %v: short %v long %v, want %v %v", seqs, short, long, tt.anyShort, tt.anyLong)
			}
		})
	}
}

// validTransition reports whether the window slopes of a and b overlap.
func validTransition(a, b syntax.WindowSequence) bool {
	shortEnd := a == syntax.LongStartSequence || a == syntax.EightShortSequence
	shortStart := b == syntax.EightShortSequence || b == syntax.LongStopSequence
	return shortEnd == shortStart
}

func TestRoundTrip_ShortBlocksPreserveLevel(t *testing.T) {
	const frames = 16
	enc := newEncoder(t, 44100, 2, func(c *Configuration) { c.ShortCtl = ShortCtlNoLong })
	units := encodeAll(t, enc, tone(frames*FrameLength, 44100, 6000, 1000, 3000))

	pcm, _ := decodeUnits(t, units)
	checkTone(t, "left", channel(pcm, 2, 0), 1000, 6000, 44100)
	checkTone(t, "right", channel(pcm, 2, 1), 3000, 6000, 44100)
}
