package quant

import (
	"errors"
	"math"
	"testing"

	"github.com/llehouerou/go-aacenc/internal/bits"
	"github.com/llehouerou/go-aacenc/internal/huffman"
	"github.com/llehouerou/go-aacenc/internal/psy"
	"github.com/llehouerou/go-aacenc/internal/spectrum"
	"github.com/llehouerou/go-aacenc/internal/syntax"
)

func newChannel(t *testing.T, seq syntax.WindowSequence, grouping uint8) *Channel {
	t.Helper()
	ics := &syntax.ICStream{WindowSequence: seq, ScaleFactorGrouping: grouping}
	if err := syntax.WindowGroupingInfo(ics, 4); err != nil {
		t.Fatal(err)
	}
	ics.MaxSFB = ics.NumSWB
	return &Channel{ICS: ics, Spec: make([]float64, syntax.FrameLength), Allowed: &Allowed{}}
}

// fillSpectrum writes a decaying deterministic spectrum and allows noise
// about 15 dB below each band energy.
func fillSpectrum(ch *Channel) {
	s := uint32(9)
	for i := range ch.Spec {
		s = s*1664525 + 1013904223
		amp := 1e6 / float64(1+i%ch.ICS.WindowLength())
		ch.Spec[i] = float64(int32(s)) / (1 << 31) * amp
	}
	ics := ch.ICS
	for g := 0; g < ics.NumWindowGroups; g++ {
		first := ics.GroupStart(g)
		for sfb := 0; sfb < ics.MaxSFB; sfb++ {
			e := 0.0
			for w := first; w < first+ics.WindowGroupLength[g]; w++ {
				base := w * ics.WindowLength()
				for _, v := range ch.Spec[base+ics.SWBOffset[sfb] : base+ics.SWBOffset[sfb+1]] {
					e += v * v
				}
			}
			ch.Allowed[g][sfb] = e / 30
		}
	}
}

func TestQuantizeLine(t *testing.T) {
	tests := []struct {
		a    float64
		want int
	}{
		{0, 0},
		{0.3, 0},
		{1, 1},
		{2.5198420997897464, 2},
		{14.5, 7},
	}
	for _, tt := range tests {
		if got := quantizeLine(tt.a, 1); got != tt.want {
			t.Errorf("quantizeLine(%v) = %d, want %d", tt.a, got, tt.want)
		}
	}
}

func TestMinScaleFactor(t *testing.T) {
	for _, xmax := range []float64{1, 15, 1e3, 1e6, 3e7} {
		b := band{lines: [][]float64{{xmax, -xmax / 2}}}
		sf := b.minScaleFactor()
		if q := quantizeLine(xmax, 1/spectrum.StepGain(sf)); q > huffman.MaxEscValue {
			t.Errorf("xmax %v: sf %d quantizes to %d", xmax, sf, q)
		}
		if sf > MinScaleFactor {
			if q := quantizeLine(xmax, 1/spectrum.StepGain(sf-1)); q <= huffman.MaxEscValue {
				t.Errorf("xmax %v: sf %d is not the finest legal one", xmax, sf)
			}
		}
	}
}

func TestSearchScaleFactor(t *testing.T) {
	lines := make([]float64, 32)
	for i := range lines {
		lines[i] = 1000 * math.Sin(float64(i)+0.5)
	}
	b := band{lines: [][]float64{lines}}
	e := b.energy()

	for _, ratio := range []float64{1e-1, 1e-2, 1e-3} {
		sf := b.searchScaleFactor(e * ratio)
		if sf < b.minScaleFactor() {
			t.Errorf("ratio %v: sf %d below the finest legal one", ratio, sf)
		}
		if n, _ := b.noise(sf); n > e*ratio && sf != b.minScaleFactor() {
			t.Errorf("ratio %v: noise %v above allowed %v", ratio, n, e*ratio)
		}
	}

	coarse := b.searchScaleFactor(e * 1e-1)
	fine := b.searchScaleFactor(e * 1e-3)
	if fine > coarse {
		t.Errorf("lower allowed noise chose a coarser scalefactor: %d > %d", fine, coarse)
	}
}

func checkStream(t *testing.T, ics *syntax.ICStream) {
	t.Helper()
	prev, havePrev := 0, false
	for g := 0; g < ics.NumWindowGroups; g++ {
		for sfb := 0; sfb < ics.MaxSFB; sfb++ {
			if !isCoded(ics.SFBCB[g][sfb]) {
				continue
			}
			sf := ics.ScaleFactors[g][sfb]
			if !havePrev {
				if ics.GlobalGain != sf {
					t.Errorf("GlobalGain = %d, want first scalefactor %d", ics.GlobalGain, sf)
				}
				havePrev = true
			} else if d := sf - prev; d > MaxDelta || d < -MaxDelta {
				t.Errorf("group %d band %d: delta %d", g, sfb, d)
			}
			if sf < MinScaleFactor || sf > MaxScaleFactor {
				t.Errorf("group %d band %d: scalefactor %d", g, sfb, sf)
			}
			prev = sf
		}
	}
	for i, q := range ics.Quant {
		if q > huffman.MaxEscValue || q < -huffman.MaxEscValue {
			t.Fatalf("Quant[%d] = %d", i, q)
		}
	}

	syntax.BuildSections(ics)
	var w bits.Writer
	if err := syntax.WriteICS(&w, ics, false); err != nil {
		t.Errorf("WriteICS: %v", err)
	}
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		name     string
		seq      syntax.WindowSequence
		grouping uint8
	}{
		{"long", syntax.OnlyLongSequence, 0},
		{"short", syntax.EightShortSequence, syntax.GroupingBits([]int{2, 3, 3})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := newChannel(t, tt.seq, tt.grouping)
			fillSpectrum(ch)
			Quantize(ch, 1)
			checkStream(t, ch.ICS)

			coded := 0
			for g := 0; g < ch.ICS.NumWindowGroups; g++ {
				for sfb := 0; sfb < ch.ICS.MaxSFB; sfb++ {
					if isCoded(ch.ICS.SFBCB[g][sfb]) {
						coded++
					}
				}
			}
			if coded == 0 {
				t.Fatal("no band coded")
			}

			// The reconstruction error stays near the allowed noise.
			out := make([]float64, syntax.FrameLength)
			if err := spectrum.Dequantize(ch.ICS, out); err != nil {
				t.Fatal(err)
			}
			var noise, allowed float64
			for i := range out {
				d := out[i] - ch.Spec[i]
				noise += d * d
			}
			for g := 0; g < ch.ICS.NumWindowGroups; g++ {
				for sfb := 0; sfb < ch.ICS.MaxSFB; sfb++ {
					allowed += ch.Allowed[g][sfb]
				}
			}
			if noise > 2*allowed {
				t.Errorf("noise %v far above allowed %v", noise, allowed)
			}
		})
	}
}

func TestQuantize_ZeroBands(t *testing.T) {
	ch := newChannel(t, syntax.OnlyLongSequence, 0)
	fillSpectrum(ch)
	ch.Allowed[0][3] = math.Inf(1)
	clear(ch.Spec[ch.ICS.SWBOffset[5]:ch.ICS.SWBOffset[6]])

	Quantize(ch, 1)
	for _, sfb := range []int{3, 5} {
		if ch.ICS.SFBCB[0][sfb] != huffman.ZeroHCB {
			t.Errorf("band %d codebook = %d, want ZeroHCB", sfb, ch.ICS.SFBCB[0][sfb])
		}
		for _, q := range ch.ICS.Band(0, sfb) {
			if q != 0 {
				t.Fatalf("band %d has non-zero lines", sfb)
			}
		}
	}
}

func TestQuantize_KeepsToolBands(t *testing.T) {
	ch := newChannel(t, syntax.OnlyLongSequence, 0)
	fillSpectrum(ch)
	ics := ch.ICS
	ics.SFBCB[0][30] = huffman.NoiseHCB
	ics.ScaleFactors[0][30] = 80
	ics.SFBCB[0][40] = huffman.IntensityHCB
	ics.ScaleFactors[0][40] = -3

	Quantize(ch, 1)
	if ics.SFBCB[0][30] != huffman.NoiseHCB || ics.SFBCB[0][40] != huffman.IntensityHCB {
		t.Fatal("tool codebooks overwritten")
	}
	if ics.ScaleFactors[0][40] != -3 {
		t.Errorf("intensity position = %d, want -3", ics.ScaleFactors[0][40])
	}
	for _, q := range ics.Band(0, 30) {
		if q != 0 {
			t.Fatal("noise band carries lines")
		}
	}
	checkStream(t, ics)
}

func TestQuantize_LimitsSpread(t *testing.T) {
	ch := newChannel(t, syntax.OnlyLongSequence, 0)
	ics := ch.ICS
	ics.MaxSFB = 3
	levels := []float64{1e9, 1e-3, 1e4}
	for sfb, v := range levels {
		for i := ics.SWBOffset[sfb]; i < ics.SWBOffset[sfb+1]; i++ {
			ch.Spec[i] = v
		}
	}
	ch.Allowed[0] = [syntax.MaxSFB]float64{1e10, 1e-12, 1e-12}

	Quantize(ch, 1)
	if !isCoded(ics.SFBCB[0][0]) || !isCoded(ics.SFBCB[0][2]) {
		t.Fatalf("codebooks = %v, want bands 0 and 2 coded", ics.SFBCB[0][:3])
	}
	if ics.SFBCB[0][1] != huffman.ZeroHCB {
		t.Errorf("band 1 codebook = %d, want ZeroHCB after raising", ics.SFBCB[0][1])
	}
	if got, want := ics.ScaleFactors[0][2], ics.ScaleFactors[0][0]-MaxDelta; got != want {
		t.Errorf("band 2 scalefactor = %d, want %d", got, want)
	}
	checkStream(t, ics)
}

func TestQuantize_Codebooks(t *testing.T) {
	ch := newChannel(t, syntax.OnlyLongSequence, 0)
	ics := ch.ICS
	ics.MaxSFB = 3
	for i := range ics.SWBOffset[3] {
		ch.Spec[i] = 1e5 * float64(1+i%7) / 7
		if i%2 == 1 {
			ch.Spec[i] = -ch.Spec[i]
		}
	}
	var b band
	groupBand(ics, ch.Spec, 0, 0, &b)
	ch.Allowed[0][0] = b.energy() * 1e-7
	ch.Allowed[0][1] = math.Inf(1)
	groupBand(ics, ch.Spec, 0, 2, &b)
	ch.Allowed[0][2] = b.energy() / 4

	Quantize(ch, 1)
	if ics.SFBCB[0][0] != huffman.EscHCB {
		t.Errorf("band 0 codebook = %d, want EscHCB", ics.SFBCB[0][0])
	}
	if ics.SFBCB[0][2] != huffman.PairHCB {
		t.Errorf("band 2 codebook = %d, want PairHCB", ics.SFBCB[0][2])
	}
	peak := 0
	for _, q := range ics.Band(0, 0) {
		peak = max(peak, int(q), -int(q))
	}
	if peak <= huffman.MaxPairValue {
		t.Errorf("band 0 peak = %d, want beyond the codebook 8 range", peak)
	}

	groupBand(ics, ch.Spec, 0, 0, &b)
	if n, _ := b.noise(ics.ScaleFactors[0][0]); n > ch.Allowed[0][0] {
		t.Errorf("band 0 noise %v above allowed %v", n, ch.Allowed[0][0])
	}
	checkStream(t, ics)
}

func TestMergeSections(t *testing.T) {
	ch := newChannel(t, syntax.OnlyLongSequence, 0)
	ics := ch.ICS
	ics.MaxSFB = 17
	cbs := []huffman.Codebook{
		huffman.EscHCB, huffman.PairHCB, huffman.EscHCB,
		0, 0, 0, 0, 0,
		huffman.EscHCB, huffman.PairHCB, huffman.PairHCB, huffman.PairHCB,
		huffman.PairHCB, huffman.PairHCB, huffman.PairHCB, huffman.PairHCB,
		huffman.EscHCB,
	}
	for sfb, cb := range cbs {
		ics.SFBCB[0][sfb] = cb
		v := int16(0)
		switch cb {
		case huffman.EscHCB:
			v = 20
		case huffman.PairHCB:
			v = 1
		}
		for i := range ics.Band(0, sfb) {
			ics.Band(0, sfb)[i] = v
		}
	}

	mergeSections(ch)
	// A short codebook 8 run between escape bands is folded in, a long
	// one costs more than the headers it would save.
	if ics.SFBCB[0][1] != huffman.EscHCB {
		t.Errorf("band 1 codebook = %d, want EscHCB", ics.SFBCB[0][1])
	}
	for sfb := 9; sfb < 16; sfb++ {
		if ics.SFBCB[0][sfb] != huffman.PairHCB {
			t.Errorf("band %d codebook = %d, want PairHCB", sfb, ics.SFBCB[0][sfb])
		}
	}
	for sfb := 3; sfb < 8; sfb++ {
		if ics.SFBCB[0][sfb] != huffman.ZeroHCB {
			t.Errorf("band %d codebook = %d, want ZeroHCB", sfb, ics.SFBCB[0][sfb])
		}
	}
}

func TestFitNoiseEnergies(t *testing.T) {
	ics := &syntax.ICStream{MaxSFB: 3, NumWindowGroups: 1, GlobalGain: 100}
	for sfb := 0; sfb < 3; sfb++ {
		ics.SFBCB[0][sfb] = huffman.NoiseHCB
	}
	ics.ScaleFactors[0] = [syntax.MaxSFB]int{-400, 0, 200}

	fitNoiseEnergies(ics)
	want := []int{10 - 256, 10 - 256 + MaxDelta, 10 - 256 + 2*MaxDelta}
	for sfb, w := range want {
		if got := ics.ScaleFactors[0][sfb]; got != w {
			t.Errorf("ScaleFactors[%d] = %d, want %d", sfb, got, w)
		}
	}
	var wr bits.Writer
	if err := syntax.WriteScaleFactorData(&wr, ics); err != nil {
		t.Errorf("WriteScaleFactorData: %v", err)
	}
}

func TestSetGlobalGain_NoiseOnly(t *testing.T) {
	ics := &syntax.ICStream{MaxSFB: 2, NumWindowGroups: 1}
	ics.SFBCB[0][1] = huffman.NoiseHCB
	ics.ScaleFactors[0][1] = 40
	setGlobalGain(ics)
	if ics.GlobalGain != 40+syntax.NoiseOffset {
		t.Errorf("GlobalGain = %d, want %d", ics.GlobalGain, 40+syntax.NoiseOffset)
	}
}

func TestFromPsy(t *testing.T) {
	ics := &syntax.ICStream{WindowSequence: syntax.EightShortSequence, ScaleFactorGrouping: syntax.GroupingBits([]int{3, 5})}
	if err := syntax.WindowGroupingInfo(ics, 4); err != nil {
		t.Fatal(err)
	}
	ics.MaxSFB = 2
	var res psy.Result
	for w := 0; w < 8; w++ {
		res.Threshold[w][1] = float64(10 + w)
	}
	var a Allowed
	FromPsy(ics, &res, &a)
	if a[0][1] != 30 || a[1][1] != 65 {
		t.Errorf("allowed = %v, %v, want 30, 65", a[0][1], a[1][1])
	}
}

func TestMidSide(t *testing.T) {
	left := &syntax.ICStream{MaxSFB: 2, NumWindowGroups: 1, MSMaskPresent: 1}
	left.MSUsed[0][1] = true
	l := &Allowed{{4, 8}}
	r := &Allowed{{6, 2}}
	MidSide(left, l, r)
	if l[0][0] != 4 || r[0][0] != 6 {
		t.Error("band without M/S changed")
	}
	if l[0][1] != 1 || r[0][1] != 1 {
		t.Errorf("M/S band allowed = %v, %v, want 1, 1", l[0][1], r[0][1])
	}
}

func TestSearchOffset(t *testing.T) {
	model := func(scale float64) (int, error) {
		db := 10 * math.Log10(scale)
		return int(10000 - 100*db), nil
	}

	offset, got, err := SearchOffset(model, 5000)
	if err != nil {
		t.Fatal(err)
	}
	if got > 5000 {
		t.Errorf("bits = %d, want <= 5000", got)
	}
	if offset < 49.9 || offset > 50+offsetStepsDB {
		t.Errorf("offset = %v, want about 50", offset)
	}

	if off, _, _ := SearchOffset(model, 20000); off != minOffsetDB {
		t.Errorf("ample budget offset = %v, want %v", off, minOffsetDB)
	}

	if _, _, err := SearchOffset(model, -1000); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("error = %v, want ErrFrameTooLarge", err)
	}

	boom := errors.New("boom")
	failing := func(float64) (int, error) { return 0, boom }
	if _, _, err := SearchOffset(failing, 10); err != boom {
		t.Errorf("error = %v, want %v", err, boom)
	}
}

func TestReservoir_MeanIsExact(t *testing.T) {
	const (
		bitRate    = 64000
		sampleRate = 44100
	)
	r := NewReservoir(bitRate, sampleRate, 1024, 1)
	total := 0
	for i := 0; i < sampleRate; i++ {
		r.Budget(100, false)
		total += r.mean
		r.Commit(r.mean)
	}
	if total != bitRate*1024 {
		t.Errorf("total mean bits = %d, want %d", total, bitRate*1024)
	}
}

func TestReservoir_Bounds(t *testing.T) {
	r := NewReservoir(128000, 48000, 1024, 2)
	if r.MaxFrameBits() != 2*ChannelBits {
		t.Errorf("MaxFrameBits = %d", r.MaxFrameBits())
	}
	mean := 128000 * 1024 / 48000
	if r.MaxLevel() != 2*ChannelBits-mean {
		t.Errorf("MaxLevel = %d, want %d", r.MaxLevel(), 2*ChannelBits-mean)
	}

	// Silent frames fill the reservoir, then need fill bits.
	for i := 0; i < 20; i++ {
		budget := r.Budget(0, false)
		if budget > r.MaxFrameBits() || budget > r.mean+r.Level() {
			t.Fatalf("frame %d: budget %d exceeds limits", i, budget)
		}
		used := 100
		fill := r.FillBits(used)
		r.Commit(used + fill)
		if r.Level() > r.MaxLevel() || r.Level() < 0 {
			t.Fatalf("frame %d: level %d outside [0, %d]", i, r.Level(), r.MaxLevel())
		}
		if i > 10 && fill == 0 {
			t.Errorf("frame %d: full reservoir without fill", i)
		}
	}

	// A demanding frame may take more of the saved bits.
	normal := r.Budget(100, false)
	r.Commit(normal)
	demand := r.Budget(1000, true)
	if demand <= normal {
		t.Errorf("short block budget %d not above normal %d", demand, normal)
	}
}

func TestReservoir_CarriesDebt(t *testing.T) {
	const overdraw = 3000
	r := NewReservoir(64000, 44100, 1024, 1)
	budget := r.Budget(100, false)
	r.Commit(budget + overdraw)
	if r.Level() != -overdraw {
		t.Fatalf("Level = %d, want %d", r.Level(), -overdraw)
	}

	// Following frames stay below the mean until the debt is repaid, even
	// when they ask for more.
	spent, means := 0, 0
	for i := 0; r.Level() < 0; i++ {
		if i > 100 {
			t.Fatalf("debt not repaid, level %d", r.Level())
		}
		b := r.Budget(1000, true)
		if b >= r.mean {
			t.Fatalf("frame %d: budget %d with debt %d, want below the mean %d", i, b, -r.Level(), r.mean)
		}
		r.Commit(b)
		spent += b
		means += r.mean
	}
	if got := means - spent; got < overdraw {
		t.Errorf("repaid %d bits, want at least %d", got, overdraw)
	}
}
