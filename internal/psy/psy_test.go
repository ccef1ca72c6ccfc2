package psy

import (
	"math"
	"testing"

	"github.com/llehouerou/go-aacenc/internal/syntax"
)

func longStream() *syntax.ICStream {
	return &syntax.ICStream{WindowSequence: syntax.OnlyLongSequence}
}

func sineBlock(amp, freq float64, start int) []float64 {
	block := make([]float64, 2048)
	for i := range block {
		block[i] = amp * math.Sin(2*math.Pi*freq*float64(start+i)/44100)
	}
	return block
}

func TestAttackDetector(t *testing.T) {
	t.Run("steady tone", func(t *testing.T) {
		var d AttackDetector
		for j := 0; j < 6; j++ {
			got := d.Detect(sineBlock(10000, 440, j*1024))
			if j > 0 && got {
				t.Errorf("block %d: attack in a steady tone", j)
			}
		}
	})

	t.Run("silence", func(t *testing.T) {
		var d AttackDetector
		for j := 0; j < 3; j++ {
			if d.Detect(make([]float64, 2048)) {
				t.Errorf("block %d: attack in silence", j)
			}
		}
	})

	t.Run("burst after silence", func(t *testing.T) {
		var d AttackDetector
		d.Detect(make([]float64, 2048))
		block := make([]float64, 2048)
		for i := 1200; i < 2048; i++ {
			block[i] = 20000 * math.Sin(float64(i))
		}
		if !d.Detect(block) {
			t.Error("burst not detected")
		}
	})

	t.Run("reset", func(t *testing.T) {
		var d AttackDetector
		d.Detect(sineBlock(10000, 440, 0))
		d.Reset()
		if d.mean != 0 || d.prev != 0 {
			t.Error("Reset kept history")
		}
	})
}

func TestGrouping(t *testing.T) {
	tests := []struct {
		name  string
		amps  [8]float64
		wants []int
	}{
		{"flat", [8]float64{100, 100, 100, 100, 100, 100, 100, 100}, []int{8}},
		{"silent", [8]float64{}, []int{8}},
		{"burst", [8]float64{0, 0, 0, 0, 0, 100, 100, 0}, []int{5, 2, 1}},
		{"slow rise", [8]float64{100, 150, 200, 250, 300, 350, 400, 450}, []int{8}},
		{"step", [8]float64{10, 10, 400, 400, 400, 400, 400, 400}, []int{2, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := make([]float64, 1024)
			for w, a := range tt.amps {
				for i := 0; i < 128; i++ {
					spec[w*128+i] = a
				}
			}
			got := Grouping(spec)
			if len(got) != len(tt.wants) {
				t.Fatalf("Grouping = %v, want %v", got, tt.wants)
			}
			for i := range got {
				if got[i] != tt.wants[i] {
					t.Fatalf("Grouping = %v, want %v", got, tt.wants)
				}
			}
		})
	}
}

func TestBark(t *testing.T) {
	tests := []struct {
		f, want, tol float64
	}{
		{0, 0, 1e-12},
		{1000, 8.5, 0.2},
		{10000, 22.4, 0.5},
	}
	for _, tt := range tests {
		if got := bark(tt.f); math.Abs(got-tt.want) > tt.tol {
			t.Errorf("bark(%v) = %v, want %v", tt.f, got, tt.want)
		}
	}
}

func TestATH(t *testing.T) {
	if athMinDB > -3 || athMinDB < -6 {
		t.Errorf("athMinDB = %v, want about -5", athMinDB)
	}
	if athDB(100) <= athDB(1000) || athDB(16000) <= athDB(1000) {
		t.Error("threshold of hearing is not lowest in the midrange")
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New(len(Names), 44100); err != ErrUnknownModel {
		t.Errorf("New(%d) error = %v, want ErrUnknownModel", len(Names), err)
	}
	if _, err := New(ModelTonal, 44000); err != ErrSampleRate {
		t.Errorf("New at 44000 Hz error = %v, want ErrSampleRate", err)
	}
}

// testSpectrum holds a tone in band 20 and noise in band 40.
func testSpectrum(t *testing.T, ics *syntax.ICStream) []float64 {
	t.Helper()
	if err := syntax.WindowGroupingInfo(ics, 4); err != nil {
		t.Fatal(err)
	}
	spec := make([]float64, 1024)
	spec[ics.SWBOffset[20]+2] = 1e6
	s := uint32(1)
	for i := ics.SWBOffset[40]; i < ics.SWBOffset[41]; i++ {
		s = s*1664525 + 1013904223
		spec[i] = float64(int32(s)) / (1 << 31) * 1e5
	}
	return spec
}

func TestTonalModel(t *testing.T) {
	m, err := New(ModelTonal, 44100)
	if err != nil {
		t.Fatal(err)
	}
	ics := longStream()
	spec := testSpectrum(t, ics)
	var res Result
	m.Analyze(ics, spec, &res)

	tone, noise := 20, 40
	toneRatio := res.Energy[0][tone] / res.Threshold[0][tone]
	noiseRatio := res.Energy[0][noise] / res.Threshold[0][noise]
	if toneRatio <= noiseRatio {
		t.Errorf("tone SMR %v not above noise SMR %v", toneRatio, noiseRatio)
	}
	if toneRatio < 10 {
		t.Errorf("tone SMR = %v, want above 10", toneRatio)
	}
	if res.PE <= 0 {
		t.Errorf("PE = %v, want > 0", res.PE)
	}

	bi := m.(*tonalModel).long
	for b := range bi.width {
		if res.Threshold[0][b] < bi.ath[b] {
			t.Errorf("band %d threshold %v below ATH %v", b, res.Threshold[0][b], bi.ath[b])
		}
	}
}

func TestTonalModel_PreEcho(t *testing.T) {
	m, _ := New(ModelTonal, 44100)
	ics := longStream()
	quiet := testSpectrum(t, ics)
	for i := range quiet {
		quiet[i] *= 1e-3
	}
	var res Result
	m.Analyze(ics, quiet, &res)
	prev := res.Threshold[0]

	loud := testSpectrum(t, ics)
	m.Analyze(ics, loud, &res)
	bi := m.(*tonalModel).long
	for b := range bi.width {
		limit := math.Max(preEchoGrowth*prev[b], bi.ath[b])
		if res.Threshold[0][b] > limit*(1+1e-12) {
			t.Errorf("band %d threshold %v above pre-echo limit %v", b, res.Threshold[0][b], limit)
		}
	}
}

func TestFixedModel(t *testing.T) {
	m, err := New(ModelFixed, 44100)
	if err != nil {
		t.Fatal(err)
	}
	ics := longStream()
	spec := testSpectrum(t, ics)
	var res Result
	m.Analyze(ics, spec, &res)

	want := res.Energy[0][20] * math.Pow(10, -fixedSMR/10)
	if math.Abs(res.Threshold[0][20]-want) > want*1e-12 {
		t.Errorf("threshold = %v, want %v", res.Threshold[0][20], want)
	}
}

func TestModels_ShortWindows(t *testing.T) {
	for idx := range Names {
		m, _ := New(idx, 48000)
		ics := &syntax.ICStream{WindowSequence: syntax.EightShortSequence}
		if err := syntax.WindowGroupingInfo(ics, 3); err != nil {
			t.Fatal(err)
		}
		spec := make([]float64, 1024)
		for w := 0; w < 8; w++ {
			spec[w*128+10] = float64(w+1) * 1e4
		}
		var res Result
		m.Analyze(ics, spec, &res)
		for w := 0; w < 8; w++ {
			if res.Energy[w][ics.NumSWB-1] != 0 {
				t.Errorf("model %d window %d: energy in empty band", idx, w)
			}
			for b := 0; b < ics.NumSWB; b++ {
				if res.Threshold[w][b] <= 0 {
					t.Errorf("model %d window %d band %d: threshold %v", idx, w, b, res.Threshold[w][b])
				}
			}
		}
	}
}
