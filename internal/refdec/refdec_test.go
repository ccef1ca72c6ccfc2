package refdec

import (
	"errors"
	"math"
	"testing"

	"github.com/llehouerou/go-aacenc/internal/bits"
	"github.com/llehouerou/go-aacenc/internal/filterbank"
	"github.com/llehouerou/go-aacenc/internal/quant"
	"github.com/llehouerou/go-aacenc/internal/syntax"
)

const testSRIndex = 4 // 44100 Hz

func sine(n int, freq, amp float64) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/44100)
	}
	return x
}

// blocks returns the 2048-sample analysis block of every frame of x: one
// frame of silence ahead of the signal, as the encoder frames its input.
func blocks(x []float64) [][]float64 {
	frames := (len(x)+longSize-1)/longSize + 1
	padded := make([]float64, (frames+1)*longSize)
	copy(padded[longSize:], x)
	out := make([][]float64, frames)
	for j := range out {
		out[j] = padded[j*longSize : j*longSize+2*longSize]
	}
	return out
}

// encodeSCE codes one ONLY_LONG mono frame with about 25 dB SNR per band
// and returns it with an ADTS header.
func encodeSCE(t *testing.T, fb *filterbank.FilterBank, block []float64) []byte {
	t.Helper()
	spec := make([]float64, longSize)
	fb.Analyze(syntax.OnlyLongSequence, block, spec)

	e := &syntax.Element{ID: syntax.IDSCE}
	ics := &e.ICS1
	ics.WindowSequence = syntax.OnlyLongSequence
	if err := syntax.WindowGroupingInfo(ics, testSRIndex); err != nil {
		t.Fatal(err)
	}
	ics.MaxSFB = ics.NumSWB

	var allowed quant.Allowed
	for sfb := 0; sfb < ics.MaxSFB; sfb++ {
		energy := 0.0
		for _, v := range spec[ics.SWBOffset[sfb]:ics.SWBOffset[sfb+1]] {
			energy += v * v
		}
		allowed[0][sfb] = energy/300 + 1
	}
	quant.Quantize(&quant.Channel{ICS: ics, Spec: spec, Allowed: &allowed}, 1)
	syntax.BuildSections(ics)

	var payload bits.Writer
	if err := syntax.WriteElement(&payload, e); err != nil {
		t.Fatal(err)
	}
	syntax.WriteEnd(&payload)

	h := syntax.ADTSHeader{
		ProtectionAbsent:     true,
		Profile:              1,
		SFIndex:              testSRIndex,
		ChannelConfiguration: 1,
		ADTSBufferFullness:   syntax.ADTSBufferFullnessVBR,
	}
	h.AACFrameLength = uint16(syntax.ADTSHeaderSize + len(payload.Bytes()))
	var w bits.Writer
	if err := h.Write(&w); err != nil {
		t.Fatal(err)
	}
	return append(w.Bytes(), payload.Bytes()...)
}

func TestSynthesis_TDAC(t *testing.T) {
	seqs := []syntax.WindowSequence{
		syntax.OnlyLongSequence,
		syntax.LongStartSequence,
		syntax.EightShortSequence,
		syntax.EightShortSequence,
		syntax.LongStopSequence,
		syntax.OnlyLongSequence,
	}
	x := make([]float64, (len(seqs)-1)*longSize)
	for i := range x {
		x[i] = 8000*math.Sin(0.013*float64(i)) + 500*math.Cos(float64(i)*0.9)
	}

	fb := filterbank.NewFilterBank()
	s := newSynthesis()
	spec := make([]float64, longSize)
	out := make([]float64, longSize)
	var got []float64
	for j, b := range blocks(x) {
		fb.Analyze(seqs[j], b, spec)
		s.run(seqs[j], spec, out)
		got = append(got, out...)
	}

	// Output frame j holds input samples of frame j-1.
	maxErr := 0.0
	for i, v := range x {
		maxErr = math.Max(maxErr, math.Abs(got[longSize+i]-v))
	}
	if maxErr > 1e-6 {
		t.Errorf("max reconstruction error = %g, want < 1e-6", maxErr)
	}
	for i := 0; i < longSize; i++ {
		if math.Abs(got[i]) > 1e-9 {
			t.Fatalf("first frame sample %d = %g, want 0", i, got[i])
		}
	}
}

func TestDecodeADTS_ToneRoundTrip(t *testing.T) {
	x := sine(6*longSize, 1000, 10000)
	fb := filterbank.NewFilterBank()
	var stream []byte
	for _, b := range blocks(x) {
		stream = append(stream, encodeSCE(t, fb, b)...)
	}

	pcm, info, err := DecodeADTS(stream)
	if err != nil {
		t.Fatal(err)
	}
	if info.SampleRate != 44100 || info.Channels != 1 || info.ObjectType != objectTypeLC || !info.ADTS {
		t.Errorf("info = %+v", info)
	}
	if len(pcm) != 7*longSize {
		t.Fatalf("decoded %d samples, want %d", len(pcm), 7*longSize)
	}

	var sig, noise float64
	for i, v := range x {
		d := pcm[longSize+i] - v
		sig += v * v
		noise += d * d
	}
	if snr := 10 * math.Log10(sig/noise); snr < 15 {
		t.Errorf("SNR = %.1f dB, want >= 15", snr)
	}
}

func TestDecodeLOAS_MatchesADTS(t *testing.T) {
	x := sine(5*longSize, 700, 8000)
	fb := filterbank.NewFilterBank()
	cfg := syntax.AudioSpecificConfig{ObjectType: 2, SFIndex: testSRIndex, ChannelConfiguration: 1}
	var adts []byte
	var loas bits.Writer
	for j, b := range blocks(x) {
		frame := encodeSCE(t, fb, b)
		adts = append(adts, frame...)
		f := syntax.LOASFrame{Payload: frame[syntax.ADTSHeaderSize:]}
		if j%3 == 0 {
			f.Config = &cfg
		}
		if err := syntax.WriteLOAS(&loas, &f); err != nil {
			t.Fatal(err)
		}
	}

	want, _, err := DecodeADTS(adts)
	if err != nil {
		t.Fatal(err)
	}
	got, info, err := DecodeLOAS(loas.Bytes())
	if err != nil {
		t.Fatalf("DecodeLOAS: %v", err)
	}
	if info.SampleRate != 44100 || info.Channels != 1 || info.ADTS {
		t.Errorf("info = %+v", info)
	}
	if len(got) != len(want) {
		t.Fatalf("decoded %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecodeLOAS_NeedsConfig(t *testing.T) {
	var w bits.Writer
	if err := syntax.WriteLOAS(&w, &syntax.LOASFrame{Payload: []byte{0xE0}}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := DecodeLOAS(w.Bytes()); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("error = %v, want ErrNotInitialized", err)
	}
}

func TestDecode_Errors(t *testing.T) {
	d := New()
	if _, _, err := d.Decode([]byte{0xFF, 0xF1}); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Decode before Init = %v, want ErrNotInitialized", err)
	}

	if _, err := d.Init(make([]byte, 32)); !errors.Is(err, syntax.ErrADTSSyncwordNotFound) {
		t.Errorf("Init(zeros) = %v, want ErrADTSSyncwordNotFound", err)
	}

	ssr := syntax.AudioSpecificConfig{ObjectType: 3, SFIndex: testSRIndex, ChannelConfiguration: 2}
	if _, err := d.Init2(ssr.Bytes()); !errors.Is(err, ErrObjectType) {
		t.Errorf("Init2(SSR) = %v, want ErrObjectType", err)
	}
	seven := syntax.AudioSpecificConfig{ObjectType: 2, SFIndex: testSRIndex, ChannelConfiguration: 7}
	if _, err := d.Init2(seven.Bytes()); !errors.Is(err, ErrChannelConfig) {
		t.Errorf("Init2(7 channels) = %v, want ErrChannelConfig", err)
	}

	fb := filterbank.NewFilterBank()
	frame := encodeSCE(t, fb, make([]float64, 2*longSize))
	if _, err := d.Init(frame); err != nil {
		t.Fatal(err)
	}
	if _, _, err := d.Decode(frame[:len(frame)-1]); !errors.Is(err, ErrFrameTruncated) {
		t.Errorf("Decode(truncated) = %v, want ErrFrameTruncated", err)
	}

	stereo := syntax.AudioSpecificConfig{ObjectType: 2, SFIndex: testSRIndex, ChannelConfiguration: 2}
	if _, err := d.Init2(stereo.Bytes()); err != nil {
		t.Fatal(err)
	}
	raw := frame[syntax.ADTSHeaderSize:]
	if _, _, err := d.Decode(raw); !errors.Is(err, ErrStreamChanged) {
		t.Errorf("Decode(mono into stereo) = %v, want ErrStreamChanged", err)
	}
}

func TestDecode_RawFrame(t *testing.T) {
	fb := filterbank.NewFilterBank()
	frame := encodeSCE(t, fb, sine(2*longSize, 440, 3000))
	raw := frame[syntax.ADTSHeaderSize:]

	d := New()
	asc := syntax.AudioSpecificConfig{ObjectType: 2, SFIndex: testSRIndex, ChannelConfiguration: 1}
	if _, err := d.Init2(asc.Bytes()); err != nil {
		t.Fatal(err)
	}
	pcm, fi, err := d.Decode(raw)
	if err != nil {
		t.Fatal(err)
	}
	if fi.BytesConsumed != len(raw) {
		t.Errorf("BytesConsumed = %d, want %d", fi.BytesConsumed, len(raw))
	}
	if len(pcm) != longSize || fi.Channels != 1 {
		t.Errorf("decoded %d samples on %d channels", len(pcm), fi.Channels)
	}
	if len(fi.Windows) != 1 || fi.Windows[0] != syntax.OnlyLongSequence {
		t.Errorf("Windows = %v", fi.Windows)
	}
	if d.Frames() != 1 {
		t.Errorf("Frames = %d, want 1", d.Frames())
	}
}
