package aacenc_test

import (
	"errors"
	"fmt"
	"math"

	"github.com/llehouerou/go-aacenc"
)

func Example() {
	enc, err := aacenc.Open(44100, 2)
	if err != nil {
		fmt.Printf("Open error: %v\n", err)
		return
	}
	defer enc.Close()

	cfg, _ := enc.CurrentConfiguration()
	cfg.BitRate = 64000
	if err := enc.SetConfiguration(cfg); err != nil {
		fmt.Printf("SetConfiguration error: %v\n", err)
		return
	}
	fmt.Printf("Input samples per call: %d\n", enc.InputSamples())
	fmt.Printf("Max output bytes: %d\n", enc.MaxOutputBytes())

	// One second of a 440 Hz tone on both channels.
	pcm := make([]int16, 2*44100)
	for i := 0; i < 44100; i++ {
		v := int16(8000 * math.Sin(2*math.Pi*440*float64(i)/44100))
		pcm[2*i], pcm[2*i+1] = v, v
	}

	out := make([]byte, enc.MaxOutputBytes())
	frames := 0
	for len(pcm) > 0 {
		n := min(len(pcm), enc.InputSamples())
		written, err := enc.EncodeInt16(pcm[:n], out)
		if err != nil {
			fmt.Printf("Encode error: %v\n", err)
			return
		}
		if written > 0 {
			frames++
		}
		pcm = pcm[n:]
	}
	for {
		written, err := enc.EncodeInt16(nil, out)
		if err != nil || written == 0 {
			break
		}
		frames++
	}
	fmt.Printf("Access units: %d\n", frames)

	// Output:
	// Input samples per call: 2048
	// Max output bytes: 1536
	// Access units: 45
}

func ExampleEncoder_DecoderSpecificInfo() {
	enc, _ := aacenc.Open(48000, 1)
	defer enc.Close()

	cfg, _ := enc.CurrentConfiguration()
	cfg.OutputFormat = aacenc.OutputRaw
	_ = enc.SetConfiguration(cfg)

	asc, _ := enc.DecoderSpecificInfo()
	fmt.Printf("AudioSpecificConfig: % x\n", asc)

	// Output:
	// AudioSpecificConfig: 11 88
}

func ExampleEncoder_EncodeInt16_retry() {
	enc, _ := aacenc.Open(44100, 1)
	defer enc.Close()
	cfg, _ := enc.CurrentConfiguration()
	_ = enc.SetConfiguration(cfg)

	block := make([]int16, enc.InputSamples())
	for i := range block {
		block[i] = int16(4000 * math.Sin(float64(i)/10))
	}
	small := make([]byte, 4)
	_, _ = enc.EncodeInt16(block, small) // Look-ahead, no output yet

	_, err := enc.EncodeInt16(block, small)
	fmt.Println("Buffer too small:", errors.Is(err, aacenc.ErrBufferTooSmall))

	// Repeat the call with the same samples and more room.
	n, err := enc.EncodeInt16(block, make([]byte, enc.MaxOutputBytes()))
	fmt.Println("Retry succeeded:", err == nil && n > 0)

	// Output:
	// Buffer too small: true
	// Retry succeeded: true
}
