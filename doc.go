// Package aacenc provides a pure Go AAC (Advanced Audio Coding) encoder.
//
// The encoder turns interleaved PCM into MPEG-2 or MPEG-4 AAC access units,
// either raw or wrapped in ADTS headers, without CGO dependencies.
//
// # Basic Usage
//
// A session is opened for a sample rate and channel count, configured by
// fetching, changing and applying its Configuration, then fed one frame of
// input per call:
//
//	enc, err := aacenc.Open(44100, 2)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer enc.Close()
//
//	cfg, _ := enc.CurrentConfiguration()
//	cfg.BitRate = 64000 // Per channel
//	if err := enc.SetConfiguration(cfg); err != nil {
//	    log.Fatal(err)
//	}
//
//	out := make([]byte, enc.MaxOutputBytes())
//	for each block of enc.InputSamples() samples {
//	    n, err := enc.EncodeInt16(block, out)
//	    // n == 0 while the encoder fills its look-ahead
//	}
//	for {
//	    n, err := enc.EncodeInt16(nil, out) // Drain
//	    if err != nil || n == 0 {
//	        break
//	    }
//	}
//
// # Rate Control
//
// A zero BitRate selects quality mode: QuantQual scales the allowed
// quantization noise and frame sizes follow the signal. A non-zero BitRate
// selects average bit rate mode with a bit reservoir: each frame gets a
// budget from its perceptual entropy and the stream averages the
// requested rate.
//
// # Supported Formats
//
// Object Types: AAC-LC, Main and LTP are signalled; the coding tools used
// are those of AAC-LC (block switching, TNS, M/S and intensity stereo, and
// PNS for MPEG-4).
// Channel configurations: 1 to 6 channels, the sixth being LFE.
// Input Formats: 16-bit, 24-bit and 32-bit integer, 32-bit float.
//
// # Errors
//
// All errors wrap one of the Error codes and are tested with errors.Is.
// ErrBufferTooSmall is the only retryable code: the call is repeated with
// the same input and a larger output buffer. After ErrEncodingFailure the
// session only accepts Close.
//
// # Thread Safety
//
// Encoder instances are NOT safe for concurrent use. Each goroutine should
// have its own Encoder; distinct encoders share no mutable state.
package aacenc
