package syntax

import "github.com/llehouerou/go-aacenc/internal/huffman"

// ICStream represents an Individual Channel Stream: the window layout,
// codebook and scalefactor assignment, tool data and quantized spectrum of
// one channel in one frame.
//
// Spectral values are stored window-major: window w of an EIGHT_SHORT frame
// owns Quant[w*128 : (w+1)*128]. The writer and parser take care of the
// group interleaving used in the bitstream.
type ICStream struct {
	// Window configuration
	WindowSequence      WindowSequence         // Window sequence type
	WindowShape         uint8                  // Window shape (0=sine, 1=KBD)
	MaxSFB              int                    // Number of transmitted bands
	NumSWB              int                    // Number of scale factor bands
	NumWindows          int                    // 1 for long, 8 for short
	NumWindowGroups     int                    // 1 for long, 1-8 for short
	WindowGroupLength   [MaxWindowGroups]int   // Number of windows per group
	ScaleFactorGrouping uint8                  // 7-bit grouping pattern
	SWBOffset           []int                  // Band offsets, NumSWB+1 entries

	GlobalGain int // First spectral scalefactor (0-255)

	// SFBCB holds the codebook per group and band. ScaleFactors holds the
	// scalefactor for spectral bands, the intensity position for IS bands
	// and the noise energy for PNS bands.
	SFBCB        [MaxWindowGroups][MaxSFB]huffman.Codebook
	ScaleFactors [MaxWindowGroups][MaxSFB]int

	// Section data, derived from SFBCB by BuildSections or read by
	// ParseSectionData.
	NumSec    [MaxWindowGroups]int
	SectCB    [MaxWindowGroups][MaxSFB]huffman.Codebook
	SectStart [MaxWindowGroups][MaxSFB]int
	SectEnd   [MaxWindowGroups][MaxSFB]int

	// M/S stereo info. Only meaningful on the first stream of a CPE with
	// common window.
	MSMaskPresent uint8                          // 0=none, 1=per-band, 2=all
	MSUsed        [MaxWindowGroups][MaxSFB]bool  // M/S mask per band

	// Tool usage flags
	NoiseUsed      bool // PNS bands present
	IsUsed         bool // Intensity stereo bands present
	TNSDataPresent bool // TNS data follows
	TNS            TNSInfo

	Quant [FrameLength]int16 // Quantized spectrum
}

// Reset clears the stream for reuse while keeping the band table.
func (ics *ICStream) Reset() {
	*ics = ICStream{SWBOffset: ics.SWBOffset}
}

// BandWidth returns the width in lines of band sfb in one window.
func (ics *ICStream) BandWidth(sfb int) int {
	return ics.SWBOffset[sfb+1] - ics.SWBOffset[sfb]
}

// GroupStart returns the index of the first window of group g.
func (ics *ICStream) GroupStart(g int) int {
	w := 0
	for i := 0; i < g; i++ {
		w += ics.WindowGroupLength[i]
	}
	return w
}

// WindowLength returns the number of spectral lines per window.
func (ics *ICStream) WindowLength() int {
	if ics.WindowSequence == EightShortSequence {
		return ShortLength
	}
	return FrameLength
}

// Band returns the quantized lines of band sfb in window w.
func (ics *ICStream) Band(w, sfb int) []int16 {
	base := w * ics.WindowLength()
	return ics.Quant[base+ics.SWBOffset[sfb] : base+ics.SWBOffset[sfb+1]]
}
