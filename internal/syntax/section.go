package syntax

import (
	"github.com/llehouerou/go-aacenc/internal/bits"
	"github.com/llehouerou/go-aacenc/internal/huffman"
)

func sectionBits(ics *ICStream) uint {
	if ics.WindowSequence == EightShortSequence {
		return 3
	}
	return 5
}

// SectionHeaderBits returns the size of the codebook and length fields that
// open a section shorter than the length escape.
func SectionHeaderBits(ics *ICStream) int {
	return 4 + int(sectionBits(ics))
}

// BuildSections merges runs of equal codebooks in SFBCB into sections.
func BuildSections(ics *ICStream) {
	for g := 0; g < ics.NumWindowGroups; g++ {
		n := 0
		for sfb := 0; sfb < ics.MaxSFB; {
			cb := ics.SFBCB[g][sfb]
			end := sfb + 1
			for end < ics.MaxSFB && ics.SFBCB[g][end] == cb {
				end++
			}
			ics.SectCB[g][n] = cb
			ics.SectStart[g][n] = sfb
			ics.SectEnd[g][n] = end
			n++
			sfb = end
		}
		ics.NumSec[g] = n
	}
}

// WriteSectionData writes section_data() from the sections built by
// BuildSections.
func WriteSectionData(w *bits.Writer, ics *ICStream) {
	sectBits := sectionBits(ics)
	sectEsc := 1<<sectBits - 1

	for g := 0; g < ics.NumWindowGroups; g++ {
		for i := 0; i < ics.NumSec[g]; i++ {
			w.PutBits(uint32(ics.SectCB[g][i]), 4)
			n := ics.SectEnd[g][i] - ics.SectStart[g][i]
			for n >= sectEsc {
				w.PutBits(uint32(sectEsc), sectBits)
				n -= sectEsc
			}
			w.PutBits(uint32(n), sectBits)
		}
	}
}

// SectionDataBits returns the size of section_data() in bits.
func SectionDataBits(ics *ICStream) int {
	sectBits := int(sectionBits(ics))
	sectEsc := 1<<sectBits - 1

	total := 0
	for g := 0; g < ics.NumWindowGroups; g++ {
		for i := 0; i < ics.NumSec[g]; i++ {
			n := ics.SectEnd[g][i] - ics.SectStart[g][i]
			total += 4 + (n/sectEsc+1)*sectBits
		}
	}
	return total
}

// ParseSectionData parses section data (Table 4.4.25). Section data
// assigns Huffman codebooks to ranges of scale factor bands.
func ParseSectionData(r *bits.Reader, ics *ICStream) error {
	sectBits := sectionBits(ics)
	sectEsc := 1<<sectBits - 1

	for g := 0; g < ics.NumWindowGroups; g++ {
		k := 0
		i := 0

		for k < ics.MaxSFB {
			if r.Error() {
				return ErrBitstreamRead
			}

			cb := huffman.Codebook(r.GetBits(4))
			if cb == 12 {
				return ErrReservedCodebook
			}

			sectLen := 0
			for {
				incr := int(r.GetBits(sectBits))
				sectLen += incr
				if incr != sectEsc {
					break
				}
				if r.Error() {
					return ErrBitstreamRead
				}
			}
			if sectLen == 0 || k+sectLen > ics.MaxSFB {
				return ErrSectionLength
			}

			switch cb {
			case huffman.NoiseHCB:
				ics.NoiseUsed = true
			case huffman.IntensityHCB, huffman.IntensityHCB2:
				ics.IsUsed = true
			}

			ics.SectCB[g][i] = cb
			ics.SectStart[g][i] = k
			ics.SectEnd[g][i] = k + sectLen
			for sfb := k; sfb < k+sectLen; sfb++ {
				ics.SFBCB[g][sfb] = cb
			}

			k += sectLen
			i++
		}

		ics.NumSec[g] = i
	}

	return nil
}
