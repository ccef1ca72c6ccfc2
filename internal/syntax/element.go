package syntax

import "github.com/llehouerou/go-aacenc/internal/bits"

// Element represents a syntax element (SCE, CPE, or LFE).
// SCE (Single Channel Element) uses only ICS1.
// CPE (Channel Pair Element) uses both ICS1 and ICS2.
// LFE (Low Frequency Effects) uses only ICS1.
type Element struct {
	ID           ElementID // IDSCE, IDCPE or IDLFE
	Tag          uint8     // Element instance tag (0-15)
	CommonWindow bool      // True if CPE shares window info

	ICS1 ICStream // First (or only) channel stream
	ICS2 ICStream // Second channel stream (CPE only)
}

// Channels returns the number of channels the element carries.
func (e *Element) Channels() int {
	if e.ID == IDCPE {
		return 2
	}
	return 1
}

// CopyWindowInfo copies the ics_info() derived fields from src to dst, as
// a common window CPE does for its second stream.
func CopyWindowInfo(dst, src *ICStream) {
	dst.WindowSequence = src.WindowSequence
	dst.WindowShape = src.WindowShape
	dst.MaxSFB = src.MaxSFB
	dst.NumSWB = src.NumSWB
	dst.NumWindows = src.NumWindows
	dst.NumWindowGroups = src.NumWindowGroups
	dst.WindowGroupLength = src.WindowGroupLength
	dst.ScaleFactorGrouping = src.ScaleFactorGrouping
	dst.SWBOffset = src.SWBOffset
}

// WriteICS writes individual_channel_stream(). Sections must have been
// built with BuildSections.
func WriteICS(w *bits.Writer, ics *ICStream, commonWindow bool) error {
	w.PutBits(uint32(ics.GlobalGain), 8)
	if !commonWindow {
		WriteICSInfo(w, ics)
	}
	WriteSectionData(w, ics)
	if err := WriteScaleFactorData(w, ics); err != nil {
		return err
	}
	w.PutBits(0, 1) // pulse_data_present
	w.PutBit(ics.TNSDataPresent)
	if ics.TNSDataPresent {
		WriteTNSData(w, ics, &ics.TNS)
	}
	w.PutBits(0, 1) // gain_control_data_present
	return WriteSpectralData(w, ics)
}

// ParseICS parses individual_channel_stream(). With commonWindow set, the
// window fields must already be filled in.
func ParseICS(r *bits.Reader, ics *ICStream, srIndex int, commonWindow bool) error {
	ics.GlobalGain = int(r.GetBits(8))
	if !commonWindow {
		if err := ParseICSInfo(r, ics, srIndex); err != nil {
			return err
		}
	}
	if err := ParseSectionData(r, ics); err != nil {
		return err
	}
	if err := DecodeScaleFactors(r, ics); err != nil {
		return err
	}
	if r.Get1Bit() != 0 { // pulse_data_present
		return ErrUnsupportedTool
	}
	ics.TNSDataPresent = r.Get1Bit() != 0
	if ics.TNSDataPresent {
		if err := ParseTNSData(r, ics, &ics.TNS); err != nil {
			return err
		}
	}
	if r.Get1Bit() != 0 { // gain_control_data_present
		return ErrUnsupportedTool
	}
	return ParseSpectralData(r, ics)
}

// WriteElement writes a complete SCE, LFE or CPE including its id.
func WriteElement(w *bits.Writer, e *Element) error {
	w.PutBits(uint32(e.ID), LenSEID)
	w.PutBits(uint32(e.Tag), LenTag)

	switch e.ID {
	case IDSCE, IDLFE:
		if e.ICS1.IsUsed {
			return ErrIntensityStereoInSCE
		}
		return WriteICS(w, &e.ICS1, false)
	case IDCPE:
		w.PutBit(e.CommonWindow)
		if e.CommonWindow {
			ics := &e.ICS1
			WriteICSInfo(w, ics)
			if ics.MSMaskPresent > 2 {
				return ErrMSMaskReserved
			}
			w.PutBits(uint32(ics.MSMaskPresent), 2)
			if ics.MSMaskPresent == 1 {
				for g := 0; g < ics.NumWindowGroups; g++ {
					for sfb := 0; sfb < ics.MaxSFB; sfb++ {
						w.PutBit(ics.MSUsed[g][sfb])
					}
				}
			}
		}
		if err := WriteICS(w, &e.ICS1, e.CommonWindow); err != nil {
			return err
		}
		return WriteICS(w, &e.ICS2, e.CommonWindow)
	default:
		return ErrUnknownElement
	}
}

// parseSingleChannelElement parses an SCE or LFE after its id.
// SCE and LFE share the same syntax, differing only in their semantic use.
func parseSingleChannelElement(r *bits.Reader, e *Element, srIndex int) error {
	e.Tag = uint8(r.GetBits(LenTag))
	if err := ParseICS(r, &e.ICS1, srIndex, false); err != nil {
		return err
	}
	// Intensity stereo is not allowed in single channel elements
	if e.ICS1.IsUsed {
		return ErrIntensityStereoInSCE
	}
	return nil
}

// parseChannelPairElement parses a CPE after its id.
func parseChannelPairElement(r *bits.Reader, e *Element, srIndex int) error {
	e.Tag = uint8(r.GetBits(LenTag))
	e.CommonWindow = r.Get1Bit() != 0

	if e.CommonWindow {
		ics := &e.ICS1
		if err := ParseICSInfo(r, ics, srIndex); err != nil {
			return err
		}
		ics.MSMaskPresent = uint8(r.GetBits(2))
		switch ics.MSMaskPresent {
		case 3:
			return ErrMSMaskReserved
		case 1:
			for g := 0; g < ics.NumWindowGroups; g++ {
				for sfb := 0; sfb < ics.MaxSFB; sfb++ {
					ics.MSUsed[g][sfb] = r.Get1Bit() != 0
				}
			}
		case 2:
			for g := 0; g < ics.NumWindowGroups; g++ {
				for sfb := 0; sfb < ics.MaxSFB; sfb++ {
					ics.MSUsed[g][sfb] = true
				}
			}
		}
		CopyWindowInfo(&e.ICS2, ics)
	}

	if err := ParseICS(r, &e.ICS1, srIndex, e.CommonWindow); err != nil {
		return err
	}
	return ParseICS(r, &e.ICS2, srIndex, e.CommonWindow)
}
