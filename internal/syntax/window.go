package syntax

import "github.com/llehouerou/go-aacenc/internal/tables"

// WindowGroupingInfo calculates window grouping information for an ICS.
// It sets up the number of windows, window groups, and SFB offsets
// based on the window sequence, the grouping bits and the sample rate.
func WindowGroupingInfo(ics *ICStream, srIndex int) error {
	if srIndex < 0 || srIndex >= len(tables.SampleRates) {
		return ErrInvalidSRIndex
	}

	switch ics.WindowSequence {
	case OnlyLongSequence, LongStartSequence, LongStopSequence:
		ics.NumWindows = 1
		ics.NumWindowGroups = 1
		ics.WindowGroupLength[0] = 1
		ics.SWBOffset = tables.SWBOffsets(srIndex, false)
	case EightShortSequence:
		ics.NumWindows = MaxWindows
		ics.NumWindowGroups = 1
		ics.WindowGroupLength[0] = 1
		ics.SWBOffset = tables.SWBOffsets(srIndex, true)

		// Bit 6-i clear means window i+1 starts a new group.
		for i := 0; i < MaxWindows-1; i++ {
			if ics.ScaleFactorGrouping&(1<<(6-i)) == 0 {
				ics.NumWindowGroups++
				ics.WindowGroupLength[ics.NumWindowGroups-1] = 1
			} else {
				ics.WindowGroupLength[ics.NumWindowGroups-1]++
			}
		}
	default:
		return ErrInvalidWindowSequence
	}

	ics.NumSWB = len(ics.SWBOffset) - 1
	if ics.MaxSFB > ics.NumSWB {
		return ErrMaxSFBTooLarge
	}
	return nil
}

// GroupingBits returns the scale_factor_grouping pattern for the given
// group lengths, which must sum to 8.
func GroupingBits(lengths []int) uint8 {
	var bits uint8
	w := 0
	for _, n := range lengths {
		// Every window after the first of a group sets its bit.
		for i := 1; i < n; i++ {
			bits |= 1 << (6 - (w + i - 1))
		}
		w += n
	}
	return bits
}
