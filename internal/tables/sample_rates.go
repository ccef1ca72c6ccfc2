package tables

// SampleRates maps a sampling frequency index to the rate in Hz.
// Indices 0-11 are valid.
var SampleRates = [12]uint32{
	96000, 88200, 64000, 48000, 44100, 32000,
	24000, 22050, 16000, 12000, 11025, 8000,
}

// SampleRate returns the rate for a sampling frequency index, or 0 for an
// invalid index.
func SampleRate(srIndex int) uint32 {
	if srIndex < 0 || srIndex >= len(SampleRates) {
		return 0
	}
	return SampleRates[srIndex]
}

// SRIndex returns the sampling frequency index of an exact standard rate.
func SRIndex(sampleRate uint32) (int, bool) {
	for i, r := range SampleRates {
		if r == sampleRate {
			return i, true
		}
	}
	return 0, false
}

// tnsSFBMax is the highest band TNS may reach, {long, short}, per index.
var tnsSFBMax = [12][2]int{
	{31, 9},  // 96000
	{31, 9},  // 88200
	{34, 10}, // 64000
	{40, 14}, // 48000
	{42, 14}, // 44100
	{51, 14}, // 32000
	{46, 14}, // 24000
	{46, 14}, // 22050
	{42, 14}, // 16000
	{42, 14}, // 12000
	{42, 14}, // 11025
	{39, 14}, // 8000
}

// MaxTNSSFB returns the TNS band limit for Main, LC and LTP profiles.
func MaxTNSSFB(srIndex int, short bool) int {
	if srIndex < 0 || srIndex >= len(tnsSFBMax) {
		return 0
	}
	if short {
		return tnsSFBMax[srIndex][1]
	}
	return tnsSFBMax[srIndex][0]
}
