package tables

// Scalefactor band offsets for 1024-line long windows. Each table ends with
// the total line count, so a table with n+1 entries describes n bands.
var (
	long96 = []int{
		0, 4, 8, 12, 16, 20, 24, 28, 32, 36, 40, 44, 48, 52, 56, 64,
		72, 80, 88, 96, 108, 120, 132, 144, 156, 172, 188, 212, 240, 276, 320, 384,
		448, 512, 576, 640, 704, 768, 832, 896, 960, 1024,
	}
	long64 = []int{
		0, 4, 8, 12, 16, 20, 24, 28, 32, 36, 40, 44, 48, 52, 56, 64,
		72, 80, 88, 100, 112, 124, 140, 156, 172, 192, 216, 240, 268, 304, 344, 384,
		424, 464, 504, 544, 584, 624, 664, 704, 744, 784, 824, 864, 904, 944, 984, 1024,
	}
	long48 = []int{
		0, 4, 8, 12, 16, 20, 24, 28, 32, 36, 40, 48, 56, 64, 72, 80,
		88, 96, 108, 120, 132, 144, 160, 176, 196, 216, 240, 264, 292, 320, 352, 384,
		416, 448, 480, 512, 544, 576, 608, 640, 672, 704, 736, 768, 800, 832, 864, 896,
		928, 1024,
	}
	long32 = []int{
		0, 4, 8, 12, 16, 20, 24, 28, 32, 36, 40, 48, 56, 64, 72, 80,
		88, 96, 108, 120, 132, 144, 160, 176, 196, 216, 240, 264, 292, 320, 352, 384,
		416, 448, 480, 512, 544, 576, 608, 640, 672, 704, 736, 768, 800, 832, 864, 896,
		928, 960, 992, 1024,
	}
	long24 = []int{
		0, 4, 8, 12, 16, 20, 24, 28, 32, 36, 40, 44, 52, 60, 68, 76,
		84, 92, 100, 108, 116, 124, 136, 148, 160, 172, 188, 204, 220, 240, 260, 284,
		308, 336, 364, 396, 432, 468, 508, 552, 600, 652, 704, 768, 832, 896, 960, 1024,
	}
	long16 = []int{
		0, 8, 16, 24, 32, 40, 48, 56, 64, 72, 80, 88, 100, 112, 124, 136,
		148, 160, 172, 184, 196, 212, 228, 244, 260, 280, 300, 320, 344, 368, 396, 424,
		456, 492, 532, 572, 616, 664, 716, 772, 832, 896, 960, 1024,
	}
	long8 = []int{
		0, 12, 24, 36, 48, 60, 72, 84, 96, 108, 120, 132, 144, 156, 172, 188,
		204, 220, 236, 252, 268, 288, 308, 328, 348, 372, 396, 420, 448, 476, 508, 544,
		580, 620, 664, 712, 764, 820, 880, 944, 1024,
	}
)

// Scalefactor band offsets for 128-line short windows.
var (
	short96 = []int{0, 4, 8, 12, 16, 20, 24, 32, 40, 48, 64, 92, 128}
	short48 = []int{0, 4, 8, 12, 16, 20, 28, 36, 44, 56, 68, 80, 96, 112, 128}
	short24 = []int{0, 4, 8, 12, 16, 20, 24, 28, 36, 44, 52, 64, 76, 92, 108, 128}
	short16 = []int{0, 4, 8, 12, 16, 20, 24, 28, 32, 40, 48, 60, 72, 88, 108, 128}
	short8  = []int{0, 4, 8, 12, 16, 20, 24, 28, 36, 44, 52, 60, 72, 88, 108, 128}
)

var longBands = [12][]int{
	long96, long96, long64, long48, long48, long32,
	long24, long24, long16, long16, long16, long8,
}

// The 64 kHz short layout equals the 96 kHz one.
var shortBands = [12][]int{
	short96, short96, short96, short48, short48, short48,
	short24, short24, short16, short16, short16, short8,
}

// SWBOffsets returns the band offset table for a sampling frequency index.
// The returned slice must not be modified. It returns nil for an invalid
// index.
func SWBOffsets(srIndex int, short bool) []int {
	if srIndex < 0 || srIndex >= len(longBands) {
		return nil
	}
	if short {
		return shortBands[srIndex]
	}
	return longBands[srIndex]
}

// NumSWB returns the number of scalefactor bands, or 0 for an invalid index.
func NumSWB(srIndex int, short bool) int {
	off := SWBOffsets(srIndex, short)
	if off == nil {
		return 0
	}
	return len(off) - 1
}
