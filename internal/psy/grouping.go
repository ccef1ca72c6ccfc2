package psy

// Grouping parameters.
const (
	groupJump      = 4.0 // Window energy ratio that starts a new group
	groupMinEnergy = 1e4 // Windows quieter than this never start a group
)

// Grouping returns the window group lengths of an EIGHT_SHORT frame from
// its window-major spectrum: a window starts a new group when its energy
// differs from the previous window by more than a factor of four.
func Grouping(spec []float64) []int {
	var energy [subBlocks]float64
	for w := range energy {
		for _, v := range spec[w*subBlockSize : (w+1)*subBlockSize] {
			energy[w] += v * v
		}
	}

	lengths := []int{1}
	for w := 1; w < subBlocks; w++ {
		lo, hi := energy[w-1], energy[w]
		if lo > hi {
			lo, hi = hi, lo
		}
		if hi > groupJump*lo && hi > groupMinEnergy {
			lengths = append(lengths, 1)
		} else {
			lengths[len(lengths)-1]++
		}
	}
	return lengths
}
