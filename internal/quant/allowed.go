package quant

import (
	"math"

	"github.com/llehouerou/go-aacenc/internal/psy"
	"github.com/llehouerou/go-aacenc/internal/syntax"
)

// FromPsy sets the allowed noise of every group band of ics from the per
// window thresholds in res: the quietest window of the group sets the
// noise level of all its windows.
func FromPsy(ics *syntax.ICStream, res *psy.Result, allowed *Allowed) {
	for g := 0; g < ics.NumWindowGroups; g++ {
		first := ics.GroupStart(g)
		n := ics.WindowGroupLength[g]
		for sfb := 0; sfb < ics.MaxSFB; sfb++ {
			m := math.Inf(1)
			for w := first; w < first+n; w++ {
				m = math.Min(m, res.Threshold[w][sfb])
			}
			allowed[g][sfb] = m * float64(n)
		}
	}
}

// MidSide adjusts the allowed noise of a channel pair for the bands left
// codes as M/S. Noise in M and S adds up in both output channels, so each
// gets half of the lower of the two channel allowances.
func MidSide(left *syntax.ICStream, l, r *Allowed) {
	if left.MSMaskPresent == 0 {
		return
	}
	for g := 0; g < left.NumWindowGroups; g++ {
		for sfb := 0; sfb < left.MaxSFB; sfb++ {
			if left.MSMaskPresent != 2 && !left.MSUsed[g][sfb] {
				continue
			}
			a := math.Min(l[g][sfb], r[g][sfb]) / 2
			l[g][sfb], r[g][sfb] = a, a
		}
	}
}
