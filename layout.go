package aacenc

import (
	"github.com/llehouerou/go-aacenc/internal/filterbank"
	"github.com/llehouerou/go-aacenc/internal/psy"
	"github.com/llehouerou/go-aacenc/internal/quant"
	"github.com/llehouerou/go-aacenc/internal/syntax"
)

// elementLayout is one syntax element of the channel configuration.
type elementLayout struct {
	id       syntax.ElementID
	tag      uint8
	channels []int // AAC channel indices
}

// channelLayouts lists the elements of channel configurations 1 to 6 in
// stream order. Six channels are C, L, R, Ls, Rs and LFE.
var channelLayouts = [7][]elementLayout{
	1: {{syntax.IDSCE, 0, []int{0}}},
	2: {{syntax.IDCPE, 0, []int{0, 1}}},
	3: {{syntax.IDSCE, 0, []int{0}}, {syntax.IDCPE, 0, []int{1, 2}}},
	4: {{syntax.IDSCE, 0, []int{0}}, {syntax.IDCPE, 0, []int{1, 2}}, {syntax.IDSCE, 1, []int{3}}},
	5: {{syntax.IDSCE, 0, []int{0}}, {syntax.IDCPE, 0, []int{1, 2}}, {syntax.IDCPE, 1, []int{3, 4}}},
	6: {{syntax.IDSCE, 0, []int{0}}, {syntax.IDCPE, 0, []int{1, 2}}, {syntax.IDCPE, 1, []int{3, 4}}, {syntax.IDLFE, 0, []int{5}}},
}

// channelState is the per channel encoder state.
type channelState struct {
	lfe bool

	attack     psy.AttackDetector
	curAttack  bool // Attack in the current block
	nextAttack bool // Attack in the block after the current one
	detected   bool // nextAttack is valid

	model psy.Model
	res   psy.Result

	spec    []float64 // Spectrum being coded
	allowed quant.Allowed
	toolSF  [syntax.MaxWindowGroups][syntax.MaxSFB]int // Tool values before quantization
}

// elementState is the per element encoder state.
type elementState struct {
	layout   elementLayout
	switcher filterbank.Switcher
	el       syntax.Element
}

// streams returns the channel streams of the element.
func (s *elementState) streams() []*syntax.ICStream {
	if s.layout.id == syntax.IDCPE {
		return []*syntax.ICStream{&s.el.ICS1, &s.el.ICS2}
	}
	return []*syntax.ICStream{&s.el.ICS1}
}
