package spectrum

import "math"

// TNSMaxOrder is the maximum TNS filter order the syntax can carry.
const TNSMaxOrder = 20

// Reflection coefficient quantizer steps for 4-bit resolution. Positive
// values use 7.5 steps per quarter turn and negative values 8.5, so that the
// index range [-8, 7] covers the full arcsine range.
const (
	tnsIQFac  = (1<<3 - 0.5) / (math.Pi / 2)
	tnsIQFacM = (1<<3 + 0.5) / (math.Pi / 2)
)

// Dequantized reflection coefficients, indexed by the transmitted value.
// Entry i of the 4-bit tables is sin(i/tnsIQFac) for i < 8 and
// sin((i-16)/tnsIQFacM) above; the 3-bit and compressed variants sign-extend
// from fewer bits.

// tnsCoef03 is used when coef_compress=0 and coef_res_bits=3
var tnsCoef03 = [16]float64{
	0.0, 0.4338837391, 0.7818314825, 0.9749279122,
	-0.9848077530, -0.8660254038, -0.6427876097, -0.3420201433,
	-0.4338837391, -0.7818314825, -0.9749279122, -0.9749279122,
	-0.9848077530, -0.8660254038, -0.6427876097, -0.3420201433,
}

// tnsCoef04 is used when coef_compress=0 and coef_res_bits=4
var tnsCoef04 = [16]float64{
	0.0, 0.2079116908, 0.4067366431, 0.5877852523,
	0.7431448255, 0.8660254038, 0.9510565163, 0.9945218954,
	-0.9957341763, -0.9618256432, -0.8951632914, -0.7980172273,
	-0.6736956436, -0.5264321629, -0.3612416662, -0.1837495178,
}

// tnsCoef13 is used when coef_compress=1 and coef_res_bits=3
var tnsCoef13 = [16]float64{
	0.0, 0.4338837391, -0.6427876097, -0.3420201433,
	0.9749279122, 0.7818314825, -0.6427876097, -0.3420201433,
	-0.4338837391, -0.7818314825, -0.6427876097, -0.3420201433,
	-0.7818314825, -0.4338837391, -0.6427876097, -0.3420201433,
}

// tnsCoef14 is used when coef_compress=1 and coef_res_bits=4
var tnsCoef14 = [16]float64{
	0.0, 0.2079116908, 0.4067366431, 0.5877852523,
	-0.6736956436, -0.5264321629, -0.3612416662, -0.1837495178,
	0.9945218954, 0.9510565163, 0.8660254038, 0.7431448255,
	-0.6736956436, -0.5264321629, -0.3612416662, -0.1837495178,
}

// allTNSCoefs is indexed by 2*coef_compress + coef_res.
var allTNSCoefs = [4]*[16]float64{
	&tnsCoef03, // compress=0, res=3
	&tnsCoef04, // compress=0, res=4
	&tnsCoef13, // compress=1, res=3
	&tnsCoef14, // compress=1, res=4
}

// getTNSCoefTable returns the table for the coef_compress and coef_res
// fields (coef_res 0 means 3-bit, 1 means 4-bit coefficients).
func getTNSCoefTable(coefCompress uint8, coefRes uint8) *[16]float64 {
	index := 0
	if coefCompress != 0 {
		index = 2
	}
	if coefRes != 0 {
		index++
	}
	return allTNSCoefs[index]
}
