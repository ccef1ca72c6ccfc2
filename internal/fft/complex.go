package fft

// Complex is a complex number with float64 parts.
type Complex struct {
	Re float64
	Im float64
}

// Mul returns a*b.
func Mul(a, b Complex) Complex {
	return Complex{
		Re: a.Re*b.Re - a.Im*b.Im,
		Im: a.Re*b.Im + a.Im*b.Re,
	}
}

// ComplexMult multiplies (x1 + i*x2) by the conjugate of (c1 + i*c2):
//
//	y1 = x1*c1 + x2*c2
//	y2 = x2*c1 - x1*c2
func ComplexMult(x1, x2, c1, c2 float64) (y1, y2 float64) {
	y1 = x1*c1 + x2*c2
	y2 = x2*c1 - x1*c2
	return
}
