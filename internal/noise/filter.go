// ABOUTME: Biquad IIR filters for shaping the noise spectrum
// ABOUTME: Butterworth-style low/high-pass plus a gentle one-pole high-pass
package noise

import "math"

// biquad is a direct-form-1 second-order IIR section.
type biquad struct {
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
}

const butterworthQ = math.Sqrt2 / 2

// newLowPass builds a second-order Butterworth low-pass at cutoff Hz.
func newLowPass(cutoff, sampleRate float64) *biquad {
	w0 := 2 * math.Pi * cutoff / sampleRate
	alpha := math.Sin(w0) / (2 * butterworthQ)
	cosw := math.Cos(w0)

	a0 := 1 + alpha
	return &biquad{
		b0: (1 - cosw) / 2 / a0,
		b1: (1 - cosw) / a0,
		b2: (1 - cosw) / 2 / a0,
		a1: -2 * cosw / a0,
		a2: (1 - alpha) / a0,
	}
}

// newHighPass builds a second-order Butterworth high-pass at cutoff Hz.
func newHighPass(cutoff, sampleRate float64) *biquad {
	w0 := 2 * math.Pi * cutoff / sampleRate
	alpha := math.Sin(w0) / (2 * butterworthQ)
	cosw := math.Cos(w0)

	a0 := 1 + alpha
	return &biquad{
		b0: (1 + cosw) / 2 / a0,
		b1: -(1 + cosw) / a0,
		b2: (1 + cosw) / 2 / a0,
		a1: -2 * cosw / a0,
		a2: (1 - alpha) / a0,
	}
}

func (f *biquad) process(x float64) float64 {
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2, f.x1 = f.x1, x
	f.y2, f.y1 = f.y1, y
	return y
}

func (f *biquad) processBuf(buf []float64) {
	for i, x := range buf {
		buf[i] = f.process(x)
	}
}

// onePoleHighPass removes sub-bass rumble without the phase cost of a
// steeper filter.
type onePoleHighPass struct {
	a      float64
	xp, yp float64
}

func newOnePoleHighPass(cutoff, sampleRate float64) *onePoleHighPass {
	rc := 1 / (2 * math.Pi * cutoff)
	dt := 1 / sampleRate
	return &onePoleHighPass{a: rc / (rc + dt)}
}

func (f *onePoleHighPass) processBuf(buf []float64) {
	for i, x := range buf {
		y := f.a * (f.yp + x - f.xp)
		f.xp, f.yp = x, y
		buf[i] = y
	}
}
