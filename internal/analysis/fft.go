package analysis

import (
	"errors"
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/exitmap/internal/exittime"
)

var (
	ErrEmpty         = errors.New("analysis: fft of an empty signal")
	ErrIncompleteFan = errors.New("analysis: fan has directions without an exit time")
)

// FFT transforms a real signal of any positive length.
func FFT(data []float64) ([]complex128, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	return fft.FFTReal(data), nil
}

// Spectrum returns |X_k|/n for k in [0, n/2). Entry 0 is the mean.
func Spectrum(data []float64) ([]float64, error) {
	coeffs, err := FFT(data)
	if err != nil {
		return nil, err
	}
	n := float64(len(coeffs))
	ps := make([]float64, max(1, len(coeffs)/2))

	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i]) / n
	}

	return ps, nil
}

// Harmonics summarises the angular structure of one fan.
type Harmonics struct {
	Amplitudes []float64
	// Dominant is the strongest harmonic above 0, or 0 when all of them
	// vanish.
	Dominant int
	// Anisotropy is the summed amplitude of harmonics above 0 relative to
	// the mean. It is 0 for a perfectly isotropic fan.
	Anisotropy float64
}

// FanHarmonics analyses the exit times of fan. Every direction must have
// exited.
func FanHarmonics(fan *exittime.Fan) (*Harmonics, error) {
	if len(fan.Failures) > 0 || fan.Exited != len(fan.Times) {
		return nil, fmt.Errorf("%w: %d of %d exited", ErrIncompleteFan, fan.Exited, len(fan.Times))
	}

	amp, err := Spectrum(fan.Times)
	if err != nil {
		return nil, err
	}

	h := &Harmonics{Amplitudes: amp}
	rest, best := 0.0, 0.0
	for k := 1; k < len(amp); k++ {
		rest += amp[k]
		if amp[k] > best {
			best = amp[k]
			h.Dominant = k
		}
	}
	if amp[0] > 0 {
		h.Anisotropy = rest / amp[0]
	}
	return h, nil
}
