package blurhash

import "math"

// toLinear maps every 8-bit sRGB sample to linear light.  Built once at
// init; read-only afterwards, so concurrent Encode calls share it freely.
var toLinear [256]float64

func init() {
	for i := range toLinear {
		toLinear[i] = srgbToLinear(i)
	}
}

func srgbToLinear(sample int) float64 {
	v := float64(sample) / 255
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// SRGBToLinear converts an 8-bit sRGB channel sample to linear light in [0, 1].
func SRGBToLinear(sample uint8) float64 {
	return toLinear[sample]
}

// LinearToSRGB converts a linear-light value to an 8-bit sRGB sample.
// Input is clamped to [0, 1].  Rounding is half-up (add 0.5, truncate),
// not math.Round, so the DC term matches other encoders bit for bit.
func LinearToSRGB(value float64) int {
	v := math.Max(0, math.Min(1, value))
	if v <= 0.0031308 {
		return int(float64(v*12.92*255) + 0.5)
	}
	return int(float64((float64(1.055*math.Pow(v, 1/2.4))-0.055)*255) + 0.5)
}

// signPow raises |value| to exp and restores the sign of value.
func signPow(value, exp float64) float64 {
	return math.Copysign(math.Pow(math.Abs(value), exp), value)
}
