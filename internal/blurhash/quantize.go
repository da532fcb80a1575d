package blurhash

import "math"

// sizeFlag packs the component grid into one base-83 digit (0–80).
func sizeFlag(componentsX, componentsY int) int {
	return (componentsX - 1) + (componentsY-1)*9
}

// quantiseMaximum returns the max-value flag (0–82) and the AC
// normalisation magnitude derived from it.  With no AC terms the flag
// is 0 and the magnitude is 1.
func quantiseMaximum(ac [][3]float64) (int, float64) {
	if len(ac) == 0 {
		return 0, 1
	}
	var actual float64
	for _, f := range ac {
		actual = math.Max(actual, math.Abs(f[0]))
		actual = math.Max(actual, math.Abs(f[1]))
		actual = math.Max(actual, math.Abs(f[2]))
	}
	q := int(math.Max(0, math.Min(82, math.Floor(float64(actual*166)-0.5))))
	return q, float64(q+1) / 166
}

// encodeDC packs the average colour as a 24-bit sRGB integer.
func encodeDC(dc [3]float64) int {
	r := LinearToSRGB(dc[0])
	g := LinearToSRGB(dc[1])
	b := LinearToSRGB(dc[2])
	return (r << 16) | (g << 8) | b
}

// encodeAC quantises each channel to 0–18 and combines the three
// indices in base 19 (0–6858).
func encodeAC(ac [3]float64, maximum float64) int {
	r := quantiseAC(ac[0], maximum)
	g := quantiseAC(ac[1], maximum)
	b := quantiseAC(ac[2], maximum)
	return r*19*19 + g*19 + b
}

func quantiseAC(v, maximum float64) int {
	return int(math.Floor(math.Max(0, math.Min(18,
		math.Floor(float64(signPow(v/maximum, 0.5)*9)+9.5)))))
}
