package chart

import "math"

// YScale is a linear value-to-pixel mapping for the vertical axis.
// Pixel 0 is the top, so larger values map to smaller pixels.
type YScale struct {
	Min    float64
	Max    float64
	Height float64
}

// YDomain computes the vertical extent of the given keys over the whole
// dataset. NaN markers are skipped. An empty extent becomes [0,1]; a
// collapsed extent (min == max) is widened by pulling the bound nearest
// zero to 0, and a collapse at exactly zero becomes [0,1].
func YDomain(d Dataset, keys []string) (minVal, maxVal float64) {
	found := false
	for _, row := range d {
		for _, key := range keys {
			v, ok := row.Values[key]
			if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if !found {
				minVal, maxVal = v, v
				found = true
				continue
			}
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
	}

	switch {
	case !found:
		return 0, 1
	case minVal == maxVal && minVal == 0:
		return 0, 1
	case minVal == maxVal && minVal > 0:
		return 0, maxVal
	case minVal == maxVal:
		return minVal, 0
	}
	return minVal, maxVal
}

// NewYScale builds the vertical scale for keys over d, mapped onto [height, 0].
func NewYScale(d Dataset, keys []string, height float64) YScale {
	minVal, maxVal := YDomain(d, keys)
	return YScale{Min: minVal, Max: maxVal, Height: height}
}

// Scale maps a value to a pixel row.
func (y YScale) Scale(v float64) float64 {
	if y.Max == y.Min {
		return y.Height / 2
	}
	return y.Height - (v-y.Min)/(y.Max-y.Min)*y.Height
}

// Ticks returns roughly count evenly spaced "nice" values (multiples of
// 1, 2 or 5 times a power of ten) inside the domain.
func (y YScale) Ticks(count int) []float64 {
	if count <= 0 || y.Max <= y.Min {
		return nil
	}
	step := tickIncrement(y.Min, y.Max, count)
	if step <= 0 {
		return nil
	}
	start := math.Ceil(y.Min/step) * step
	var ticks []float64
	for v := start; v <= y.Max+step*1e-9; v += step {
		// Snap to the step grid to avoid 0.30000000000000004 style drift.
		ticks = append(ticks, math.Round(v/step)*step)
	}
	return ticks
}

// tickIncrement picks a 1/2/5 step so that (max-min)/step is close to count.
func tickIncrement(minVal, maxVal float64, count int) float64 {
	raw := (maxVal - minVal) / float64(count)
	power := math.Floor(math.Log10(raw))
	base := math.Pow(10, power)
	errRatio := raw / base

	switch {
	case errRatio >= math.Sqrt(50):
		return base * 10
	case errRatio >= math.Sqrt(10):
		return base * 5
	case errRatio >= math.Sqrt(2):
		return base * 2
	}
	return base
}
