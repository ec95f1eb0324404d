package oto

import "math"

// FloatBufferTo16BitLE converts mono float samples to 16-bit little-endian
// integers, appending them to out. Samples outside [-1, 1] are clipped. To
// avoid allocating, pass a slice with room for 2*len(buff) bytes, e.g.
// out[:0].
func FloatBufferTo16BitLE(buff []float32, out []byte) []byte {
	for _, v := range buff {
		var uv int16
		if v < -1.0 {
			uv = -math.MaxInt16
		} else if v > 1.0 {
			uv = math.MaxInt16
		} else {
			uv = int16(v * math.MaxInt16)
		}
		out = append(out, byte(uv), byte(uv>>8))
	}
	return out
}
