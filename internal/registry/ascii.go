package registry

import "github.com/srg/asterix/internal/bitio"

// sixBitChar implements the ICAO-compressed six-bit alphanumeric table
// from §9: A-Z = 1..26, 0-9 = 48..57, space = 32, everything else renders
// as '?'.
func sixBitChar(v uint64) byte {
	switch {
	case v >= 1 && v <= 26:
		return byte('A' + v - 1)
	case v >= 48 && v <= 57:
		return byte('0' + v - 48)
	case v == 32:
		return ' '
	default:
		return '?'
	}
}

// decodeSixBitRun unpacks a run of six-bit characters from the spec-indexed
// bit range [from,to] and trims trailing padding spaces (§4.5).
func decodeSixBitRun(data []byte, from, to int) string {
	width := to - from + 1
	n := width / 6
	out := make([]byte, 0, n)
	// Bits closest to `to` come first in character order: the field is laid
	// out MSB-of-field-first, so walk from the high end down.
	for i := 0; i < n; i++ {
		hi := to - i*6
		lo := hi - 5
		v, err := bitio.Extract(data, lo, hi, false)
		if err != nil {
			break
		}
		out = append(out, sixBitChar(uint64(v)))
	}
	for len(out) > 0 && out[len(out)-1] == ' ' {
		out = out[:len(out)-1]
	}
	return string(out)
}

// decodeEightBitRun unpacks a run of plain ASCII bytes from the spec-indexed
// bit range.
func decodeEightBitRun(data []byte, from, to int) string {
	width := to - from + 1
	n := width / 8
	out := make([]byte, 0, n)
	for i := 0; i < n; i++ {
		hi := to - i*8
		lo := hi - 7
		v, err := bitio.Extract(data, lo, hi, false)
		if err != nil {
			break
		}
		out = append(out, byte(v))
	}
	return string(out)
}
