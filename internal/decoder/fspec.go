package decoder

import "github.com/srg/asterix/internal/bitio"

// parseFSPEC reads a chained FSPEC (§4.4, §6.1): the LSB of each byte is
// the FX extension bit; the remaining 7 bits, MSB to bit-1, map to
// sequential FRNs (1..7 for the first byte, 8..14 for the second, and so
// on). It returns the FRNs whose bit was set, in ascending order, which is
// also FSPEC order (§8 "FSPEC round-trip").
func parseFSPEC(cur *bitio.Cursor) ([]int, error) {
	var frns []int
	base := 0
	for {
		b, err := cur.ReadBytes(1)
		if err != nil {
			return nil, err
		}
		v := b[0]
		for bitPos := 7; bitPos >= 1; bitPos-- {
			if v&(1<<uint(bitPos)) != 0 {
				frns = append(frns, base+(8-bitPos))
			}
		}
		base += 7
		if v&0x01 == 0 {
			break
		}
	}
	return frns, nil
}
