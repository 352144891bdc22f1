package registry

import (
	"fmt"

	"github.com/srg/asterix/internal/bitio"
	"github.com/srg/asterix/internal/model"
)

// BDSFormat is a repetition-counted outer structure of 8-byte Mode-S Comm-B
// registers (§4.2 "BDS register"), dispatching per element on the register
// identifier carried in its last byte. The full register catalogue is
// XML-driven (§13: "do not hardcode a C++-style inlined table"); registers
// with no matching entry render as hex rather than failing the item.
type BDSFormat struct {
	Registers map[uint8]*FixedFormat
}

func (b *BDSFormat) parse(cur *bitio.Cursor) (*model.FieldValue, error) {
	repByte, err := cur.ReadBytes(1)
	if err != nil {
		return nil, err
	}
	n := int(repByte[0])

	out := model.NewArray(n)
	for i := 0; i < n; i++ {
		data, err := cur.ReadBytes(8)
		if err != nil {
			return nil, err
		}
		code := data[7]

		entry := model.NewNested()
		entry.Set("register", model.String(fmt.Sprintf("%02x", code)))

		layout, known := b.Registers[code]
		if !known {
			entry.Set("data", model.Bytes(append([]byte(nil), data...)))
			out.Append(entry)
			continue
		}

		decoded, err := layout.decode(data)
		if err != nil {
			return nil, err
		}
		entry.Set("data", decoded)
		out.Append(entry)
	}
	return out, nil
}
