package registry

import (
	"github.com/srg/asterix/internal/bitio"
	"github.com/srg/asterix/internal/model"
)

// CompoundSubField names one entry in a Compound's declaration order; its
// position (not its name) is what the primary subfield's presence bits
// index into (§4.2 "Compound").
type CompoundSubField struct {
	Name   string
	Format *FormatDescriptor
}

// CompoundFormat is a primary-subfield presence bitmap (FX-chained on each
// byte's LSB, same mechanism as Variable) followed by one sub-descriptor
// per bit that is set, in declaration order.
type CompoundFormat struct {
	SubFields []*CompoundSubField
}

func (c *CompoundFormat) parse(cur *bitio.Cursor) (*model.FieldValue, error) {
	var present []bool
	for {
		b, err := cur.ReadBytes(1)
		if err != nil {
			return nil, err
		}
		byteVal := b[0]
		for bitPos := 8; bitPos >= 2; bitPos-- {
			present = append(present, (byteVal>>uint(bitPos-1))&1 != 0)
		}
		if byteVal&0x01 == 0 {
			break
		}
	}

	out := model.NewNested()
	for i, sub := range c.SubFields {
		if i >= len(present) || !present[i] {
			continue
		}
		fv, err := sub.Format.Parse(cur)
		if err != nil {
			return nil, err
		}
		out.Set(sub.Name, fv)
	}

	for i := len(c.SubFields); i < len(present); i++ {
		if present[i] {
			return nil, &UnknownSubfieldError{Bit: i + 1}
		}
	}

	return out, nil
}
