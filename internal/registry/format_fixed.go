package registry

import (
	"github.com/srg/asterix/internal/bitio"
	"github.com/srg/asterix/internal/model"
)

// FixedFormat is a known-length byte run decoded into independent bit
// fields (§4.2 "Fixed").
type FixedFormat struct {
	LengthBytes int
	Fields      []*BitField
}

func (f *FixedFormat) parse(cur *bitio.Cursor) (*model.FieldValue, error) {
	data, err := cur.ReadBytes(f.LengthBytes)
	if err != nil {
		return nil, err
	}
	return f.decode(data)
}

// decode builds the Nested field-name -> value map for an already-read byte
// run. Exposed separately from parse so Compound/Repetitive/BDS can reuse
// it once they've located the bytes for an element.
//
// The FX extension bit (§4.2, §6.1: "is not reported as data") is consumed
// by VariableFormat.parse directly off the raw bytes for continuation
// control; it is never emitted here regardless of which part declares it.
func (f *FixedFormat) decode(data []byte) (*model.FieldValue, error) {
	out := model.NewNested()
	for _, bf := range f.Fields {
		if bf.Encoding == EncodingSpare && bf.ShortName == "" {
			continue
		}
		if isExtensionBit(bf) {
			continue
		}
		fv, err := decodeBitField(data, bf)
		if err != nil {
			return nil, err
		}
		out.Set(bf.ShortName, fv)
	}
	return out, nil
}

// isExtensionBit reports whether bf is the FX continuation bit of a
// Variable part: named "FX" and occupying bit 1, the LSB VariableFormat.parse
// reads independently of the declared Fields.
func isExtensionBit(bf *BitField) bool {
	return bf.ShortName == "FX" && bf.FromBit == 1 && bf.ToBit == 1
}
