package registry

import (
	"github.com/srg/asterix/internal/bitio"
	"github.com/srg/asterix/internal/model"
)

// VariableFormat is a chain of fixed-width parts, FX-extended: bit 1 (the
// LSB) of every part signals whether another part follows (§4.2
// "Variable"). The FX bit itself is never reported as data.
type VariableFormat struct {
	// Parts describes each declared part's field layout, in order. If the
	// chain extends past len(Parts), the last entry is reused, matching
	// categories whose extensions repeat the same trailing structure.
	Parts []*FixedFormat
}

func (v *VariableFormat) parse(cur *bitio.Cursor) (*model.FieldValue, error) {
	out := model.NewArray(len(v.Parts))

	for i := 0; ; i++ {
		part := v.partAt(i)
		data, err := cur.ReadBytes(part.LengthBytes)
		if err != nil {
			return nil, err
		}
		fv, err := part.decode(data)
		if err != nil {
			return nil, err
		}
		out.Append(fv)

		fx, err := bitio.Extract(data, 1, 1, false)
		if err != nil {
			return nil, err
		}
		if fx == 0 {
			break
		}
	}
	return out, nil
}

func (v *VariableFormat) partAt(i int) *FixedFormat {
	if i < len(v.Parts) {
		return v.Parts[i]
	}
	return v.Parts[len(v.Parts)-1]
}
