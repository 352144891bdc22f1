package registry

import (
	"github.com/srg/asterix/internal/bitio"
	"github.com/srg/asterix/internal/model"
)

// RepetitiveFormat is a one-byte repetition counter REP followed by REP
// copies of a fixed-length element (§4.2 "Repetitive"). REP == 0 is legal
// and yields an empty array.
type RepetitiveFormat struct {
	Element *FixedFormat
}

func (r *RepetitiveFormat) parse(cur *bitio.Cursor) (*model.FieldValue, error) {
	repByte, err := cur.ReadBytes(1)
	if err != nil {
		return nil, err
	}
	n := int(repByte[0])

	out := model.NewArray(n)
	for i := 0; i < n; i++ {
		data, err := cur.ReadBytes(r.Element.LengthBytes)
		if err != nil {
			return nil, err
		}
		fv, err := r.Element.decode(data)
		if err != nil {
			return nil, err
		}
		out.Append(fv)
	}
	return out, nil
}
