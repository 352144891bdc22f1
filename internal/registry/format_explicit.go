package registry

import (
	"github.com/srg/asterix/internal/bitio"
	"github.com/srg/asterix/internal/model"
)

// ExplicitFormat is a one-byte inclusive length LEN followed by LEN-1
// further bytes, used for Special Purpose / Reserved Expansion fields
// (§4.2 "Explicit"). If Inner is set the payload is recursively decoded
// instead of captured as opaque bytes.
type ExplicitFormat struct {
	Inner *FormatDescriptor
}

func (e *ExplicitFormat) parse(cur *bitio.Cursor) (*model.FieldValue, error) {
	lenByte, err := cur.ReadBytes(1)
	if err != nil {
		return nil, err
	}
	length := int(lenByte[0])
	if length < 1 {
		return model.Bytes(nil), nil
	}

	payload, err := cur.ReadBytes(length - 1)
	if err != nil {
		return nil, err
	}

	if e.Inner == nil {
		return model.Bytes(payload), nil
	}
	return e.Inner.Parse(bitio.NewCursor(payload))
}
