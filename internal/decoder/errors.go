package decoder

import (
	"fmt"

	"github.com/srg/asterix/internal/bitio"
	"github.com/srg/asterix/internal/registry"
)

// MalformedBlockError reports a block whose LEN field is inconsistent with
// the remaining buffer (§7 "MalformedBlock { offset, detail }").
// Incomplete distinguishes "not enough bytes have arrived yet" (header or
// body truncated at the end of the buffer, recoverable once more bytes
// arrive) from a block that can never be framed (LEN < 3); StreamReader
// uses it to decide whether to wait or resynchronize.
type MalformedBlockError struct {
	Offset     int
	Detail     string
	Incomplete bool
}

func (e *MalformedBlockError) Error() string {
	return fmt.Sprintf("malformed block at offset %d: %s", e.Offset, e.Detail)
}

// UnknownCategoryError reports a block whose category id has no loaded
// definition (§7 "InvalidCategory" surfaced at the block level).
type UnknownCategoryError struct {
	Category uint8
	Offset   int
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category %d at offset %d", e.Category, e.Offset)
}

// classifyItemError maps a decode-time failure to one of the §7 item-level
// error kind names carried on model.ItemError.
func classifyItemError(err error) string {
	switch err.(type) {
	case *bitio.InsufficientBitsError:
		return "InsufficientBits"
	case *registry.UnknownSubfieldError:
		return "UnknownSubfield"
	default:
		return "InternalError"
	}
}
