// Package decoder implements the packet parser described in spec §4.4:
// block framing, FSPEC decoding, UAP dispatch, and per-item decode with
// errors contained to the offending record.
package decoder

import (
	"encoding/hex"
	"errors"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/srg/asterix/internal/bitio"
	"github.com/srg/asterix/internal/model"
	"github.com/srg/asterix/internal/registry"
)

// Options configures a Parse/ParseWithOffset call (§6.3).
type Options struct {
	Verbose        bool
	FilterCategory *uint8
	MaxRecords     int
}

// Result carries everything a top-level Parse call returns: the
// successfully decoded blocks and the list of errors encountered along the
// way (§7: "the caller receives the full list of successfully-decoded
// records plus a list of errors; no silent data loss").
type Result struct {
	Blocks []*model.DataBlock
	Errors []error
}

// OffsetResult is the return shape of ParseWithOffset (§6.3, §6.4).
type OffsetResult struct {
	Blocks              []*model.DataBlock
	BytesConsumed       int
	RemainingBlocksEst  int
	Errors              []error
}

// Parse decodes every data block in data (§6.3 "parse").
func Parse(reg *registry.Registry, data []byte, opts Options, logger *logrus.Logger) *Result {
	logger = nonNilLogger(logger)
	out := &Result{}

	offset := 0
	recordCount := 0
	for offset < len(data) {
		block, consumed, err := parseOneBlock(reg, data, offset, opts, logger)
		if err != nil {
			out.Errors = append(out.Errors, err)
		}
		if consumed <= 0 {
			break
		}
		offset += consumed
		if block != nil {
			if opts.MaxRecords > 0 && recordCount+len(block.Records) > opts.MaxRecords {
				block.Records = block.Records[:opts.MaxRecords-recordCount]
			}
			out.Blocks = append(out.Blocks, block)
			out.Errors = append(out.Errors, blockRecordErrors(block)...)
			recordCount += len(block.Records)
			if opts.MaxRecords > 0 && recordCount >= opts.MaxRecords {
				break
			}
		}
	}
	return out
}

// ParseWithOffset decodes starting at offset, stopping after maxBlocks
// blocks (0 = unlimited), for incremental use over a growing buffer
// (§4.4 "Incremental API").
func ParseWithOffset(reg *registry.Registry, data []byte, offset, maxBlocks int, opts Options, logger *logrus.Logger) *OffsetResult {
	logger = nonNilLogger(logger)
	out := &OffsetResult{}

	pos := offset
	blocksParsed := 0
	for pos < len(data) {
		if maxBlocks > 0 && blocksParsed >= maxBlocks {
			break
		}
		block, consumed, err := parseOneBlock(reg, data, pos, opts, logger)
		if err != nil {
			out.Errors = append(out.Errors, err)
		}
		if consumed <= 0 {
			break
		}
		pos += consumed
		blocksParsed++
		if block != nil {
			out.Blocks = append(out.Blocks, block)
			out.Errors = append(out.Errors, blockRecordErrors(block)...)
		}
	}

	out.BytesConsumed = pos - offset
	out.RemainingBlocksEst = estimateRemainingBlocks(data, pos)
	return out
}

// estimateRemainingBlocks scans LEN fields without decoding, per §4.4's
// "best-effort count obtained by scanning LEN fields without decoding."
func estimateRemainingBlocks(data []byte, pos int) int {
	count := 0
	for pos+3 <= len(data) {
		length := int(data[pos+1])<<8 | int(data[pos+2])
		if length < 3 {
			break
		}
		count++
		pos += length
	}
	return count
}

// parseOneBlock decodes a single data block starting at offset, returning
// the decoded block (nil if the block was skipped entirely), the number of
// bytes to advance by, and a structural error if any.
func parseOneBlock(reg *registry.Registry, data []byte, offset int, opts Options, logger *logrus.Logger) (*model.DataBlock, int, error) {
	if offset+3 > len(data) {
		return nil, 0, &MalformedBlockError{Offset: offset, Detail: "buffer too short for block header", Incomplete: true}
	}

	cat8 := data[offset]
	length := int(data[offset+1])<<8 | int(data[offset+2])

	if length < 3 {
		return nil, 0, &MalformedBlockError{Offset: offset, Detail: "LEN < 3"}
	}
	if offset+length > len(data) {
		return nil, 0, &MalformedBlockError{Offset: offset, Detail: "LEN exceeds remaining buffer", Incomplete: true}
	}

	if opts.FilterCategory != nil && *opts.FilterCategory != cat8 {
		return nil, length, nil
	}

	cat, ok := reg.Category(cat8)
	if !ok {
		return nil, length, &UnknownCategoryError{Category: cat8, Offset: offset}
	}

	blockBytes := data[offset : offset+length]
	block := &model.DataBlock{
		CategoryID:  cat8,
		TotalLength: uint16(length),
		RawHex:      hex.EncodeToString(blockBytes),
	}

	cur := bitio.NewCursor(blockBytes[3:])
	uap := selectUAP(cat, cur)
	if uap == nil {
		return block, length, &registry.InvalidCategoryError{Category: cat8, Reason: "no UAP declared"}
	}

	for cur.ByteOffset() < length-3 {
		record, ok := decodeRecord(reg, cat, uap, cur, logger)
		if !ok {
			logger.WithFields(logrus.Fields{
				"category": cat8, "offset": offset,
				"unparsed_bytes": length - 3 - cur.ByteOffset(),
			}).Debug("decoder: abandoning remainder of block, no further valid record")
			break
		}
		block.Records = append(block.Records, record)
	}

	return block, length, nil
}

// decodeRecord decodes one FSPEC-delimited record. It returns ok=false
// when the attempt produced zero items before failing, signalling the
// caller to stop the block's record loop rather than emit an empty,
// content-free "record" (§13's resolution of scenario 1's trailing-bytes
// behavior).
func decodeRecord(reg *registry.Registry, cat *registry.Category, uap *registry.UAP, cur *bitio.Cursor, logger *logrus.Logger) (*model.DataRecord, bool) {
	record := model.NewDataRecord()

	frns, err := parseFSPEC(cur)
	if err != nil {
		return nil, false
	}

	for _, frn := range frns {
		uapItem := uap.ItemAt(frn)
		if uapItem == nil || uapItem.ItemID == "" {
			continue // spare: bit present, nothing to decode
		}

		desc, ok := reg.Item(cat.ID, uapItem.ItemID)
		if !ok {
			itemErr := &model.ItemError{ItemID: uapItem.ItemID, Kind: "InternalError", Detail: "UAP references item missing from registry"}
			record.Fail(itemErr)
			if record.Items.Len() > 0 {
				record.Put(&model.DecodedItem{ItemID: uapItem.ItemID, Name: uapItem.ItemID, Err: itemErr})
			}
			break
		}

		fv, perr := desc.Format.Parse(cur)
		if perr != nil {
			var use *registry.UnknownSubfieldError
			if errors.As(perr, &use) {
				use.Item = desc.ItemID
			}
			itemErr := &model.ItemError{ItemID: desc.ItemID, Kind: classifyItemError(perr), Detail: perr.Error()}
			record.Fail(itemErr)
			if record.Items.Len() > 0 {
				record.Put(&model.DecodedItem{ItemID: desc.ItemID, Name: desc.Name, Err: itemErr})
			}
			break
		}

		record.Put(&model.DecodedItem{ItemID: desc.ItemID, Name: desc.Name, Value: fv})
	}

	if record.PartiallyDecoded && record.Items.Len() == 0 {
		return nil, false
	}
	return record, true
}

// blockRecordErrors flattens the per-record item errors carried on a
// decoded block's DataRecords into the top-level error list returned by
// Parse/ParseWithOffset (§7: no silent data loss).
func blockRecordErrors(b *model.DataBlock) []error {
	var out []error
	for _, rec := range b.Records {
		for _, e := range rec.Errors {
			out = append(out, e)
		}
	}
	return out
}

func nonNilLogger(l *logrus.Logger) *logrus.Logger {
	if l != nil {
		return l
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	return discard
}
