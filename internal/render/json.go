package render

import "github.com/srg/asterix/internal/model"

// compactBlock is the flat, map-of-name-to-value JSON shape: one object
// per record with item ids as keys. This is the shape most
// consumers reach for first (§4.5 "JSON: compact").
type compactBlock struct {
	Category uint8            `json:"category"`
	Length   uint16           `json:"length"`
	Records  []map[string]any `json:"records"`
}

func toCompactJSON(block *model.DataBlock) compactBlock {
	out := compactBlock{Category: block.CategoryID, Length: block.TotalLength}
	for _, rec := range block.Records {
		m := make(map[string]any, rec.Items.Len())
		for pair := rec.Items.Oldest(); pair != nil; pair = pair.Next() {
			item := pair.Value
			if item.Err != nil {
				m[pair.Key] = map[string]any{"_error": item.Err.Error()}
				continue
			}
			m[pair.Key] = fieldValueToAny(item.Value, false)
		}
		out.Records = append(out.Records, m)
	}
	return out
}

// hierItem, hierRecord and hierBlock mirror compactBlock but keep DecodedItem.Name and, when a
// value resolves a meaning-table entry, the Meaning string alongside the
// raw value (§4.5 "JSON: hierarchical retains names and meanings").
type hierItem struct {
	ItemID string `json:"item_id"`
	Name   string `json:"name"`
	Value  any    `json:"value,omitempty"`
	Error  string `json:"_error,omitempty"`
}

type hierRecord struct {
	Items            []hierItem `json:"items"`
	PartiallyDecoded bool       `json:"partially_decoded,omitempty"`
	Errors           []string   `json:"errors,omitempty"`
}

type hierBlock struct {
	Category uint8        `json:"category"`
	Length   uint16       `json:"length"`
	RawHex   string       `json:"raw_hex,omitempty"`
	Records  []hierRecord `json:"records"`
}

func toHierJSON(block *model.DataBlock) hierBlock {
	out := hierBlock{Category: block.CategoryID, Length: block.TotalLength, RawHex: block.RawHex}
	for _, rec := range block.Records {
		hr := hierRecord{PartiallyDecoded: rec.PartiallyDecoded}
		for pair := rec.Items.Oldest(); pair != nil; pair = pair.Next() {
			item := pair.Value
			hi := hierItem{ItemID: item.ItemID, Name: item.Name}
			if item.Err != nil {
				hi.Error = item.Err.Error()
			} else {
				hi.Value = fieldValueToAny(item.Value, true)
			}
			hr.Items = append(hr.Items, hi)
		}
		for _, e := range rec.Errors {
			hr.Errors = append(hr.Errors, e.Error())
		}
		out.Records = append(out.Records, hr)
	}
	return out
}

// fieldValueToAny unwraps a FieldValue tree into plain Go values suitable
// for encoding/json. withMeaning controls whether a resolved meaning
// string replaces a bare scalar with a {value, meaning} pair.
func fieldValueToAny(fv *model.FieldValue, withMeaning bool) any {
	switch fv.Kind {
	case model.KindNested:
		m := make(map[string]any, fv.Nested.Len())
		for pair := fv.Nested.Oldest(); pair != nil; pair = pair.Next() {
			m[pair.Key] = fieldValueToAny(pair.Value, withMeaning)
		}
		return m
	case model.KindArray:
		arr := make([]any, len(fv.Array))
		for i, el := range fv.Array {
			arr[i] = fieldValueToAny(el, withMeaning)
		}
		return arr
	default:
		scalar := scalarAny(fv)
		if withMeaning && fv.Meaning != "" {
			return map[string]any{"value": scalar, "meaning": fv.Meaning}
		}
		return scalar
	}
}

func scalarAny(fv *model.FieldValue) any {
	switch fv.Kind {
	case model.KindInteger:
		return fv.Int
	case model.KindUnsignedInteger:
		return fv.Uint
	case model.KindFloat:
		return roundToPrecision(fv.Float, fv.Precision)
	case model.KindString:
		return fv.Str
	case model.KindBytes:
		return fv.Bytes
	case model.KindBitFlag:
		return fv.BitFlag
	default:
		return nil
	}
}
