package decoder

import (
	"testing"

	"github.com/srg/asterix/internal/registry"
)

// minimalCat048 builds a small registry with one category (id 48), one
// default UAP, and four FRNs: SAC/SIC (Fixed), a spare, a one-byte fixed
// extension item used to exercise a two-byte FSPEC, and a repetitive item
// used to exercise the N=0 case. It stands in for the fixtures §8's
// worked scenarios describe.
func minimalCat048(t *testing.T) *registry.Registry {
	t.Helper()

	sacSic := &registry.DataItemDescription{
		ItemID: "010",
		Name:   "Data Source Identifier",
		Rule:   registry.Mandatory,
		Format: &registry.FormatDescriptor{
			Kind: registry.FormatFixed,
			Fixed: &registry.FixedFormat{
				LengthBytes: 2,
				Fields: []*registry.BitField{
					{ShortName: "SAC", FromBit: 9, ToBit: 16},
					{ShortName: "SIC", FromBit: 1, ToBit: 8},
				},
			},
		},
	}

	ext := &registry.DataItemDescription{
		ItemID: "230",
		Name:   "Extension Marker Item",
		Rule:   registry.Optional,
		Format: &registry.FormatDescriptor{
			Kind: registry.FormatFixed,
			Fixed: &registry.FixedFormat{
				LengthBytes: 1,
				Fields: []*registry.BitField{
					{ShortName: "VAL", FromBit: 1, ToBit: 8},
				},
			},
		},
	}

	rep := &registry.DataItemDescription{
		ItemID: "170",
		Name:   "Track Aircraft Addresses",
		Rule:   registry.Optional,
		Format: &registry.FormatDescriptor{
			Kind: registry.FormatRepetitive,
			Repetitive: &registry.RepetitiveFormat{
				Element: &registry.FixedFormat{
					LengthBytes: 1,
					Fields: []*registry.BitField{
						{ShortName: "ADDR", FromBit: 1, ToBit: 8},
					},
				},
			},
		},
	}

	uap := &registry.UAP{
		Name: "cat048 default",
		Items: []*registry.UAPItem{
			{FRN: 1, ItemID: "010"},
			{FRN: 2, ItemID: ""}, // spare
			{FRN: 3, ItemID: "170"},
			{FRN: 8, ItemID: "230"},
		},
	}

	cat := &registry.Category{
		ID:      48,
		Name:    "Monoradar Target Reports",
		Version: "1.21",
		UAPs:    []*registry.UAP{uap},
		Items: map[string]*registry.DataItemDescription{
			"010": sacSic,
			"170": rep,
			"230": ext,
		},
	}

	reg := registry.New()
	if err := reg.AddCategory(cat); err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	return reg
}

// block048 builds a complete CAT/LEN/FSPEC/payload byte run for category
// 48, so callers can concatenate or truncate it.
func block048(fspec []byte, payload []byte) []byte {
	body := append(append([]byte{}, fspec...), payload...)
	length := 3 + len(body)
	out := make([]byte, 0, length)
	out = append(out, 48, byte(length>>8), byte(length))
	out = append(out, body...)
	return out
}

func TestParseMinimalPlot(t *testing.T) {
	reg := minimalCat048(t)

	// FSPEC byte: FRN1 set, FX=0 -> single byte, item 010 only.
	data := block048([]byte{0b10000000}, []byte{0x01, 0x02})
	// Append trailing garbage after the block; its LEN field points past the
	// end of the buffer, so it must not be decoded as a second block.
	data = append(data, 0xAB, 0xCD, 0x12)

	res := Parse(reg, data, Options{}, nil)
	if len(res.Blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(res.Blocks))
	}
	if len(res.Blocks[0].Records) != 1 {
		t.Fatalf("records = %d, want 1", len(res.Blocks[0].Records))
	}
	rec := res.Blocks[0].Records[0]
	if rec.Items.Len() != 1 {
		t.Fatalf("items = %d, want 1", rec.Items.Len())
	}
	item, ok := rec.Items.Get("010")
	if !ok {
		t.Fatalf("item 010 missing")
	}
	sac, _ := item.Value.Nested.Get("SAC")
	if sac.Uint != 1 {
		t.Fatalf("SAC = %d, want 1", sac.Uint)
	}
}

func TestParseTwoConcatenatedBlocks(t *testing.T) {
	reg := minimalCat048(t)

	one := block048([]byte{0b10000000}, []byte{0x01, 0x02})
	two := block048([]byte{0b10000000}, []byte{0x03, 0x04})
	data := append(append([]byte{}, one...), two...)

	res := Parse(reg, data, Options{}, nil)
	if len(res.Blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(res.Blocks))
	}
}

func TestParseFSPECExtension(t *testing.T) {
	reg := minimalCat048(t)

	// byte1: only FX set (no FRN1-7 present); byte2: FRN8 present, FX=0.
	data := block048([]byte{0b00000001, 0b10000000}, []byte{0x7F})

	res := Parse(reg, data, Options{}, nil)
	if len(res.Blocks) != 1 || len(res.Blocks[0].Records) != 1 {
		t.Fatalf("unexpected block/record shape: %+v", res)
	}
	rec := res.Blocks[0].Records[0]
	item, ok := rec.Items.Get("230")
	if !ok {
		t.Fatalf("item 230 (FRN8, second FSPEC byte) missing")
	}
	val, _ := item.Value.Nested.Get("VAL")
	if val.Uint != 0x7F {
		t.Fatalf("VAL = %#x, want 0x7f", val.Uint)
	}
}

func TestParseTruncatedBlock(t *testing.T) {
	reg := minimalCat048(t)

	data := []byte{48, 0x00, 0x10, 0, 0, 0, 0, 0, 0, 0} // LEN=16, only 10 bytes present

	res := Parse(reg, data, Options{}, nil)
	if len(res.Blocks) != 0 {
		t.Fatalf("blocks = %d, want 0", len(res.Blocks))
	}
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(res.Errors))
	}
	if _, ok := res.Errors[0].(*MalformedBlockError); !ok {
		t.Fatalf("error = %T, want *MalformedBlockError", res.Errors[0])
	}
}

func TestParseUnknownCategory(t *testing.T) {
	reg := minimalCat048(t)

	data := []byte{199, 0x00, 0x05, 0xAA, 0xBB}

	res := Parse(reg, data, Options{}, nil)
	if len(res.Blocks) != 0 {
		t.Fatalf("blocks = %d, want 0", len(res.Blocks))
	}
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(res.Errors))
	}
	uce, ok := res.Errors[0].(*UnknownCategoryError)
	if !ok {
		t.Fatalf("error = %T, want *UnknownCategoryError", res.Errors[0])
	}
	if uce.Category != 199 {
		t.Fatalf("category = %d, want 199", uce.Category)
	}
}

func TestParseRepetitiveZero(t *testing.T) {
	reg := minimalCat048(t)

	// FRN3 (item 170, repetitive) present, REP=0x00.
	data := block048([]byte{0b00100000}, []byte{0x00})

	res := Parse(reg, data, Options{}, nil)
	if len(res.Blocks) != 1 || len(res.Blocks[0].Records) != 1 {
		t.Fatalf("unexpected shape: %+v", res)
	}
	item, ok := res.Blocks[0].Records[0].Items.Get("170")
	if !ok {
		t.Fatalf("item 170 missing")
	}
	if len(item.Value.Array) != 0 {
		t.Fatalf("array len = %d, want 0", len(item.Value.Array))
	}
}

func TestParseRecordAttachesErrorToOffendingItem(t *testing.T) {
	reg := minimalCat048(t)

	// FRN1 (010) decodes fully; FRN3 (170, repetitive) claims REP=5 but
	// the block ends with no element bytes, so it fails after 010 already
	// succeeded (§7: error "attached to the offending item").
	data := block048([]byte{0b10100000}, []byte{0x01, 0x02, 0x05})

	res := Parse(reg, data, Options{}, nil)
	if len(res.Blocks) != 1 || len(res.Blocks[0].Records) != 1 {
		t.Fatalf("unexpected shape: %+v", res)
	}
	rec := res.Blocks[0].Records[0]
	if !rec.PartiallyDecoded {
		t.Fatalf("record should be marked PartiallyDecoded")
	}
	if _, ok := rec.Items.Get("010"); !ok {
		t.Fatalf("item 010 should still be present")
	}
	failed, ok := rec.Items.Get("170")
	if !ok {
		t.Fatalf("failing item 170 should have a placeholder slot")
	}
	if failed.Err == nil {
		t.Fatalf("placeholder item should carry the error that stopped the record")
	}
	if failed.Err.ItemID != "170" {
		t.Fatalf("ItemError.ItemID = %q, want 170", failed.Err.ItemID)
	}
}

func TestParseFilterCategory(t *testing.T) {
	reg := minimalCat048(t)

	one := block048([]byte{0b10000000}, []byte{0x01, 0x02})
	data := append(append([]byte{}, one...), []byte{199, 0x00, 0x05, 0xAA, 0xBB}...)

	other := uint8(199)
	res := Parse(reg, data, Options{FilterCategory: &other}, nil)
	if len(res.Blocks) != 0 {
		t.Fatalf("blocks = %d, want 0 (cat048 filtered out)", len(res.Blocks))
	}
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %d, want 1 (unknown cat199 still reported)", len(res.Errors))
	}
}
