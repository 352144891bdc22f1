package registry

import (
	"fmt"
	"math"

	"github.com/srg/asterix/internal/bitio"
	"github.com/srg/asterix/internal/model"
)

// FormatKind tags which variant of FormatDescriptor is populated.
//
// Per §9, this is a tagged union rather than an interface hierarchy with
// virtual dispatch: Parse switches on Kind instead of calling through a
// trait-object method set.
type FormatKind int

const (
	FormatFixed FormatKind = iota
	FormatVariable
	FormatRepetitive
	FormatCompound
	FormatExplicit
	FormatBDS
)

// FormatDescriptor is one of the six structural item layouts from §4.2.
// Exactly one of the pointer fields is non-nil, selected by Kind.
type FormatDescriptor struct {
	Kind FormatKind

	Fixed      *FixedFormat
	Variable   *VariableFormat
	Repetitive *RepetitiveFormat
	Compound   *CompoundFormat
	Explicit   *ExplicitFormat
	BDS        *BDSFormat
}

// Parse decodes one instance of this descriptor from cur, returning the
// FieldValue tree for it. Errors are always one of the §7 item-level kinds.
func (f *FormatDescriptor) Parse(cur *bitio.Cursor) (*model.FieldValue, error) {
	switch f.Kind {
	case FormatFixed:
		return f.Fixed.parse(cur)
	case FormatVariable:
		return f.Variable.parse(cur)
	case FormatRepetitive:
		return f.Repetitive.parse(cur)
	case FormatCompound:
		return f.Compound.parse(cur)
	case FormatExplicit:
		return f.Explicit.parse(cur)
	case FormatBDS:
		return f.BDS.parse(cur)
	default:
		return nil, fmt.Errorf("registry: internal error: unknown format kind %d", f.Kind)
	}
}

// Describe returns a short human-readable summary of the descriptor's
// shape, used by the describe API when no more specific answer applies.
func (f *FormatDescriptor) Describe() string {
	switch f.Kind {
	case FormatFixed:
		return fmt.Sprintf("fixed, %d byte(s), %d field(s)", f.Fixed.LengthBytes, len(f.Fixed.Fields))
	case FormatVariable:
		return fmt.Sprintf("variable, %d part(s) declared", len(f.Variable.Parts))
	case FormatRepetitive:
		return fmt.Sprintf("repetitive, element width %d byte(s)", f.Repetitive.Element.LengthBytes)
	case FormatCompound:
		return fmt.Sprintf("compound, %d subfield(s)", len(f.Compound.SubFields))
	case FormatExplicit:
		return "explicit, length-prefixed"
	case FormatBDS:
		return fmt.Sprintf("BDS register set, %d known register(s)", len(f.BDS.Registers))
	default:
		return "unknown format"
	}
}

func decodeBitField(data []byte, bf *BitField) (*model.FieldValue, error) {
	raw, err := bitio.Extract(data, bf.FromBit, bf.ToBit, bf.Encoding == EncodingSigned)
	if err != nil {
		return nil, err
	}

	var fv *model.FieldValue
	switch bf.Encoding {
	case EncodingASCII6:
		fv = model.String(decodeSixBitRun(data, bf.FromBit, bf.ToBit))
	case EncodingASCII8:
		fv = model.String(decodeEightBitRun(data, bf.FromBit, bf.ToBit))
	case EncodingHex:
		width := (bf.ToBit - bf.FromBit + 1 + 3) / 4
		fv = model.String(fmt.Sprintf("%0*x", width, uint64(raw)))
	case EncodingOctal:
		fv = model.String(fmt.Sprintf("%o", uint64(raw)))
	case EncodingSpare:
		fv = model.UnsignedInteger(uint64(raw))
	default:
		if bf.HasScale {
			fv = model.Float(float64(raw) * bf.Scale)
			if bf.Precision > 0 {
				fv.Precision = bf.Precision
			} else {
				fv.Precision = scaleDecimals(bf.Scale)
			}
		} else if bf.Encoding == EncodingSigned {
			fv = model.Integer(raw)
		} else {
			fv = model.UnsignedInteger(uint64(raw))
		}
	}

	if bf.MeaningTable != nil {
		if m, ok := bf.MeaningTable[raw]; ok {
			fv.WithMeaning(m)
		}
	}
	return fv, nil
}

// scaleDecimals is the §4.5 fallback for an unspecified Precision: the
// minimum number of decimal digits needed to represent scale exactly,
// capped so a recurring fraction (e.g. 1/3) doesn't run away.
func scaleDecimals(scale float64) int {
	if scale == 0 {
		return 0
	}
	s := math.Abs(scale)
	for n := 0; n <= 10; n++ {
		if math.Abs(s-math.Round(s)) < 1e-9 {
			return n
		}
		s *= 10
	}
	return 10
}
