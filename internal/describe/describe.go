// Package describe answers introspection queries against a loaded
// registry: what categories are defined, what items a category has, and
// what a given bit field means (§4.6 "describe").
package describe

import (
	"fmt"

	"github.com/srg/asterix/internal/registry"
)

// FieldInfo summarizes one BitField declaration, optionally resolved
// against a concrete raw value's meaning-table entry.
type FieldInfo struct {
	ShortName string
	LongName  string
	FromBit   int
	ToBit     int
	Encoding  string
	Unit      string
	Meaning   string // populated only when a raw value was supplied and matched
}

// ItemInfo summarizes one DataItemDescription.
type ItemInfo struct {
	ItemID string
	Name   string
	Rule   string
	Format string
	Fields []FieldInfo // populated only for Fixed-format items
}

// CategoryInfo summarizes one loaded Category.
type CategoryInfo struct {
	ID      uint8
	Name    string
	Version string
	UAPs    int
	Items   []ItemInfo
}

// Answer is the result of a Describe call: Category is always populated;
// Item and Field narrow the answer as the caller supplies more of the
// (category, item, field) path.
type Answer struct {
	Category CategoryInfo
	Item     *ItemInfo
	Field    *FieldInfo
}

// Describe resolves as much of the (catID, itemID, fieldName) path as the
// caller asked for. itemID and fieldName may be empty to stop at a
// coarser level.
func Describe(reg *registry.Registry, catID uint8, itemID, fieldName string) (*Answer, error) {
	cat, ok := reg.Category(catID)
	if !ok {
		return nil, &registry.InvalidCategoryError{Category: catID, Reason: "not loaded"}
	}

	answer := &Answer{Category: summarizeCategory(cat)}
	if itemID == "" {
		return answer, nil
	}

	desc, ok := cat.Items[itemID]
	if !ok {
		return nil, fmt.Errorf("describe: category %d has no item %s", catID, itemID)
	}
	itemInfo := summarizeItem(desc)
	answer.Item = &itemInfo
	if fieldName == "" {
		return answer, nil
	}

	bf, ok := reg.BitField(catID, itemID, fieldName)
	if !ok {
		return nil, fmt.Errorf("describe: item %s has no field %s", itemID, fieldName)
	}
	fieldInfo := summarizeField(bf)
	answer.Field = &fieldInfo
	return answer, nil
}

// DescribeValue is Describe for a field plus a raw decoded value, used to
// resolve a meaning-table lookup without re-running the parser.
func DescribeValue(reg *registry.Registry, catID uint8, itemID, fieldName string, raw int64) (*Answer, error) {
	answer, err := Describe(reg, catID, itemID, fieldName)
	if err != nil {
		return nil, err
	}
	if meaning, ok := reg.Meaning(catID, itemID, fieldName, raw); ok {
		answer.Field.Meaning = meaning
	}
	return answer, nil
}

func summarizeCategory(cat *registry.Category) CategoryInfo {
	info := CategoryInfo{ID: cat.ID, Name: cat.Name, Version: cat.Version, UAPs: len(cat.UAPs)}
	for _, desc := range cat.Items {
		info.Items = append(info.Items, summarizeItem(desc))
	}
	return info
}

func summarizeItem(desc *registry.DataItemDescription) ItemInfo {
	info := ItemInfo{
		ItemID: desc.ItemID,
		Name:   desc.Name,
		Rule:   ruleName(desc.Rule),
		Format: desc.Format.Describe(),
	}
	if desc.Format.Kind == registry.FormatFixed {
		for _, bf := range desc.Format.Fixed.Fields {
			info.Fields = append(info.Fields, summarizeField(bf))
		}
	}
	return info
}

func summarizeField(bf *registry.BitField) FieldInfo {
	return FieldInfo{
		ShortName: bf.ShortName,
		LongName:  bf.LongName,
		FromBit:   bf.FromBit,
		ToBit:     bf.ToBit,
		Encoding:  encodingName(bf.Encoding),
		Unit:      bf.Unit,
	}
}

func ruleName(r registry.Rule) string {
	switch r {
	case registry.Mandatory:
		return "mandatory"
	case registry.Conditional:
		return "conditional"
	default:
		return "optional"
	}
}

func encodingName(e registry.Encoding) string {
	switch e {
	case registry.EncodingSigned:
		return "signed"
	case registry.EncodingASCII6:
		return "ascii6"
	case registry.EncodingASCII8:
		return "ascii8"
	case registry.EncodingHex:
		return "hex"
	case registry.EncodingOctal:
		return "octal"
	case registry.EncodingMBData:
		return "mb"
	case registry.EncodingSpare:
		return "spare"
	default:
		return "unsigned"
	}
}
