package model

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DecodedItem is the root FieldValue tree for a single data item, shaped by
// its FormatDescriptor (Fixed -> Nested of bit fields, Variable/Repetitive
// -> Array, Compound -> Nested, Explicit -> Bytes, BDS -> Array of Nested).
type DecodedItem struct {
	ItemID string
	Name   string
	Value  *FieldValue

	// Err is set instead of Value when this item's slot exists only to
	// carry the failure that stopped the record (§7: error "attached to
	// the offending item").
	Err *ItemError
}

// ItemError records a single contained item-level decode failure (§7:
// "Parse-time item errors are contained to a single record").
type ItemError struct {
	ItemID string
	Kind   string // e.g. "InsufficientBits", "UnknownSubfield"
	Detail string
}

func (e *ItemError) Error() string {
	return e.Kind + " (" + e.ItemID + "): " + e.Detail
}

// DataRecord is one structured message within a DataBlock. Items keeps FRN
// insertion order (§3: "Order of insertion follows FRN order from the
// UAP").
type DataRecord struct {
	Items            *orderedmap.OrderedMap[string, *DecodedItem]
	PartiallyDecoded bool
	Errors           []*ItemError
}

// NewDataRecord returns an empty record ready for items to be appended.
func NewDataRecord() *DataRecord {
	return &DataRecord{Items: orderedmap.New[string, *DecodedItem]()}
}

// Put appends a decoded item, preserving FRN order.
func (r *DataRecord) Put(item *DecodedItem) {
	r.Items.Set(item.ItemID, item)
}

// Fail marks the record incomplete and records the failure that stopped it.
func (r *DataRecord) Fail(err *ItemError) {
	r.PartiallyDecoded = true
	r.Errors = append(r.Errors, err)
}

// DataBlock is one category-tagged, length-prefixed unit decoded from the
// wire (§3, §6.1).
type DataBlock struct {
	CategoryID   uint8
	TotalLength  uint16
	TimestampMs  int64
	RawHex       string
	Records      []*DataRecord
}
