// Package model holds the decoded-output data model: the per-packet tree
// produced by the packet parser and consumed by the renderer and by
// consumer code. Values here are short-lived and own no reference back
// into the registry that produced them.
package model

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind tags which variant of FieldValue is populated.
type Kind int

const (
	KindInteger Kind = iota
	KindUnsignedInteger
	KindFloat
	KindString
	KindBytes
	KindNested
	KindArray
	KindBitFlag
)

// FieldValue is a tagged union over the value shapes a decoded field can
// take. Exactly one of the typed accessors is meaningful, selected by Kind.
type FieldValue struct {
	Kind Kind

	Int      int64
	Uint     uint64
	Float    float64
	Str      string
	Bytes    []byte
	Nested   *orderedmap.OrderedMap[string, *FieldValue]
	Array    []*FieldValue
	BitFlag  bool

	// Precision is the decimal-digit count a KindFloat value should be
	// rendered with (§4.5 "floating-point scaled values use a precision
	// determined per field"). Meaningless for other Kinds.
	Precision int

	// Meaning is the human-readable lookup-table description for this
	// value, populated at decode time whenever the field's meaning table has
	// an entry for the raw value. The text and OutLine renderers show it
	// only in verbose mode.
	Meaning string
}

func Integer(v int64) *FieldValue            { return &FieldValue{Kind: KindInteger, Int: v} }
func UnsignedInteger(v uint64) *FieldValue    { return &FieldValue{Kind: KindUnsignedInteger, Uint: v} }
func Float(v float64) *FieldValue             { return &FieldValue{Kind: KindFloat, Float: v} }
func String(v string) *FieldValue             { return &FieldValue{Kind: KindString, Str: v} }
func Bytes(v []byte) *FieldValue              { return &FieldValue{Kind: KindBytes, Bytes: v} }
func BitFlag(v bool) *FieldValue              { return &FieldValue{Kind: KindBitFlag, BitFlag: v} }

func NewNested() *FieldValue {
	return &FieldValue{Kind: KindNested, Nested: orderedmap.New[string, *FieldValue]()}
}

func NewArray(cap int) *FieldValue {
	return &FieldValue{Kind: KindArray, Array: make([]*FieldValue, 0, cap)}
}

// Set adds a named child to a Nested value, preserving insertion order.
func (fv *FieldValue) Set(name string, child *FieldValue) {
	if fv.Kind != KindNested {
		panic("model: Set called on non-Nested FieldValue")
	}
	fv.Nested.Set(name, child)
}

// Append adds an element to an Array value.
func (fv *FieldValue) Append(child *FieldValue) {
	if fv.Kind != KindArray {
		panic("model: Append called on non-Array FieldValue")
	}
	fv.Array = append(fv.Array, child)
}

// WithMeaning attaches a meaning-table description and returns the receiver
// for chaining at the call site.
func (fv *FieldValue) WithMeaning(m string) *FieldValue {
	fv.Meaning = m
	return fv
}
