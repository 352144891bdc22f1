// Package render formats decoded data blocks for output: plain text,
// compact/hierarchical JSON, and compact/hierarchical XML (§4.5 "render").
// It mirrors the teacher's text/JSON output pair, adding color and a
// verbose mode gated on whether the destination is a terminal.
package render

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/srg/asterix/internal/model"
)

// Format names one of the six output shapes a caller can request.
type Format int

const (
	FormatText Format = iota
	FormatOutLine
	FormatJSON
	FormatJSONHierarchical
	FormatXML
	FormatXMLHierarchical
)

// ParseFormat maps a CLI/config string to a Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "outline", "out-line":
		return FormatOutLine
	case "json":
		return FormatJSON
	case "json-hier", "json-hierarchical":
		return FormatJSONHierarchical
	case "xml":
		return FormatXML
	case "xml-hier", "xml-hierarchical":
		return FormatXMLHierarchical
	default:
		return FormatText
	}
}

// Options controls verbosity and color.
type Options struct {
	Verbose bool
	Color   bool // force color on/off; nil-like "unset" isn't representable, see AutoColor
}

// AutoColor reports whether w looks like a terminal, for callers that want
// the same "color only when attached to a TTY" default the teacher's CLI
// uses via golang.org/x/term.
func AutoColor(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Block writes one decoded block to w in the requested format.
func Block(w io.Writer, block *model.DataBlock, format Format, opts Options) error {
	switch format {
	case FormatOutLine:
		return writeOutLine(w, block, opts)
	case FormatJSON:
		return writeJSON(w, toCompactJSON(block), false)
	case FormatJSONHierarchical:
		return writeJSON(w, toHierJSON(block), true)
	case FormatXML:
		return writeXML(w, toCompactXML(block), false)
	case FormatXMLHierarchical:
		return writeXML(w, toHierXML(block), true)
	default:
		return writeText(w, block, opts)
	}
}

func writeJSON(w io.Writer, v interface{}, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func writeXML(w io.Writer, v interface{}, indent bool) error {
	enc := xml.NewEncoder(w)
	if indent {
		enc.Indent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return err
	}
	_, err := w.Write([]byte("\n"))
	return err
}

// writeText is the line-oriented renderer, modeled on the teacher's
// outputInspectText: a labeled header followed by one indented line per
// field, with an optional color accent for item names when opts.Color is
// set (§4.5 "Text: one line per decoded leaf value, grouped by item").
func writeText(w io.Writer, block *model.DataBlock, opts Options) error {
	label := color.New(color.FgCyan, color.Bold)
	errLabel := color.New(color.FgRed, color.Bold)
	if !opts.Color {
		label.DisableColor()
		errLabel.DisableColor()
	}

	fmt.Fprintf(w, "Block: category=%d length=%d records=%d\n", block.CategoryID, block.TotalLength, len(block.Records))
	if opts.Verbose && block.RawHex != "" {
		fmt.Fprintf(w, "  raw: %s\n", block.RawHex)
	}

	for ri, rec := range block.Records {
		fmt.Fprintf(w, "%s\n", label.Sprintf("[record %d]", ri+1))
		for pair := rec.Items.Oldest(); pair != nil; pair = pair.Next() {
			writeItemText(w, "  ", pair.Key, pair.Value, opts)
		}
		if rec.PartiallyDecoded {
			for _, e := range rec.Errors {
				fmt.Fprintf(w, "  %s %s\n", errLabel.Sprint("error:"), e.Error())
			}
		}
	}
	return nil
}

func writeItemText(w io.Writer, indent, name string, item *model.DecodedItem, opts Options) {
	fmt.Fprintf(w, "%s%s (%s):\n", indent, item.ItemID, item.Name)
	if item.Err != nil {
		fmt.Fprintf(w, "%s  _error: %s\n", indent, item.Err.Error())
		return
	}
	writeFieldValueText(w, indent+"  ", "", item.Value, opts)
}

func writeFieldValueText(w io.Writer, indent, name string, fv *model.FieldValue, opts Options) {
	prefix := indent
	if name != "" {
		prefix = fmt.Sprintf("%s%s = ", indent, name)
	}

	switch fv.Kind {
	case model.KindNested:
		if name != "" {
			fmt.Fprintf(w, "%s%s:\n", indent, name)
			indent += "  "
		}
		for pair := fv.Nested.Oldest(); pair != nil; pair = pair.Next() {
			writeFieldValueText(w, indent, pair.Key, pair.Value, opts)
		}
	case model.KindArray:
		fmt.Fprintf(w, "%s%s[%d]:\n", indent, name, len(fv.Array))
		for i, el := range fv.Array {
			writeFieldValueText(w, indent+"  ", fmt.Sprintf("[%d]", i), el, opts)
		}
	default:
		fmt.Fprintf(w, "%s%s\n", prefix, scalarText(fv, opts))
	}
}

func scalarText(fv *model.FieldValue, opts Options) string {
	var base string
	switch fv.Kind {
	case model.KindInteger:
		base = fmt.Sprintf("%d", fv.Int)
	case model.KindUnsignedInteger:
		base = fmt.Sprintf("%d", fv.Uint)
	case model.KindFloat:
		base = formatScaledFloat(fv)
	case model.KindString:
		base = fv.Str
	case model.KindBytes:
		base = fmt.Sprintf("%x", fv.Bytes)
	case model.KindBitFlag:
		base = fmt.Sprintf("%t", fv.BitFlag)
	default:
		base = ""
	}
	if opts.Verbose && fv.Meaning != "" {
		return fmt.Sprintf("%s (%s)", base, fv.Meaning)
	}
	return base
}

// formatScaledFloat renders a KindFloat value at its field-declared
// precision (§4.5 "floating-point scaled values use a precision determined
// per field... minimum decimals needed to represent scale without loss").
func formatScaledFloat(fv *model.FieldValue) string {
	return strconv.FormatFloat(fv.Float, 'f', fv.Precision, 64)
}

// roundToPrecision rounds v to the given number of decimal digits, used by
// the JSON renderer so a marshaled float doesn't carry more digits than the
// field's declared precision.
func roundToPrecision(v float64, precision int) float64 {
	if precision <= 0 {
		return math.Round(v)
	}
	p := math.Pow(10, float64(precision))
	return math.Round(v*p) / p
}

// writeOutLine is the §4.5 "OutLine" renderer: one line per record, a
// category prefix followed by semicolon-separated item=value pairs, meant
// to be grep/log-filter friendly.
func writeOutLine(w io.Writer, block *model.DataBlock, opts Options) error {
	for _, rec := range block.Records {
		parts := make([]string, 0, rec.Items.Len())
		for pair := rec.Items.Oldest(); pair != nil; pair = pair.Next() {
			item := pair.Value
			if item.Err != nil {
				parts = append(parts, fmt.Sprintf("%s=_error:%s", item.ItemID, item.Err.Error()))
				continue
			}
			parts = append(parts, fmt.Sprintf("%s=%s", item.ItemID, outLineValue(item.Value, opts)))
		}
		if _, err := fmt.Fprintf(w, "CAT%03d;%s\n", block.CategoryID, strings.Join(parts, ";")); err != nil {
			return err
		}
	}
	return nil
}

func outLineValue(fv *model.FieldValue, opts Options) string {
	switch fv.Kind {
	case model.KindNested:
		sub := make([]string, 0, fv.Nested.Len())
		for pair := fv.Nested.Oldest(); pair != nil; pair = pair.Next() {
			sub = append(sub, fmt.Sprintf("%s:%s", pair.Key, outLineValue(pair.Value, opts)))
		}
		return strings.Join(sub, ",")
	case model.KindArray:
		sub := make([]string, len(fv.Array))
		for i, el := range fv.Array {
			sub[i] = outLineValue(el, opts)
		}
		return "[" + strings.Join(sub, ",") + "]"
	default:
		return scalarText(fv, opts)
	}
}
