package render

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/srg/asterix/internal/model"
)

// xmlNode is a generic element with a dynamic tag name, used because
// encoding/xml has no direct way to marshal a map[string]any with
// caller-chosen element names (§4.5 "XML" shapes mirror the JSON ones).
type xmlNode struct {
	XMLName xml.Name
	Attr    string // meaning-table text, rendered as a "meaning" attribute by MarshalXML
	ErrAttr string // item-level decode error text, rendered as an "_error" attribute
	Text    string
	Children []xmlNode
}

func (n xmlNode) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = n.XMLName
	if n.Attr != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "meaning"}, Value: n.Attr})
	}
	if n.ErrAttr != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "_error"}, Value: n.ErrAttr})
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if len(n.Children) > 0 {
		for _, c := range n.Children {
			if err := e.Encode(c); err != nil {
				return err
			}
		}
	} else if n.Text != "" {
		if err := e.EncodeToken(xml.CharData(n.Text)); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

type xmlBlock struct {
	XMLName  xml.Name `xml:"block"`
	Category uint8    `xml:"category,attr"`
	Length   uint16   `xml:"length,attr"`
	Records  []xmlNode
}

func toCompactXML(block *model.DataBlock) xmlBlock {
	out := xmlBlock{Category: block.CategoryID, Length: block.TotalLength}
	for _, rec := range block.Records {
		node := xmlNode{XMLName: xml.Name{Local: "record"}}
		for pair := rec.Items.Oldest(); pair != nil; pair = pair.Next() {
			item := pair.Value
			if item.Err != nil {
				node.Children = append(node.Children, xmlNode{XMLName: xml.Name{Local: safeTag(pair.Key)}, ErrAttr: item.Err.Error()})
				continue
			}
			node.Children = append(node.Children, fieldValueToXML(pair.Key, item.Value, false))
		}
		out.Records = append(out.Records, node)
	}
	return out
}

func toHierXML(block *model.DataBlock) xmlBlock {
	out := xmlBlock{Category: block.CategoryID, Length: block.TotalLength}
	for _, rec := range block.Records {
		node := xmlNode{XMLName: xml.Name{Local: "record"}}
		for pair := rec.Items.Oldest(); pair != nil; pair = pair.Next() {
			item := pair.Value
			wrapper := xmlNode{XMLName: xml.Name{Local: "item"}}
			wrapper.Children = append(wrapper.Children, xmlNode{XMLName: xml.Name{Local: "id"}, Text: item.ItemID})
			wrapper.Children = append(wrapper.Children, xmlNode{XMLName: xml.Name{Local: "name"}, Text: item.Name})
			if item.Err != nil {
				wrapper.ErrAttr = item.Err.Error()
			} else {
				wrapper.Children = append(wrapper.Children, fieldValueToXML("value", item.Value, true))
			}
			node.Children = append(node.Children, wrapper)
		}
		for _, e := range rec.Errors {
			node.Children = append(node.Children, xmlNode{XMLName: xml.Name{Local: "error"}, Text: e.Error()})
		}
		out.Records = append(out.Records, node)
	}
	return out
}

func fieldValueToXML(name string, fv *model.FieldValue, withMeaning bool) xmlNode {
	node := xmlNode{XMLName: xml.Name{Local: safeTag(name)}}

	switch fv.Kind {
	case model.KindNested:
		for pair := fv.Nested.Oldest(); pair != nil; pair = pair.Next() {
			node.Children = append(node.Children, fieldValueToXML(pair.Key, pair.Value, withMeaning))
		}
	case model.KindArray:
		for i, el := range fv.Array {
			node.Children = append(node.Children, fieldValueToXML(fmt.Sprintf("item%d", i), el, withMeaning))
		}
	default:
		node.Text = scalarXMLText(fv)
		if withMeaning {
			node.Attr = fv.Meaning
		}
	}
	return node
}

func scalarXMLText(fv *model.FieldValue) string {
	switch fv.Kind {
	case model.KindInteger:
		return fmt.Sprintf("%d", fv.Int)
	case model.KindUnsignedInteger:
		return fmt.Sprintf("%d", fv.Uint)
	case model.KindFloat:
		return strconv.FormatFloat(fv.Float, 'f', fv.Precision, 64)
	case model.KindString:
		return fv.Str
	case model.KindBytes:
		return fmt.Sprintf("%x", fv.Bytes)
	case model.KindBitFlag:
		return fmt.Sprintf("%t", fv.BitFlag)
	default:
		return ""
	}
}

// safeTag guards against field short names that aren't valid XML element
// local names (e.g. starting with a digit); such names are vanishingly
// rare in practice but would otherwise produce unparsable output.
func safeTag(name string) string {
	if name == "" {
		return "field"
	}
	if name[0] >= '0' && name[0] <= '9' {
		return "f_" + name
	}
	return name
}
