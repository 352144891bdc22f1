// Package xmlloader parses the XML category definition files described in
// spec §6.2 into internal/registry structures.
package xmlloader

import "encoding/xml"

// The xml* types below mirror §6.2's element/attribute shapes directly.
// encoding/xml's default unmarshal ignores attributes and child elements
// this schema doesn't name; they are dropped without an error and without
// a logged warning. The loader's logger warns only about duplicate
// <DataItem> ids and about a <UAP> whose use_if_bit or use_if_value cannot
// be parsed; a <DataItem> with no recognizable format element is rejected
// with an XMLParseError.

type xmlCategory struct {
	XMLName   xml.Name      `xml:"Category"`
	ID        string        `xml:"id,attr"`
	Name      string        `xml:"name,attr"`
	Ver       string        `xml:"ver,attr"`
	Filtered  bool          `xml:"filtered,attr"`
	UAPs      []xmlUAP      `xml:"UAP"`
	DataItems []xmlDataItem `xml:"DataItem"`
}

type xmlUAP struct {
	Name       string       `xml:"name,attr"`
	UseIfBit   string       `xml:"use_if_bit,attr"`
	UseIfValue string       `xml:"use_if_value,attr"`
	Items      []xmlUAPItem `xml:"UAPItem"`
}

type xmlUAPItem struct {
	Bit          int    `xml:"bit,attr"`
	Extender     bool   `xml:"extender,attr"`
	PresenceOnly bool   `xml:"presence_only,attr"`
	ItemID       string `xml:",chardata"`
}

// xmlFormat is embedded wherever §6.2 allows any one of the six format
// elements: directly under <DataItem>, under a Compound <SubField>, and
// under <Explicit> for recursively-decoded payloads.
type xmlFormat struct {
	Fixed      *xmlFixed      `xml:"Fixed"`
	Variable   *xmlVariable   `xml:"Variable"`
	Repetitive *xmlRepetitive `xml:"Repetitive"`
	Compound   *xmlCompound   `xml:"Compound"`
	Explicit   *xmlExplicit   `xml:"Explicit"`
	BDS        *xmlBDS        `xml:"BDS"`
}

type xmlDataItem struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
	Rule string `xml:"rule,attr"`
	xmlFormat
}

type xmlFixed struct {
	Length int       `xml:"length,attr"`
	Bits   []xmlBits `xml:"Bits"`
}

type xmlBits struct {
	From      int            `xml:"from,attr"`
	To        int            `xml:"to,attr"`
	Name      string         `xml:"name,attr"`
	LongName  string         `xml:"longname,attr"`
	Encode    string         `xml:"encode,attr"`
	Scale     string         `xml:"scale,attr"`
	Precision string         `xml:"precision,attr"`
	Unit      string         `xml:"unit,attr"`
	Values    []xmlBitsValue `xml:"BitsValue"`
}

type xmlBitsValue struct {
	Val     string `xml:"val,attr"`
	Meaning string `xml:",chardata"`
}

type xmlVariable struct {
	Parts []xmlFixed `xml:"Fixed"`
}

type xmlRepetitive struct {
	Element xmlFixed `xml:"Fixed"`
}

type xmlCompound struct {
	SubFields []xmlCompoundSubField `xml:"SubField"`
}

type xmlCompoundSubField struct {
	Name string `xml:"name,attr"`
	xmlFormat
}

type xmlExplicit struct {
	xmlFormat
}

type xmlBDS struct {
	Registers []xmlBDSRegister `xml:"Register"`
}

type xmlBDSRegister struct {
	Code  string   `xml:"code,attr"`
	Fixed xmlFixed `xml:"Fixed"`
}
