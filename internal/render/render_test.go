package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/srg/asterix/internal/model"
	"github.com/srg/asterix/internal/testutils"
)

func sampleBlock() *model.DataBlock {
	rec := model.NewDataRecord()
	nested := model.NewNested()
	nested.Set("SAC", model.UnsignedInteger(25))
	nested.Set("SIC", model.UnsignedInteger(1).WithMeaning("Primary radar"))
	rec.Put(&model.DecodedItem{ItemID: "010", Name: "Data Source Identifier", Value: nested})
	return &model.DataBlock{CategoryID: 48, TotalLength: 10, Records: []*model.DataRecord{rec}}
}

// partiallyDecodedBlock mimics what decodeRecord produces when the second
// item in a record fails: one successfully decoded item followed by a
// placeholder item carrying the error that stopped the record.
func partiallyDecodedBlock() *model.DataBlock {
	rec := model.NewDataRecord()
	nested := model.NewNested()
	nested.Set("SAC", model.UnsignedInteger(25))
	rec.Put(&model.DecodedItem{ItemID: "010", Name: "Data Source Identifier", Value: nested})
	itemErr := &model.ItemError{ItemID: "140", Kind: "InsufficientBits", Detail: "need 24 bits, have 8"}
	rec.Fail(itemErr)
	rec.Put(&model.DecodedItem{ItemID: "140", Name: "Time of Day", Err: itemErr})
	return &model.DataBlock{CategoryID: 48, TotalLength: 10, Records: []*model.DataRecord{rec}}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"json": FormatJSON, "JSON-HIER": FormatJSONHierarchical,
		"xml": FormatXML, "xml-hierarchical": FormatXMLHierarchical,
		"outline": FormatOutLine, "OUT-LINE": FormatOutLine,
		"text": FormatText, "": FormatText,
	}
	for in, want := range cases {
		if got := ParseFormat(in); got != want {
			t.Errorf("ParseFormat(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestBlockText(t *testing.T) {
	var buf bytes.Buffer
	if err := Block(&buf, sampleBlock(), FormatText, Options{Verbose: true}); err != nil {
		t.Fatalf("Block: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "category=48") {
		t.Fatalf("missing category header: %s", out)
	}
	if !strings.Contains(out, "Primary radar") {
		t.Fatalf("missing meaning in verbose output: %s", out)
	}
}

func TestBlockCompactJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Block(&buf, sampleBlock(), FormatJSON, Options{}); err != nil {
		t.Fatalf("Block: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	records := decoded["records"].([]any)
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	item := records[0].(map[string]any)["010"].(map[string]any)
	if item["SAC"].(float64) != 25 {
		t.Fatalf("SAC = %v, want 25", item["SAC"])
	}
}

func TestBlockHierarchicalJSONKeepsMeaning(t *testing.T) {
	var buf bytes.Buffer
	if err := Block(&buf, sampleBlock(), FormatJSONHierarchical, Options{}); err != nil {
		t.Fatalf("Block: %v", err)
	}
	if !strings.Contains(buf.String(), "Primary radar") {
		t.Fatalf("hierarchical JSON should retain meaning: %s", buf.String())
	}
}

func TestBlockXML(t *testing.T) {
	var buf bytes.Buffer
	if err := Block(&buf, sampleBlock(), FormatXML, Options{}); err != nil {
		t.Fatalf("Block: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<record>") || !strings.Contains(out, "<SAC>25</SAC>") {
		t.Fatalf("unexpected XML: %s", out)
	}
}

func TestBlockHierarchicalXMLCarriesMeaningAttr(t *testing.T) {
	var buf bytes.Buffer
	if err := Block(&buf, sampleBlock(), FormatXMLHierarchical, Options{}); err != nil {
		t.Fatalf("Block: %v", err)
	}
	if !strings.Contains(buf.String(), `meaning="Primary radar"`) {
		t.Fatalf("expected meaning attribute: %s", buf.String())
	}
}

func TestBlockCompactJSONMatchesGolden(t *testing.T) {
	var buf bytes.Buffer
	if err := Block(&buf, sampleBlock(), FormatJSON, Options{}); err != nil {
		t.Fatalf("Block: %v", err)
	}
	golden := `{"category":48,"length":10,"records":[{"010":{"SAC":25,"SIC":1}}]}`
	testutils.NewJSONAsserter(t).Assert(buf.String(), golden)
}

func TestBlockOutLine(t *testing.T) {
	var buf bytes.Buffer
	if err := Block(&buf, sampleBlock(), FormatOutLine, Options{}); err != nil {
		t.Fatalf("Block: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "CAT048;") {
		t.Fatalf("missing category prefix: %s", out)
	}
	if !strings.Contains(out, "010=SAC:25,SIC:1") {
		t.Fatalf("expected semicolon-separated item, got: %s", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("expected exactly one line per record: %q", out)
	}
}

func TestBlockCompactJSONAttachesErrorToOffendingItem(t *testing.T) {
	var buf bytes.Buffer
	if err := Block(&buf, partiallyDecodedBlock(), FormatJSON, Options{}); err != nil {
		t.Fatalf("Block: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	record := decoded["records"].([]any)[0].(map[string]any)
	failed := record["140"].(map[string]any)
	if !strings.Contains(failed["_error"].(string), "InsufficientBits") {
		t.Fatalf("expected _error on offending item, got: %v", record)
	}
}

func TestBlockHierarchicalJSONAttachesErrorToOffendingItem(t *testing.T) {
	var buf bytes.Buffer
	if err := Block(&buf, partiallyDecodedBlock(), FormatJSONHierarchical, Options{}); err != nil {
		t.Fatalf("Block: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"_error"`) || !strings.Contains(out, "InsufficientBits") {
		t.Fatalf("expected per-item _error field: %s", out)
	}
}

func TestBlockXMLAttachesErrorToOffendingItem(t *testing.T) {
	var buf bytes.Buffer
	if err := Block(&buf, partiallyDecodedBlock(), FormatXML, Options{}); err != nil {
		t.Fatalf("Block: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `_error="InsufficientBits`) {
		t.Fatalf("expected _error attribute on offending item: %s", out)
	}
}

func TestBlockHierarchicalXMLAttachesErrorToOffendingItem(t *testing.T) {
	var buf bytes.Buffer
	if err := Block(&buf, partiallyDecodedBlock(), FormatXMLHierarchical, Options{}); err != nil {
		t.Fatalf("Block: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `_error="InsufficientBits`) {
		t.Fatalf("expected _error attribute on offending item wrapper: %s", out)
	}
}

func TestScaledFloatPrecision(t *testing.T) {
	tod := model.Float(10.0078125)
	tod.Precision = 7 // scale 0.0078125 = 1/128, needs 7 decimal digits
	if got := formatScaledFloat(tod); got != "10.0078125" {
		t.Fatalf("formatScaledFloat = %q, want 10.0078125", got)
	}
	if got := roundToPrecision(tod.Float, tod.Precision); got != 10.0078125 {
		t.Fatalf("roundToPrecision = %v, want 10.0078125", got)
	}
}
