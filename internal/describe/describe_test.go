package describe

import (
	"testing"

	"github.com/srg/asterix/internal/registry"
)

func fixtureRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	desc := &registry.DataItemDescription{
		ItemID: "010",
		Name:   "Data Source Identifier",
		Rule:   registry.Mandatory,
		Format: &registry.FormatDescriptor{
			Kind: registry.FormatFixed,
			Fixed: &registry.FixedFormat{
				LengthBytes: 2,
				Fields: []*registry.BitField{
					{ShortName: "SAC", LongName: "System Area Code", FromBit: 9, ToBit: 16,
						MeaningTable: map[int64]string{0: "Local"}},
					{ShortName: "SIC", LongName: "System Identification Code", FromBit: 1, ToBit: 8},
				},
			},
		},
	}
	cat := &registry.Category{
		ID: 48, Name: "Monoradar Target Reports", Version: "1.21",
		UAPs:  []*registry.UAP{{Name: "default", Items: []*registry.UAPItem{{FRN: 1, ItemID: "010"}}}},
		Items: map[string]*registry.DataItemDescription{"010": desc},
	}
	reg := registry.New()
	if err := reg.AddCategory(cat); err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	return reg
}

func TestDescribeCategoryOnly(t *testing.T) {
	reg := fixtureRegistry(t)
	ans, err := Describe(reg, 48, "", "")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if ans.Category.Name != "Monoradar Target Reports" {
		t.Fatalf("unexpected category name %q", ans.Category.Name)
	}
	if ans.Item != nil {
		t.Fatalf("item should be nil when itemID is empty")
	}
}

func TestDescribeItemAndField(t *testing.T) {
	reg := fixtureRegistry(t)
	ans, err := Describe(reg, 48, "010", "SAC")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if ans.Item == nil || ans.Item.ItemID != "010" {
		t.Fatalf("item not resolved: %+v", ans.Item)
	}
	if ans.Field == nil || ans.Field.ShortName != "SAC" {
		t.Fatalf("field not resolved: %+v", ans.Field)
	}
}

func TestDescribeValueResolvesMeaning(t *testing.T) {
	reg := fixtureRegistry(t)
	ans, err := DescribeValue(reg, 48, "010", "SAC", 0)
	if err != nil {
		t.Fatalf("DescribeValue: %v", err)
	}
	if ans.Field.Meaning != "Local" {
		t.Fatalf("meaning = %q, want Local", ans.Field.Meaning)
	}
}

func TestDescribeUnknownCategory(t *testing.T) {
	reg := fixtureRegistry(t)
	if _, err := Describe(reg, 199, "", ""); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}

func TestDescribeUnknownItem(t *testing.T) {
	reg := fixtureRegistry(t)
	if _, err := Describe(reg, 48, "999", ""); err == nil {
		t.Fatalf("expected error for unknown item")
	}
}
