package registry

import (
	"fmt"

	"github.com/cornelk/hashmap"
)

// Registry is the process-lifetime loaded model: Category -> UAP(s) ->
// DataItemDescription (§3). It is built once via AddCategory calls during
// startup and is then treated as read-only; §5 forbids interior mutability
// once parsing begins. categories is a concurrent-safe map so that
// multiple parsers sharing one Registry by reference never race on lookup,
// even though no writer runs after load.
type Registry struct {
	categories *hashmap.Map[uint8, *Category]
	versions   map[string]bool // "(id,ver)" dedup set, §6.2
}

// New returns an empty registry ready to receive categories.
func New() *Registry {
	return &Registry{
		categories: hashmap.New[uint8, *Category](),
		versions:   make(map[string]bool),
	}
}

// AddCategory installs cat into the registry, enforcing the invariants from
// §3/§6.2: every non-spare UAPItem must reference a defined item, and
// (id, ver) pairs are deduplicated rather than rejected outright (loading
// the same file twice is idempotent per §6.3 "load_category... idempotent
// on (id, ver)").
func (r *Registry) AddCategory(cat *Category) error {
	key := fmt.Sprintf("%d/%s", cat.ID, cat.Version)
	if r.versions[key] {
		return nil
	}

	for _, uap := range cat.UAPs {
		for _, item := range uap.Items {
			if item.ItemID == "" {
				continue // spare
			}
			if _, ok := cat.Items[item.ItemID]; !ok {
				return &InvalidCategoryError{
					Category: cat.ID,
					Reason:   fmt.Sprintf("UAP %q references undefined item %s", uap.Name, item.ItemID),
				}
			}
		}
	}

	r.versions[key] = true
	r.categories.Set(cat.ID, cat)
	return nil
}

// Category looks up a loaded category by id (§4.3).
func (r *Registry) Category(id uint8) (*Category, bool) {
	return r.categories.Get(id)
}

// IsCategoryDefined reports whether id has been loaded (§6.3).
func (r *Registry) IsCategoryDefined(id uint8) bool {
	_, ok := r.categories.Get(id)
	return ok
}

// Item looks up a data item description within a category (§4.3).
func (r *Registry) Item(catID uint8, itemID string) (*DataItemDescription, bool) {
	cat, ok := r.categories.Get(catID)
	if !ok {
		return nil, false
	}
	item, ok := cat.Items[itemID]
	return item, ok
}

// BitField looks up a named bit field within an item's Fixed layout
// (§4.3). Non-Fixed items never resolve a named bit field.
func (r *Registry) BitField(catID uint8, itemID, fieldName string) (*BitField, bool) {
	item, ok := r.Item(catID, itemID)
	if !ok || item.Format.Kind != FormatFixed {
		return nil, false
	}
	for _, bf := range item.Format.Fixed.Fields {
		if bf.ShortName == fieldName {
			return bf, true
		}
	}
	return nil, false
}

// Meaning looks up the meaning-table entry for a raw field value (§4.3).
func (r *Registry) Meaning(catID uint8, itemID, fieldName string, raw int64) (string, bool) {
	bf, ok := r.BitField(catID, itemID, fieldName)
	if !ok || bf.MeaningTable == nil {
		return "", false
	}
	m, ok := bf.MeaningTable[raw]
	return m, ok
}

// Categories returns every loaded category, in no defined order.
func (r *Registry) Categories() []*Category {
	out := make([]*Category, 0)
	r.categories.Range(func(_ uint8, cat *Category) bool {
		out = append(out, cat)
		return true
	})
	return out
}
