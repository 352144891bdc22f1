package decoder

import (
	"github.com/srg/asterix/internal/bitio"
	"github.com/srg/asterix/internal/registry"
)

// selectUAP implements §4.3/§4.4 step 3: a category with only default
// (non-discriminated) UAPs needs no lookahead; a category with a
// discriminator predicate peeks one byte past the first record's FSPEC
// (without consuming it) and compares the designated bit against each
// candidate UAP's declared value. The first declared matching UAP wins;
// when none matches or the data is missing, the first declared default
// UAP is used.
func selectUAP(cat *registry.Category, cur *bitio.Cursor) *registry.UAP {
	if len(cat.UAPs) == 0 {
		return nil
	}

	hasSelector := false
	selectorBit := 0
	for _, u := range cat.UAPs {
		if u.HasSelector {
			hasSelector = true
			selectorBit = u.SelectorBit
			break
		}
	}
	if !hasSelector {
		return cat.SelectUAP(0, false)
	}

	trial := cur.Clone()
	if _, err := parseFSPEC(trial); err != nil {
		return cat.SelectUAP(0, false)
	}
	b, err := trial.ReadBytes(1)
	if err != nil {
		return cat.SelectUAP(0, false)
	}
	val, err := bitio.Extract(b, selectorBit, selectorBit, false)
	if err != nil {
		return cat.SelectUAP(0, false)
	}
	return cat.SelectUAP(val, true)
}
