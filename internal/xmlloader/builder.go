package xmlloader

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/srg/asterix/internal/registry"
)

// buildCategory converts a parsed xmlCategory into a registry.Category,
// building every DataItem's FormatDescriptor tree and every UAP's ordered
// FRN list along the way.
func buildCategory(x *xmlCategory, file string, logger *logrus.Logger) (*registry.Category, error) {
	id, err := strconv.ParseUint(x.ID, 10, 8)
	if err != nil {
		return nil, &XMLParseError{File: file, Detail: fmt.Sprintf("invalid category id %q", x.ID), Cause: err}
	}

	cat := &registry.Category{
		ID:       uint8(id),
		Name:     x.Name,
		Version:  x.Ver,
		Filtered: x.Filtered,
		Items:    make(map[string]*registry.DataItemDescription, len(x.DataItems)),
	}

	for _, di := range x.DataItems {
		desc, err := buildDataItem(di, file)
		if err != nil {
			return nil, err
		}
		if _, dup := cat.Items[desc.ItemID]; dup {
			logger.WithFields(logrus.Fields{"file": file, "item": desc.ItemID}).
				Warn("xmlloader: duplicate DataItem id, keeping first declaration")
			continue
		}
		cat.Items[desc.ItemID] = desc
	}

	for _, xu := range x.UAPs {
		cat.UAPs = append(cat.UAPs, buildUAP(xu, logger, file))
	}

	return cat, nil
}

func buildUAP(xu xmlUAP, logger *logrus.Logger, file string) *registry.UAP {
	u := &registry.UAP{Name: xu.Name}

	if xu.UseIfBit != "" {
		bit, err := strconv.Atoi(xu.UseIfBit)
		if err != nil {
			logger.WithFields(logrus.Fields{"file": file, "uap": xu.Name}).
				Warn("xmlloader: ignoring unparseable use_if_bit attribute")
		} else {
			val, verr := strconv.ParseInt(xu.UseIfValue, 10, 64)
			if verr != nil {
				logger.WithFields(logrus.Fields{"file": file, "uap": xu.Name}).
					Warn("xmlloader: ignoring use_if_bit with unparseable use_if_value")
			} else {
				u.HasSelector = true
				u.SelectorBit = bit
				u.SelectorVal = val
			}
		}
	}

	for _, it := range xu.Items {
		u.Items = append(u.Items, &registry.UAPItem{
			FRN:            it.Bit,
			ItemID:         it.ItemID,
			IsExtender:     it.Extender,
			IsPresenceOnly: it.PresenceOnly,
		})
	}
	return u
}

func buildDataItem(x xmlDataItem, file string) (*registry.DataItemDescription, error) {
	format, err := buildFormat(x.xmlFormat, file, x.ID)
	if err != nil {
		return nil, err
	}
	return &registry.DataItemDescription{
		ItemID: x.ID,
		Name:   x.Name,
		Rule:   registry.ParseRule(x.Rule),
		Format: format,
	}, nil
}

func buildFormat(f xmlFormat, file, itemID string) (*registry.FormatDescriptor, error) {
	switch {
	case f.Fixed != nil:
		fixed, err := buildFixed(*f.Fixed, file, itemID)
		if err != nil {
			return nil, err
		}
		return &registry.FormatDescriptor{Kind: registry.FormatFixed, Fixed: fixed}, nil

	case f.Variable != nil:
		parts := make([]*registry.FixedFormat, 0, len(f.Variable.Parts))
		for _, p := range f.Variable.Parts {
			ff, err := buildFixed(p, file, itemID)
			if err != nil {
				return nil, err
			}
			parts = append(parts, ff)
		}
		if len(parts) == 0 {
			return nil, &XMLParseError{File: file, Detail: fmt.Sprintf("item %s: Variable has no parts", itemID)}
		}
		return &registry.FormatDescriptor{Kind: registry.FormatVariable, Variable: &registry.VariableFormat{Parts: parts}}, nil

	case f.Repetitive != nil:
		ff, err := buildFixed(f.Repetitive.Element, file, itemID)
		if err != nil {
			return nil, err
		}
		return &registry.FormatDescriptor{Kind: registry.FormatRepetitive, Repetitive: &registry.RepetitiveFormat{Element: ff}}, nil

	case f.Compound != nil:
		subs := make([]*registry.CompoundSubField, 0, len(f.Compound.SubFields))
		for _, sub := range f.Compound.SubFields {
			sf, err := buildFormat(sub.xmlFormat, file, itemID+"/"+sub.Name)
			if err != nil {
				return nil, err
			}
			subs = append(subs, &registry.CompoundSubField{Name: sub.Name, Format: sf})
		}
		return &registry.FormatDescriptor{Kind: registry.FormatCompound, Compound: &registry.CompoundFormat{SubFields: subs}}, nil

	case f.Explicit != nil:
		var inner *registry.FormatDescriptor
		if f.Explicit.Fixed != nil || f.Explicit.Variable != nil || f.Explicit.Repetitive != nil ||
			f.Explicit.Compound != nil || f.Explicit.BDS != nil {
			var err error
			inner, err = buildFormat(f.Explicit.xmlFormat, file, itemID)
			if err != nil {
				return nil, err
			}
		}
		return &registry.FormatDescriptor{Kind: registry.FormatExplicit, Explicit: &registry.ExplicitFormat{Inner: inner}}, nil

	case f.BDS != nil:
		regs := make(map[uint8]*registry.FixedFormat, len(f.BDS.Registers))
		for _, r := range f.BDS.Registers {
			code, err := strconv.ParseUint(r.Code, 16, 8)
			if err != nil {
				return nil, &XMLParseError{File: file, Detail: fmt.Sprintf("item %s: invalid BDS register code %q", itemID, r.Code), Cause: err}
			}
			ff, err := buildFixed(r.Fixed, file, itemID)
			if err != nil {
				return nil, err
			}
			regs[uint8(code)] = ff
		}
		return &registry.FormatDescriptor{Kind: registry.FormatBDS, BDS: &registry.BDSFormat{Registers: regs}}, nil

	default:
		return nil, &XMLParseError{File: file, Detail: fmt.Sprintf("item %s: no format element declared", itemID)}
	}
}

func buildFixed(x xmlFixed, file, itemID string) (*registry.FixedFormat, error) {
	ff := &registry.FixedFormat{LengthBytes: x.Length}
	seen := make([][2]int, 0, len(x.Bits))

	for _, b := range x.Bits {
		for _, r := range seen {
			if b.From <= r[1] && r[0] <= b.To {
				return nil, &XMLParseError{File: file, Detail: fmt.Sprintf("item %s: bit range [%d,%d] overlaps [%d,%d]", itemID, b.From, b.To, r[0], r[1])}
			}
		}
		seen = append(seen, [2]int{b.From, b.To})

		bf := &registry.BitField{
			ShortName: b.Name,
			LongName:  b.LongName,
			FromBit:   b.From,
			ToBit:     b.To,
			Encoding:  registry.ParseEncoding(b.Encode),
			Unit:      b.Unit,
		}
		if b.Scale != "" {
			scale, err := strconv.ParseFloat(b.Scale, 64)
			if err != nil {
				return nil, &XMLParseError{File: file, Detail: fmt.Sprintf("item %s: invalid scale %q", itemID, b.Scale), Cause: err}
			}
			bf.HasScale = true
			bf.Scale = scale
		}
		if b.Precision != "" {
			prec, err := strconv.Atoi(b.Precision)
			if err == nil {
				bf.Precision = prec
			}
		}
		if len(b.Values) > 0 {
			bf.MeaningTable = make(map[int64]string, len(b.Values))
			for _, v := range b.Values {
				val, err := strconv.ParseInt(v.Val, 10, 64)
				if err != nil {
					continue
				}
				bf.MeaningTable[val] = v.Meaning
			}
		}
		ff.Fields = append(ff.Fields, bf)
	}
	return ff, nil
}
