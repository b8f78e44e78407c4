package proto

import (
	"sort"
	"strconv"

	"github.com/wavesplatform/gonem/pkg/errs"
)

// PropertyName is one of the four properties a mosaic definition may carry.
type PropertyName string

const (
	DivisibilityProperty  PropertyName = "divisibility"
	InitialSupplyProperty PropertyName = "initialSupply"
	SupplyMutableProperty PropertyName = "supplyMutable"
	TransferableProperty  PropertyName = "transferable"
)

// propertyRanks is the order properties take on the wire, whatever order they were given in.
var propertyRanks = map[PropertyName]int{
	DivisibilityProperty:  1,
	InitialSupplyProperty: 2,
	SupplyMutableProperty: 3,
	TransferableProperty:  4,
}

// Rank returns the wire position of the property and false for a name outside the known set.
func (n PropertyName) Rank() (int, bool) {
	r, ok := propertyRanks[n]
	return r, ok
}

// sortProperties returns a copy of properties in canonical order.
// Unknown and repeated names are rejected because their position would be undefined.
func sortProperties(properties []Property) ([]Property, error) {
	type ranked struct {
		rank int
		p    Property
	}
	rs := make([]ranked, len(properties))
	seen := make(map[PropertyName]struct{}, len(properties))
	for i, p := range properties {
		name := PropertyName(p.Name)
		r, ok := name.Rank()
		if !ok {
			return nil, errs.NewMalformedFieldf(propertyField(i), "unknown mosaic property %q", p.Name)
		}
		if _, dup := seen[name]; dup {
			return nil, errs.NewMalformedFieldf(propertyField(i), "duplicated mosaic property %q", p.Name)
		}
		seen[name] = struct{}{}
		rs[i] = ranked{rank: r, p: p}
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i].rank < rs[j].rank })
	out := make([]Property, len(rs))
	for i := range rs {
		out[i] = rs[i].p
	}
	return out, nil
}

func propertyField(i int) string {
	return "properties[" + strconv.Itoa(i) + "].name"
}
