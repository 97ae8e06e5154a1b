package location

import (
	"context"
	"sort"

	"github.com/PtitMax51/vent-pdf/internal/wind"
)

// StaticResolver resolves identifiers against a fixed table injected at
// construction. Lookups are exact after key normalization; there is no fuzzy
// matching.
type StaticResolver struct {
	table map[string]Place
}

// DefaultTable covers the cities the tool has historically supported.
func DefaultTable() map[string]Place {
	return map[string]Place{
		"reims":   {Name: "Reims", Coord: wind.Coordinates{Lat: 49.2583, Lon: 4.0317}, Timezone: "Europe/Paris"},
		"epernay": {Name: "Epernay", Coord: wind.Coordinates{Lat: 49.0400, Lon: 3.9600}, Timezone: "Europe/Paris"},
	}
}

func NewStaticResolver(table map[string]Place) *StaticResolver {
	cp := make(map[string]Place, len(table))
	for k, v := range table {
		cp[normalizeKey(k)] = v
	}
	return &StaticResolver{table: cp}
}

func (r *StaticResolver) Resolve(_ context.Context, identifier string) (Place, error) {
	if p, ok := r.table[normalizeKey(identifier)]; ok {
		return p, nil
	}
	keys := make([]string, 0, len(r.table))
	for k := range r.table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return Place{}, &NotFoundError{Query: identifier, Supported: keys}
}
