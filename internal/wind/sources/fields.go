package sources

import (
	"encoding/json"
	"strconv"
)

// fieldProbe names one candidate location of a value inside a forecast step:
// an optional object path to descend, then the final key to read.
type fieldProbe struct {
	path []string
	key  string
}

// The forecast schema has shifted several times and old field names still
// show up in cached responses, so both probes carry the historical aliases in
// preference order. Direct top-level keys come first, then the nested "wind"
// sub-object.
var speedProbes = []fieldProbe{
	{key: "wind10m"},
	{key: "wind_speed_10m"},
	{key: "windspeed10m"},
	{key: "wind_speed"},
	{key: "WindSpeed"},
	{path: []string{"wind"}, key: "speed"},
	{path: []string{"wind"}, key: "speed10m"},
	{path: []string{"wind"}, key: "v"},
}

var directionProbes = []fieldProbe{
	{key: "dirwind10m"},
	{key: "wind_direction_10m"},
	{key: "winddir10m"},
	{key: "wind_direction"},
	{key: "WindDirection"},
	{path: []string{"wind"}, key: "dir"},
	{path: []string{"wind"}, key: "direction"},
	{path: []string{"wind"}, key: "d"},
}

// probeFloat tries each probe in order and returns the first value that
// parses as a number. Values that exist but do not parse are skipped, not
// treated as a match.
func probeFloat(step map[string]any, probes []fieldProbe) *float64 {
	for _, p := range probes {
		node := step
		ok := true
		for _, seg := range p.path {
			child, isMap := node[seg].(map[string]any)
			if !isMap {
				ok = false
				break
			}
			node = child
		}
		if !ok {
			continue
		}
		if v, parsed := asFloat(node[p.key]); parsed {
			return &v
		}
	}
	return nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// validDirection keeps only directions inside [0, 360); anything else is
// treated as absent. Upstream steps occasionally carry sentinel values like
// -90 or 999 where a reading is missing.
func validDirection(v *float64) *float64 {
	if v == nil || *v < 0 || *v >= 360 {
		return nil
	}
	return v
}

// validSpeed treats negative speeds as absent.
func validSpeed(v *float64) *float64 {
	if v == nil || *v < 0 {
		return nil
	}
	return v
}

// normalizeSpeed applies the historical unit heuristic: values under 40 are
// assumed to be m/s and converted to km/h. A genuine sub-40 km/h reading gets
// converted too; kept as-is for compatibility with existing outputs.
func normalizeSpeed(v float64) float64 {
	if v < 40 {
		return v * 3.6
	}
	return v
}
