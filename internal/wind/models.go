package wind

// Coordinates locates a place in decimal degrees (WGS84).
type Coordinates struct {
	Lat float64
	Lon float64
}

// Observation is a single wind reading produced by one source attempt.
// A nil field means the value was unavailable upstream; once set, speed is
// always km/h.
type Observation struct {
	SpeedKmh     *float64
	DirectionDeg *float64

	// Timezone is the IANA zone the source declared for the reading,
	// or the hint it was queried with.
	Timezone string
}

// Complete reports whether both speed and direction were resolved. The
// fallback chain only accepts complete observations; partial fields from
// different sources are never merged.
func (o Observation) Complete() bool {
	return o.SpeedKmh != nil && o.DirectionDeg != nil
}

// Float returns a pointer to v, for building observations inline.
func Float(v float64) *float64 { return &v }
