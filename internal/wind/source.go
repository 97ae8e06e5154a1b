package wind

import "context"

// Source abstracts one upstream wind endpoint (realtime reading or forecast).
// Fetch never returns an error: any network or parse failure yields a zero
// Observation, which callers treat as absent.
type Source interface {
	Name() string
	Fetch(ctx context.Context, at Coordinates, tzHint string) Observation
}
