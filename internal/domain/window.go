package domain

// TimeWindow is a named inclusive range [Start, End] in normalized epoch
// seconds. Windows may overlap or be adjacent; each event is tested against
// every window independently.
type TimeWindow struct {
	Start int64
	End   int64
}

// Contains reports whether the normalized timestamp falls inside the window.
// Both bounds are inclusive.
func (w TimeWindow) Contains(ts int64) bool {
	return ts >= w.Start && ts <= w.End
}

// WindowResult accumulates liquidity flows for a single window.
type WindowResult struct {
	TotalAdds    float64
	TotalRemoves float64

	// RemovalsByActor maps actor address to its summed removal value.
	// Only actors with a non-empty address appear here.
	RemovalsByActor map[string]float64
}

// NetFlow is adds minus removes for the window.
func (r *WindowResult) NetFlow() float64 {
	return r.TotalAdds - r.TotalRemoves
}
