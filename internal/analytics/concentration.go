package analytics

import "sort"

// concentrationTarget is the share of total removals the ranked actor set
// must reach.
const concentrationTarget = 0.70

// Concentration determines how many actors, ranked by removal value
// descending, account for at least 70% of total removals in a window. The
// returned address is populated only when a single actor suffices; it is the
// "one whale withdrew most of the pool" signal.
//
// Ties are broken by address ascending so the result is reproducible for a
// fixed input. An empty map or zero total yields (0, ""). If accumulated
// values never reach the target (possible only through floating-point
// shortfall), every actor is counted and no sole actor is reported unless
// there is exactly one.
func Concentration(removalsByActor map[string]float64, totalRemovals float64) (int, string) {
	if len(removalsByActor) == 0 || totalRemovals == 0 {
		return 0, ""
	}

	type actorTotal struct {
		addr  string
		total float64
	}
	actors := make([]actorTotal, 0, len(removalsByActor))
	for addr, total := range removalsByActor {
		actors = append(actors, actorTotal{addr: addr, total: total})
	}
	sort.Slice(actors, func(i, j int) bool {
		if actors[i].total != actors[j].total {
			return actors[i].total > actors[j].total
		}
		return actors[i].addr < actors[j].addr
	})

	cumulative := 0.0
	for i, a := range actors {
		cumulative += a.total
		if cumulative/totalRemovals >= concentrationTarget {
			if i == 0 {
				return 1, a.addr
			}
			return i + 1, ""
		}
	}

	if len(actors) == 1 {
		return 1, actors[0].addr
	}
	return len(actors), ""
}
