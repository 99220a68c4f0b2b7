package analysis

// Pair is one comparison between two selection slots, SlotA < SlotB. Source
// fields are store indices; two slots may point at the same source, which
// yields a flat zero divergence rather than an error.
type Pair struct {
	SlotA, SlotB     int
	SourceA, SourceB int
}

// ActivePairs enumerates every two-slot combination over the active slots,
// in slot order: (0,1), (0,2), (1,2), ...
func ActivePairs(slots []Slot) []Pair {
	var active []int
	for i, sl := range slots {
		if sl.Active {
			active = append(active, i)
		}
	}
	if len(active) < 2 {
		return nil
	}
	pairs := make([]Pair, 0, len(active)*(len(active)-1)/2)
	for x := 0; x < len(active); x++ {
		for y := x + 1; y < len(active); y++ {
			i, j := active[x], active[y]
			pairs = append(pairs, Pair{
				SlotA: i, SlotB: j,
				SourceA: slots[i].Source, SourceB: slots[j].Source,
			})
		}
	}
	return pairs
}
