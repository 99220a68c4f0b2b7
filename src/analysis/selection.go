package analysis

import (
	"github.com/rtomek/MIDRC-Diversity-Calculator/src/datasource"
)

// Slot is one comparison slot: which loaded source it points at and whether
// it participates in chart building.
type Slot struct {
	Source int
	Active bool
}

// Selection tracks the comparison slots and the active category. It is plain
// state; the Controller owns the rebuild that follows every change.
type Selection struct {
	slots    []Slot
	category string
}

// NewSelection creates n active slots spread across numSources sources.
func NewSelection(n, numSources int) *Selection {
	s := &Selection{}
	s.Resize(n, numSources)
	return s
}

// Resize grows or shrinks the slot list. New slots come up active, pointing
// at successive sources (clamped to the last one). Reports a change.
func (s *Selection) Resize(n, numSources int) bool {
	if n < 0 {
		n = 0
	}
	if n == len(s.slots) {
		return false
	}
	for len(s.slots) < n {
		src := len(s.slots)
		if numSources > 0 && src >= numSources {
			src = numSources - 1
		}
		if numSources <= 0 {
			src = 0
		}
		s.slots = append(s.slots, Slot{Source: src, Active: true})
	}
	s.slots = s.slots[:n]
	return true
}

// SlotCount returns the number of comparison slots.
func (s *Selection) SlotCount() int { return len(s.slots) }

// Slots returns a copy of the slot list.
func (s *Selection) Slots() []Slot {
	out := make([]Slot, len(s.slots))
	copy(out, s.slots)
	return out
}

// SetSlot points slot i at a source. Reports a change.
func (s *Selection) SetSlot(i, source int) bool {
	if i < 0 || i >= len(s.slots) || s.slots[i].Source == source {
		return false
	}
	s.slots[i].Source = source
	return true
}

// SetActive toggles slot i's participation. Reports a change.
func (s *Selection) SetActive(i int, on bool) bool {
	if i < 0 || i >= len(s.slots) || s.slots[i].Active == on {
		return false
	}
	s.slots[i].Active = on
	return true
}

// SetCategory switches the active category. Reports a change.
func (s *Selection) SetCategory(category string) bool {
	if s.category == category {
		return false
	}
	s.category = category
	return true
}

// Category returns the active category.
func (s *Selection) Category() string { return s.category }

// ActiveSlots returns the positions of the active slots, in slot order.
func (s *Selection) ActiveSlots() []int {
	var out []int
	for i, sl := range s.slots {
		if sl.Active {
			out = append(out, i)
		}
	}
	return out
}

// CategoryOptions returns the sheet names every slotted source shares, in the
// first slot's sheet order. All slots count, active or not, so switching a
// checkbox never reshuffles the category list.
func CategoryOptions(store *datasource.Store, slots []Slot) []string {
	if len(slots) == 0 || store == nil || store.Len() == 0 {
		return nil
	}
	first, err := store.ByIndex(slots[0].Source)
	if err != nil {
		return nil
	}
	options := make([]string, 0, len(first.SheetNames))
	for _, name := range first.SheetNames {
		shared := true
		for _, sl := range slots[1:] {
			src, err := store.ByIndex(sl.Source)
			if err != nil || src.Sheets[name] == nil {
				shared = false
				break
			}
		}
		if shared {
			options = append(options, name)
		}
	}
	return options
}
