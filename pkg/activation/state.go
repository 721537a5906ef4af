// Package activation implements the spreading-activation state used by
// pkg/assembler to decide which tags, and therefore which facts, are
// relevant to a given narrative event.
package activation

import (
	"sort"

	"github.com/narrativekit/kb/pkg/kb"
)

// State tracks activation energy per tag during and after spreading.
// It carries no locking of its own: a State is built and consumed
// within a single assembly call and is never shared across goroutines.
type State struct {
	energies map[kb.Tag]float64
}

// New returns an empty activation state.
func New() *State {
	return &State{energies: make(map[kb.Tag]float64)}
}

// AddEnergy accumulates energy into tag's existing value.
func (s *State) AddEnergy(tag kb.Tag, energy float64) {
	s.energies[tag] += energy
}

// SetEnergy overwrites tag's energy with a specific value.
func (s *State) SetEnergy(tag kb.Tag, energy float64) {
	s.energies[tag] = energy
}

// GetEnergy returns tag's current energy, or 0 if the tag has never been touched.
func (s *State) GetEnergy(tag kb.Tag) float64 {
	return s.energies[tag]
}

// IsActive reports whether tag carries any positive energy.
func (s *State) IsActive(tag kb.Tag) bool {
	return s.GetEnergy(tag) > 0
}

// TagEnergy pairs a tag with its energy, returned by HotTags and HottestTag.
type TagEnergy struct {
	Tag    kb.Tag
	Energy float64
}

// HotTags returns every tag at or above threshold, sorted by energy
// descending. Ties are broken by canonical tag string so results are
// deterministic regardless of map iteration order.
func (s *State) HotTags(threshold float64) []TagEnergy {
	out := make([]TagEnergy, 0, len(s.energies))
	for tag, energy := range s.energies {
		if energy >= threshold {
			out = append(out, TagEnergy{Tag: tag, Energy: energy})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Energy != out[j].Energy {
			return out[i].Energy > out[j].Energy
		}
		return out[i].Tag.String() < out[j].Tag.String()
	})
	return out
}

// HottestTag returns the tag with the highest energy, and false if the
// state is empty. Ties are broken by canonical tag string.
func (s *State) HottestTag() (TagEnergy, bool) {
	if len(s.energies) == 0 {
		return TagEnergy{}, false
	}
	var best TagEnergy
	first := true
	for tag, energy := range s.energies {
		if first || energy > best.Energy || (energy == best.Energy && tag.String() < best.Tag.String()) {
			best = TagEnergy{Tag: tag, Energy: energy}
			first = false
		}
	}
	return best, true
}

// TotalEnergy returns the sum of all tag energies.
func (s *State) TotalEnergy() float64 {
	total := 0.0
	for _, e := range s.energies {
		total += e
	}
	return total
}

// ActiveCount returns the number of tags tracked, regardless of sign.
func (s *State) ActiveCount() int {
	return len(s.energies)
}

// Each calls fn once per tracked tag and its energy. Iteration order is unspecified.
func (s *State) Each(fn func(tag kb.Tag, energy float64)) {
	for tag, energy := range s.energies {
		fn(tag, energy)
	}
}

// ApplyDecay multiplies every tracked energy by rate.
func (s *State) ApplyDecay(rate float64) {
	for tag := range s.energies {
		s.energies[tag] *= rate
	}
}

// Prune removes every tag whose energy is below threshold.
func (s *State) Prune(threshold float64) {
	for tag, energy := range s.energies {
		if energy < threshold {
			delete(s.energies, tag)
		}
	}
}

// Normalize divides every energy by the current maximum, leaving the
// state untouched if the maximum is not positive.
func (s *State) Normalize() {
	hottest, ok := s.HottestTag()
	if !ok || hottest.Energy <= 0 {
		return
	}
	for tag := range s.energies {
		s.energies[tag] /= hottest.Energy
	}
}

// Merge adds every energy in other into s (additive union).
func (s *State) Merge(other *State) {
	other.Each(func(tag kb.Tag, energy float64) {
		s.AddEnergy(tag, energy)
	})
}

// Clear removes all tracked energies.
func (s *State) Clear() {
	s.energies = make(map[kb.Tag]float64)
}
