package game

import (
	"encoding/json"
	"sort"
)

// Trait is a boolean capability granted to a player. Traits travel as a JSON
// array of strings; earlier revisions of the protocol used a numeric bitmask,
// the string set is canonical now.
type Trait string

const (
	TraitWalkThroughBombs Trait = "walkThroughBombs"
	TraitInvincible       Trait = "invincible"
)

// TraitSet is an unordered set of traits with a stable wire encoding.
type TraitSet map[Trait]struct{}

// NewTraitSet builds a set from the given traits.
func NewTraitSet(traits ...Trait) TraitSet {
	set := make(TraitSet, len(traits))
	for _, t := range traits {
		set[t] = struct{}{}
	}
	return set
}

// Has reports whether the trait is present.
func (s TraitSet) Has(t Trait) bool {
	_, ok := s[t]
	return ok
}

// Add inserts the trait.
func (s TraitSet) Add(t Trait) {
	s[t] = struct{}{}
}

// Remove deletes the trait.
func (s TraitSet) Remove(t Trait) {
	delete(s, t)
}

// MarshalJSON encodes the set as a sorted string array.
func (s TraitSet) MarshalJSON() ([]byte, error) {
	names := make([]string, 0, len(s))
	for t := range s {
		names = append(names, string(t))
	}
	sort.Strings(names)
	return json.Marshal(names)
}

// UnmarshalJSON accepts a string array. Unknown trait names are kept as-is
// so a newer server does not break an older client.
func (s *TraitSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	set := make(TraitSet, len(names))
	for _, name := range names {
		set[Trait(name)] = struct{}{}
	}
	*s = set
	return nil
}
