package ast

import (
	"cmp"
	"iter"
	"maps"
	"slices"
)

// Prop is one entry of a PropSet as seen during iteration.
// Flags have HasValue false and an empty Value.
type Prop struct {
	Key      Key
	Value    Text
	HasValue bool
}

// PropSet holds the properties of a tag or document header: a set of flags
// and a map of valued settings. The two namespaces are independent, so a
// key may be a flag and a setting at once.
//
// The zero value is an empty set ready to use.
type PropSet struct {
	flags    map[Key]struct{}
	settings map[Key]Text
}

// NewPropSet returns an empty property set.
func NewPropSet() PropSet {
	return PropSet{}
}

// Set marks key as a flag.
func (p *PropSet) Set(key Key) {
	if p.flags == nil {
		p.flags = make(map[Key]struct{})
	}
	p.flags[key] = struct{}{}
}

// Unset removes a flag and reports whether it was present.
func (p *PropSet) Unset(key Key) bool {
	if _, ok := p.flags[key]; !ok {
		return false
	}
	delete(p.flags, key)
	return true
}

// IsSet reports whether key is a flag.
func (p *PropSet) IsSet(key Key) bool {
	_, ok := p.flags[key]
	return ok
}

// Put stores a setting, returning the previous value if there was one.
func (p *PropSet) Put(key Key, value Text) (Text, bool) {
	if p.settings == nil {
		p.settings = make(map[Key]Text)
	}
	prev, ok := p.settings[key]
	p.settings[key] = value
	return prev, ok
}

// Delete removes a setting, returning its value if there was one.
func (p *PropSet) Delete(key Key) (Text, bool) {
	prev, ok := p.settings[key]
	if ok {
		delete(p.settings, key)
	}
	return prev, ok
}

// Lookup returns the setting stored under key.
func (p *PropSet) Lookup(key Key) (Text, bool) {
	v, ok := p.settings[key]
	return v, ok
}

// Len returns the number of flags plus settings.
func (p *PropSet) Len() int {
	return len(p.flags) + len(p.settings)
}

// IsEmpty reports whether there are no flags and no settings.
func (p *PropSet) IsEmpty() bool {
	return p.Len() == 0
}

// All yields every flag and then every setting, in unspecified order.
func (p *PropSet) All() iter.Seq[Prop] {
	return func(yield func(Prop) bool) {
		for k := range p.flags {
			if !yield(Prop{Key: k}) {
				return
			}
		}
		for k, v := range p.settings {
			if !yield(Prop{Key: k, Value: v, HasValue: true}) {
				return
			}
		}
	}
}

// Flags yields every flag key.
func (p *PropSet) Flags() iter.Seq[Key] {
	return maps.Keys(p.flags)
}

// Settings yields every setting.
func (p *PropSet) Settings() iter.Seq2[Key, Text] {
	return maps.All(p.settings)
}

// Sorted returns every entry ordered by key name, flags before settings
// when a name appears in both.
func (p *PropSet) Sorted() []Prop {
	out := slices.Collect(p.All())
	slices.SortFunc(out, func(a, b Prop) int {
		if c := cmp.Compare(a.Key.String(), b.Key.String()); c != 0 {
			return c
		}
		switch {
		case a.HasValue == b.HasValue:
			return 0
		case a.HasValue:
			return 1
		default:
			return -1
		}
	})
	return out
}

// Equal reports whether both sets hold the same flags and settings, with
// settings compared by content.
func (p *PropSet) Equal(other *PropSet) bool {
	if len(p.flags) != len(other.flags) || len(p.settings) != len(other.settings) {
		return false
	}
	for k := range p.flags {
		if _, ok := other.flags[k]; !ok {
			return false
		}
	}
	for k, v := range p.settings {
		ov, ok := other.settings[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy. Text values are shared, not copied.
func (p *PropSet) Clone() PropSet {
	return PropSet{
		flags:    maps.Clone(p.flags),
		settings: maps.Clone(p.settings),
	}
}

// IntoOwned converts every setting value to owned text in place.
func (p *PropSet) IntoOwned() {
	for k, v := range p.settings {
		p.settings[k] = v.IntoOwned()
	}
}
