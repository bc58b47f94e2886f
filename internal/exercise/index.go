package exercise

import "slices"

// Index is an immutable, case-insensitive lookup over core and custom
// exercises. Build a new Index whenever the custom set changes.
type Index struct {
	entries    []Definition
	position   map[string]int // canonical key -> entries index
	aliases    map[string]string
	bodyweight map[string]bool
}

// NewIndex merges core and custom definitions. Custom entries are merged
// after core ones: an alias claimed by both resolves to the custom exercise,
// and a custom entry whose name matches a core name replaces it in place.
func NewIndex(core, custom []Definition) *Index {
	idx := &Index{
		position:   make(map[string]int, len(core)+len(custom)),
		aliases:    make(map[string]string, 4*(len(core)+len(custom))),
		bodyweight: make(map[string]bool),
	}
	for _, d := range core {
		idx.add(d)
	}
	for _, d := range custom {
		if d.Origin == "" {
			d.Origin = OriginCustom
		}
		idx.add(d)
	}
	return idx
}

func (idx *Index) add(d Definition) {
	k := key(d.Name)
	if k == "" {
		return
	}
	if i, ok := idx.position[k]; ok {
		delete(idx.bodyweight, k)
		idx.entries[i] = d
	} else {
		idx.position[k] = len(idx.entries)
		idx.entries = append(idx.entries, d)
	}
	if d.Bodyweight {
		idx.bodyweight[k] = true
	}
	idx.aliases[k] = d.Name
	for _, a := range d.Aliases {
		if ak := key(a); ak != "" {
			idx.aliases[ak] = d.Name
		}
	}
}

// Exists reports whether name is a canonical exercise name.
func (idx *Index) Exists(name string) bool {
	_, ok := idx.position[key(name)]
	return ok
}

// ResolveAlias maps a name or alias to its canonical name.
func (idx *Index) ResolveAlias(text string) (string, bool) {
	name, ok := idx.aliases[key(text)]
	return name, ok
}

// Lookup returns the definition for a canonical name.
func (idx *Index) Lookup(name string) (Definition, bool) {
	i, ok := idx.position[key(name)]
	if !ok {
		return Definition{}, false
	}
	return idx.entries[i], true
}

// IsBodyweight reports whether the canonical exercise name is flagged as a
// bodyweight movement.
func (idx *Index) IsBodyweight(name string) bool {
	return idx.bodyweight[key(name)]
}

// Entries returns all definitions in merge order. The returned slice is a
// copy.
func (idx *Index) Entries() []Definition {
	return slices.Clone(idx.entries)
}

// Names returns the canonical names and aliases known to the index, used to
// build speech-correction vocabularies.
func (idx *Index) Names() []string {
	out := make([]string, 0, len(idx.aliases))
	for _, d := range idx.entries {
		out = append(out, d.Name)
		out = append(out, d.Aliases...)
	}
	return out
}

// Len returns the number of exercises in the index.
func (idx *Index) Len() int {
	return len(idx.entries)
}
