package storystream

import "sort"

// Catalog maps stream identifiers to the ordered fragments a server replays
// for that stream.
type Catalog map[string][]string

// StreamIDs returns the catalog's stream identifiers in sorted order.
func (c Catalog) StreamIDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
