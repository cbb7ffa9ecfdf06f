package refs

import "strings"

// NormalizeTitle trims s, collapses internal whitespace runs to a single
// space and lowercases the result. Index construction and lookups both use it.
func NormalizeTitle(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Index holds the two lookup tables a collection is resolved against.
// The zero value is not usable; call [NewIndex].
type Index struct {
	ByID    map[string]string
	ByTitle map[string]string
}

// NewIndex returns an empty index sized for n documents.
func NewIndex(n int) Index {
	return Index{
		ByID:    make(map[string]string, n),
		ByTitle: make(map[string]string, n),
	}
}

// Add registers a document. A later document with the same normalized title
// replaces the earlier one in the title table.
func (ix Index) Add(id, title string) {
	ix.ByID[id] = id
	if key := NormalizeTitle(title); key != "" {
		ix.ByTitle[key] = id
	}
}

// Lookup resolves a single reference.
func (ix Index) Lookup(r RawReference) (string, bool) {
	var (
		id string
		ok bool
	)
	switch r.Kind {
	case KindID:
		id, ok = ix.ByID[r.Value]
	case KindTitle:
		id, ok = ix.ByTitle[NormalizeTitle(r.Value)]
	}
	return id, ok && id != ""
}

// Resolve is shorthand for [Resolve] with the index's own tables.
func (ix Index) Resolve(raw []RawReference) Resolution {
	return Resolve(raw, ix.ByID, ix.ByTitle)
}

// Resolution is the outcome of resolving one document's references.
type Resolution struct {
	// Targets holds each resolved identifier once, in first-resolution order.
	Targets []string

	ByID       int
	ByTitle    int
	Unresolved int
}

// Resolved counts successful lookups before any dedup or self filtering.
func (r Resolution) Resolved() int { return r.ByID + r.ByTitle }

// Without returns the targets other than id. Graph construction uses it to
// drop self references.
func (r Resolution) Without(id string) []string {
	out := make([]string, 0, len(r.Targets))
	for _, t := range r.Targets {
		if t != id {
			out = append(out, t)
		}
	}
	return out
}

// Resolve maps raw references against the identifier and normalized title
// tables. Every reference contributes to exactly one of ByID, ByTitle or
// Unresolved.
func Resolve(raw []RawReference, byID, byTitle map[string]string) Resolution {
	ix := Index{ByID: byID, ByTitle: byTitle}
	var res Resolution
	seen := make(map[string]struct{}, len(raw))

	for _, r := range raw {
		id, ok := ix.Lookup(r)
		if !ok {
			res.Unresolved++
			continue
		}
		if r.Kind == KindID {
			res.ByID++
		} else {
			res.ByTitle++
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		res.Targets = append(res.Targets, id)
	}
	return res
}
