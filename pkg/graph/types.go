package graph

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// =============================================================================
// Constants
// =============================================================================

// Size hint bounds for rendered node radii.
const (
	MinSize = 26
	MaxSize = 60

	// sizeDivisor turns content length into extra radius.
	sizeDivisor = 60
)

// Display label truncation: labels longer than displayMax runes are cut to
// displayKeep runes plus an ellipsis.
const (
	displayMax  = 15
	displayKeep = 12
)

// contentThreshold is the minimum content length for a document to count as
// having content in [Diagnostics].
const contentThreshold = 5

// EdgeSeparator joins source and target in [Edge.Key].
const EdgeSeparator = "=>"

// =============================================================================
// Document - Input From The Storage Collaborator
// =============================================================================

// Document is one note as supplied by a document source. Content must be the
// complete text since references are extracted from it.
type Document struct {
	ID      string `json:"id" bson:"id"`
	Title   string `json:"title" bson:"title"`
	Content string `json:"content" bson:"content"`
}

// =============================================================================
// Node, Edge, Graph
// =============================================================================

// Node is a graph vertex derived from a [Document].
type Node struct {
	ID    string `json:"id" bson:"id"`
	Label string `json:"label" bson:"label"`
	Size  int    `json:"size" bson:"size"` // rendering radius, not a layout input
}

// Display returns the label shortened for drawing next to the node.
func (n Node) Display() string {
	return DisplayLabel(n.Label)
}

// Edge is a directed link. Source and Target always differ.
type Edge struct {
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
}

// Key identifies the ordered pair, e.g. "a=>b".
func (e Edge) Key() string { return e.Source + EdgeSeparator + e.Target }

// Graph is the node-link snapshot built from one collection of documents.
// Nodes follow document order; edges follow emission order.
type Graph struct {
	Nodes       []Node       `json:"nodes" bson:"nodes"`
	Edges       []Edge       `json:"edges" bson:"edges"`
	Diagnostics *Diagnostics `json:"diagnostics,omitempty" bson:"diagnostics,omitempty"`
}

// Diagnostics are exact counters collected while building a [Graph].
//
// For every build:
//
//	ResolvedByID + ResolvedByTitle + Unresolved == RawReferences
//	ResolvedByID + ResolvedByTitle == SelfReferences + Duplicates + Edges
type Diagnostics struct {
	Documents       int `json:"documents"`
	WithContent     int `json:"with_content"`
	RawReferences   int `json:"raw_references"`
	IDReferences    int `json:"id_references"`
	TitleReferences int `json:"title_references"`
	ResolvedByID    int `json:"resolved_by_id"`
	ResolvedByTitle int `json:"resolved_by_title"`
	Unresolved      int `json:"unresolved"`
	SelfReferences  int `json:"self_references"`
	Duplicates      int `json:"duplicates"`
	Edges           int `json:"edges"`

	PerDocument []DocumentStats `json:"per_document,omitempty"`
}

// DocumentStats breaks the counters down for a single source document.
type DocumentStats struct {
	ID         string   `json:"id"`
	Raw        int      `json:"raw"`
	Resolved   int      `json:"resolved"`
	Unresolved int      `json:"unresolved"`
	Targets    []string `json:"targets,omitempty"`
}

func (d Diagnostics) String() string {
	return fmt.Sprintf("notes=%d raw=%d id=%d title=%d unresolved=%d edges=%d withContent=%d",
		d.Documents, d.RawReferences, d.ResolvedByID, d.ResolvedByTitle, d.Unresolved, d.Edges, d.WithContent)
}

// =============================================================================
// Positions
// =============================================================================

// Position is a node centre in world coordinates.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Positions maps node IDs to their layout position.
type Positions map[string]Position

// Clone returns an independent copy; nil stays nil.
func (p Positions) Clone() Positions {
	if p == nil {
		return nil
	}
	out := make(Positions, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Bounds returns the bounding box of all positions. ok is false when p is empty.
func (p Positions) Bounds() (minX, minY, maxX, maxY float64, ok bool) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, pos := range p {
		minX, maxX = math.Min(minX, pos.X), math.Max(maxX, pos.X)
		minY, maxY = math.Min(minY, pos.Y), math.Max(maxY, pos.Y)
	}
	return minX, minY, maxX, maxY, len(p) > 0
}

// =============================================================================
// Helpers
// =============================================================================

// SizeHint derives a node radius from content length:
// clamp(MinSize, round(len/60)+MinSize, MaxSize).
func SizeHint(content string) int {
	n := utf8.RuneCountInString(content)
	size := int(math.Round(float64(n)/sizeDivisor)) + MinSize
	return max(MinSize, min(MaxSize, size))
}

// DisplayLabel shortens long labels to their first twelve runes plus "...".
func DisplayLabel(label string) string {
	if utf8.RuneCountInString(label) <= displayMax {
		return label
	}
	r := []rune(label)
	return string(r[:displayKeep]) + "..."
}

// nodeLabel returns the document title or a positional fallback.
func nodeLabel(d Document, i int) string {
	if t := strings.TrimSpace(d.Title); t != "" {
		return d.Title
	}
	return "Note " + strconv.Itoa(i+1)
}

// nodeID returns the document id, or "#" and its position index when blank.
// The prefix keeps fallbacks apart from documents whose ids are numbers.
func nodeID(d Document, i int) string {
	if d.ID != "" {
		return d.ID
	}
	return "#" + strconv.Itoa(i)
}
