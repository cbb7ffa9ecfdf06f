package graph

import (
	"reflect"
	"strings"
	"testing"
)

func edgeKeys(g *Graph) []string {
	keys := make([]string, len(g.Edges))
	for i, e := range g.Edges {
		keys[i] = e.Key()
	}
	return keys
}

func checkAccounting(t *testing.T, g *Graph) {
	t.Helper()
	d := g.Diagnostics
	if d.ResolvedByID+d.ResolvedByTitle+d.Unresolved != d.RawReferences {
		t.Errorf("raw accounting: %d + %d + %d != %d",
			d.ResolvedByID, d.ResolvedByTitle, d.Unresolved, d.RawReferences)
	}
	if d.ResolvedByID+d.ResolvedByTitle != d.SelfReferences+d.Duplicates+d.Edges {
		t.Errorf("resolution accounting: %d + %d != %d + %d + %d",
			d.ResolvedByID, d.ResolvedByTitle, d.SelfReferences, d.Duplicates, d.Edges)
	}
	if d.IDReferences+d.TitleReferences != d.RawReferences {
		t.Errorf("kind accounting: %d + %d != %d", d.IDReferences, d.TitleReferences, d.RawReferences)
	}
	for _, s := range d.PerDocument {
		if s.Resolved+s.Unresolved != s.Raw {
			t.Errorf("document %s: %d + %d != %d", s.ID, s.Resolved, s.Unresolved, s.Raw)
		}
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name           string
		docs           []Document
		wantEdges      []string
		wantUnresolved int
	}{
		{
			name: "resolves and counts missing",
			docs: []Document{
				{ID: "1", Content: "[[B]]"},
				{ID: "2", Title: "B"},
				{ID: "3", Content: "[[Nonexistent]]"},
			},
			wantEdges:      []string{"1=>2"},
			wantUnresolved: 1,
		},
		{
			name:      "self title",
			docs:      []Document{{ID: "a", Title: "SelfTitle", Content: "[[SelfTitle]] [[ selftitle ]]"}},
			wantEdges: []string{},
		},
		{
			name:      "self id",
			docs:      []Document{{ID: "a", Title: "A", Content: "[me](note:a)"}},
			wantEdges: []string{},
		},
		{
			name: "both directions kept",
			docs: []Document{
				{ID: "a", Title: "A", Content: "[[B]]"},
				{ID: "b", Title: "B", Content: "[[A]]"},
			},
			wantEdges: []string{"a=>b", "b=>a"},
		},
		{
			name: "repeated references collapse",
			docs: []Document{
				{ID: "a", Title: "A", Content: "[[B]] [[b]] [x](note:b) [y](note-title:B)"},
				{ID: "b", Title: "B"},
			},
			wantEdges: []string{"a=>b"},
		},
		{
			name: "code is not scanned",
			docs: []Document{
				{ID: "a", Title: "A", Content: "```\n[[B]]\n``` and `[[B]]`"},
				{ID: "b", Title: "B"},
			},
			wantEdges: []string{},
		},
		{
			name: "title collision last writer wins",
			docs: []Document{
				{ID: "a", Title: "A", Content: "[[Dup]]"},
				{ID: "d1", Title: "Dup"},
				{ID: "d2", Title: "dup"},
			},
			wantEdges: []string{"a=>d2"},
		},
		{
			name: "fallback labels are indexed",
			docs: []Document{
				{ID: "a", Title: "  ", Content: "[[Note 2]]"},
				{ID: "b"},
			},
			wantEdges: []string{"a=>b"},
		},
		{
			name:      "empty",
			docs:      nil,
			wantEdges: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Build(tt.docs)
			if len(g.Nodes) != len(tt.docs) {
				t.Errorf("nodes = %d, want %d", len(g.Nodes), len(tt.docs))
			}
			if got := edgeKeys(g); !reflect.DeepEqual(got, tt.wantEdges) {
				t.Errorf("edges = %v, want %v", got, tt.wantEdges)
			}
			if g.Diagnostics.Unresolved != tt.wantUnresolved {
				t.Errorf("unresolved = %d, want %d", g.Diagnostics.Unresolved, tt.wantUnresolved)
			}
			if err := g.Validate(); err != nil {
				t.Errorf("built graph invalid: %v", err)
			}
			checkAccounting(t, g)
		})
	}
}

func TestBuildDeterministic(t *testing.T) {
	docs := []Document{
		{ID: "a", Title: "A", Content: "[[B]] [[C]] [c](note:c)"},
		{ID: "b", Title: "B", Content: "[[C]] [[A]]"},
		{ID: "c", Title: "C", Content: "[[Missing]]"},
	}
	first := Build(docs)
	for range 5 {
		if next := Build(docs); !reflect.DeepEqual(first, next) {
			t.Fatal("Build is not deterministic")
		}
	}
}

func TestBuildDiagnostics(t *testing.T) {
	docs := []Document{
		{ID: "a", Title: "A", Content: "[[B]] [[B]] [[A]] [x](note:zz)"},
		{ID: "b", Title: "B", Content: "hi"},
	}
	d := Build(docs).Diagnostics

	want := Diagnostics{
		Documents:       2,
		WithContent:     1,
		RawReferences:   4,
		IDReferences:    1,
		TitleReferences: 3,
		ResolvedByTitle: 3,
		Unresolved:      1,
		SelfReferences:  1,
		Duplicates:      1,
		Edges:           1,
	}
	d.PerDocument = nil
	if !reflect.DeepEqual(*d, want) {
		t.Errorf("diagnostics = %+v\nwant %+v", *d, want)
	}
}

func TestNodeFields(t *testing.T) {
	g := Build([]Document{
		{ID: "", Title: "", Content: strings.Repeat("x", 90)},
		{ID: "big", Title: "A Very Long Note Title", Content: strings.Repeat("x", 6000)},
	})

	n := g.Nodes[0]
	if n.ID != "#0" || n.Label != "Note 1" || n.Size != 28 {
		t.Errorf("fallback node = %+v", n)
	}
	n = g.Nodes[1]
	if n.Size != MaxSize {
		t.Errorf("size = %d, want %d", n.Size, MaxSize)
	}
	if got := n.Display(); got != "A Very Long ..." {
		t.Errorf("Display() = %q", got)
	}
}

func TestBlankIDFallbackIsUnique(t *testing.T) {
	g := Build([]Document{
		{ID: "1", Title: "one", Content: "[x](note:0)"},
		{ID: "0", Title: "zero"},
		{ID: "", Title: "blank", Content: "[x](note-title:one)"},
	})

	ids := make(map[string]bool)
	for _, n := range g.Nodes {
		if ids[n.ID] {
			t.Fatalf("duplicate node id %q", n.ID)
		}
		ids[n.ID] = true
	}
	if g.Nodes[2].ID != "#2" {
		t.Errorf("fallback id = %q, want #2", g.Nodes[2].ID)
	}
	want := []Edge{{Source: "1", Target: "0"}, {Source: "#2", Target: "1"}}
	if !reflect.DeepEqual(g.Edges, want) {
		t.Errorf("edges = %+v, want %+v", g.Edges, want)
	}
}

func TestSizeHint(t *testing.T) {
	tests := map[int]int{0: 26, 29: 26, 30: 27, 89: 27, 90: 28, 2040: 60, 10000: 60}
	for n, want := range tests {
		if got := SizeHint(strings.Repeat("a", n)); got != want {
			t.Errorf("SizeHint(len %d) = %d, want %d", n, got, want)
		}
	}
}

func TestDisplayLabel(t *testing.T) {
	tests := map[string]string{
		"short":            "short",
		"exactly15chars!":  "exactly15chars!",
		"sixteen chars!!!": "sixteen char...",
		"ünïcödé-ünïcödé-": "ünïcödé-ünïc...",
	}
	for in, want := range tests {
		if got := DisplayLabel(in); got != want {
			t.Errorf("DisplayLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
