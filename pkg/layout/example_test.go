package layout_test

import (
	"fmt"

	"github.com/Errze/note-bad-ideas/pkg/graph"
	"github.com/Errze/note-bad-ideas/pkg/layout"
)

func ExampleTree() {
	g := graph.Build([]graph.Document{
		{ID: "root", Title: "Root", Content: "[[Left]] [[Right]]"},
		{ID: "l", Title: "Left"},
		{ID: "r", Title: "Right"},
	})

	pos := layout.Tree(g, layout.Canvas{Width: 1200, Height: 600}, layout.DefaultParams().Tree)
	for _, id := range []string{"root", "l", "r"} {
		fmt.Printf("%s %.0f %.0f\n", id, pos[id].X, pos[id].Y)
	}
	// Output:
	// root 600 120
	// l 90 340
	// r 1110 340
}

func ExampleRoots() {
	g := graph.Build([]graph.Document{
		{ID: "a", Title: "A", Content: "[[B]]"},
		{ID: "b", Title: "B", Content: "[[A]] [[C]]"},
		{ID: "c", Title: "C", Content: "[[B]]"},
	})
	fmt.Println(layout.Roots(g))
	// Output:
	// [b]
}
