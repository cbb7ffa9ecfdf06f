package refs_test

import (
	"fmt"

	"github.com/Errze/note-bad-ideas/pkg/refs"
)

func ExampleExtract() {
	content := "Links to [[Project Plan|the plan]] and [todo](note:n-42).\n" +
		"```\n[[Not A Link]]\n```\n" +
		"Inline `[[also not]]` is skipped."

	for _, r := range refs.Extract(content) {
		fmt.Println(r.Kind, r.Value)
	}
	// Output:
	// title Project Plan
	// id n-42
}

func ExampleIndex_Resolve() {
	idx := refs.NewIndex(2)
	idx.Add("n-1", "Project Plan")
	idx.Add("n-42", "Todo")

	res := idx.Resolve(refs.Extract("[[project   plan]] [[Todo]] [[todo]] [[Ghost]]"))
	fmt.Println(res.Targets)
	fmt.Println("resolved:", res.Resolved(), "unresolved:", res.Unresolved)
	// Output:
	// [n-1 n-42]
	// resolved: 3 unresolved: 1
}
