package refs

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []RawReference
	}{
		{"empty", "", nil},
		{"plain text", "no links here", nil},
		{
			"wikilink",
			"see [[Target]] for details",
			[]RawReference{{KindTitle, "Target"}},
		},
		{
			"wikilink alias",
			"[[  Some Note |shown]]",
			[]RawReference{{KindTitle, "Some Note"}},
		},
		{"blank wikilink", "[[   ]] and [[|alias]]", nil},
		{"nested brackets", "[[A[B]]", nil},
		{
			"id link",
			"[label](note:abc-123)",
			[]RawReference{{KindID, "abc-123"}},
		},
		{
			"title link decoded",
			"[x](note-title:Hello%20World)",
			[]RawReference{{KindTitle, "Hello World"}},
		},
		{
			"title link bad escape",
			"[x](note-title:100%zz)",
			[]RawReference{{KindTitle, "100%zz"}},
		},
		{
			"title link escape not utf-8",
			"[x](note-title:%FF)",
			[]RawReference{{KindTitle, "%FF"}},
		},
		{
			"quoted href",
			`[x]("note:42")`,
			[]RawReference{{KindID, "42"}},
		},
		{"external link", "[site](https://example.com) [m](mailto:a@b.c)", nil},
		{
			"left to right across forms",
			"[a](note:1) then [[Two]] then [b](note-title:Three)",
			[]RawReference{{KindID, "1"}, {KindTitle, "Two"}, {KindTitle, "Three"}},
		},
		{
			"duplicates kept",
			"[[B]] [[B]] [[b]]",
			[]RawReference{{KindTitle, "B"}, {KindTitle, "B"}, {KindTitle, "b"}},
		},
		{
			"fenced code skipped",
			"[[Before]]\n```\n[[Inside]]\n[x](note:9)\n```\n[[After]]",
			[]RawReference{{KindTitle, "Before"}, {KindTitle, "After"}},
		},
		{
			"inline code skipped",
			"`[[Hidden]]` but [[Shown]] and `[x](note:1)`",
			[]RawReference{{KindTitle, "Shown"}},
		},
		{
			"unterminated fence is prose",
			"```\n[[Open]]",
			[]RawReference{{KindTitle, "Open"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestExtractReferenceAcrossFence(t *testing.T) {
	// The opening brackets sit in prose and the closing ones inside a fence.
	content := "[[Split\n```\n]]\n```"
	if got := Extract(content); len(got) != 0 {
		t.Errorf("reference across a fence boundary was recognised: %v", got)
	}
}

func TestSplitFenced(t *testing.T) {
	segs := splitFenced("a```b```c```d```e")
	var code, prose int
	for _, s := range segs {
		if s.code {
			code++
		} else {
			prose++
		}
	}
	if code != 2 || prose != 3 {
		t.Errorf("got %d code and %d prose segments, want 2 and 3", code, prose)
	}
}

func TestLinkHelpers(t *testing.T) {
	got := Extract(IDLink("a", "n1") + " " + TitleLink("b", "Two Words/Slash"))
	want := []RawReference{{KindID, "n1"}, {KindTitle, "Two Words/Slash"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip through link helpers = %v, want %v", got, want)
	}
}
