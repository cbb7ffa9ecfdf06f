package refs

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Kind tells the resolver which index a reference is looked up in.
type Kind string

const (
	// KindID references resolve only through the identifier index.
	KindID Kind = "id"
	// KindTitle references resolve only through the normalized title index.
	KindTitle Kind = "title"
)

// Reserved href schemes for labeled links.
const (
	SchemeID    = "note:"
	SchemeTitle = "note-title:"
)

// RawReference is an unresolved mention extracted from one note.
type RawReference struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
}

var (
	fenceRe  = regexp.MustCompile("(?s)```.*?```")
	inlineRe = regexp.MustCompile("`[^`]*`")
	wikiRe   = regexp.MustCompile(`\[\[([^\[\]]+?)\]\]`)
	linkRe   = regexp.MustCompile(`\[[^\]]*?\]\(([^)]+)\)`)
)

// segment is a slice of the content that is either fenced code or prose.
type segment struct {
	code bool
	text string
}

// splitFenced cuts content into alternating prose and fenced-code segments.
// An unterminated fence is treated as prose.
func splitFenced(content string) []segment {
	var out []segment
	last := 0
	for _, loc := range fenceRe.FindAllStringIndex(content, -1) {
		out = append(out, segment{text: content[last:loc[0]]})
		out = append(out, segment{code: true, text: content[loc[0]:loc[1]]})
		last = loc[1]
	}
	return append(out, segment{text: content[last:]})
}

// stripInlineCode removes single-backtick spans including their delimiters.
func stripInlineCode(text string) string {
	return inlineRe.ReplaceAllString(text, "")
}

// Extract returns the raw references found in content, in the order they
// appear. Duplicates are kept; an empty document yields nil.
func Extract(content string) []RawReference {
	var out []RawReference
	for _, seg := range splitFenced(content) {
		if seg.code {
			continue
		}
		out = append(out, scan(stripInlineCode(seg.text))...)
	}
	return out
}

type positioned struct {
	at  int
	ref RawReference
}

// scan matches both syntaxes in one prose segment and merges them by offset.
func scan(text string) []RawReference {
	var found []positioned

	for _, m := range wikiRe.FindAllStringSubmatchIndex(text, -1) {
		target, _, _ := strings.Cut(text[m[2]:m[3]], "|")
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}
		found = append(found, positioned{m[0], RawReference{Kind: KindTitle, Value: target}})
	}

	for _, m := range linkRe.FindAllStringSubmatchIndex(text, -1) {
		if ref, ok := parseHref(text[m[2]:m[3]]); ok {
			found = append(found, positioned{m[0], ref})
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].at < found[j].at })

	out := make([]RawReference, len(found))
	for i, p := range found {
		out[i] = p.ref
	}
	return out
}

// parseHref interprets the target of a labeled link. Only the reserved
// schemes produce references.
func parseHref(raw string) (RawReference, bool) {
	href := strings.TrimSpace(raw)
	href = strings.TrimPrefix(strings.TrimPrefix(href, `"`), `'`)
	href = strings.TrimSuffix(strings.TrimSuffix(href, `"`), `'`)

	switch {
	case strings.HasPrefix(href, SchemeID):
		id := strings.TrimSpace(strings.TrimPrefix(href, SchemeID))
		if id == "" {
			return RawReference{}, false
		}
		return RawReference{Kind: KindID, Value: id}, true

	case strings.HasPrefix(href, SchemeTitle):
		enc := strings.TrimSpace(strings.TrimPrefix(href, SchemeTitle))
		title := enc
		if dec, err := url.PathUnescape(enc); err == nil && utf8.ValidString(dec) {
			title = dec
		}
		title = strings.TrimSpace(title)
		if title == "" {
			return RawReference{}, false
		}
		return RawReference{Kind: KindTitle, Value: title}, true
	}
	return RawReference{}, false
}

// IDLink formats a labeled link that references a note by identifier.
func IDLink(label, id string) string {
	return "[" + label + "](" + SchemeID + id + ")"
}

// TitleLink formats a labeled link that references a note by title.
func TitleLink(label, title string) string {
	return "[" + label + "](" + SchemeTitle + url.PathEscape(title) + ")"
}
