// Package refs finds and resolves cross-references between notes.
//
// # Extraction
//
// [Extract] scans raw note content and returns every unresolved mention in
// left-to-right order. Two syntaxes are recognised:
//
//	[[Target]]            wikilink, resolved by title
//	[[Target|Alias]]      wikilink with display alias, resolved by title
//	[label](note:ID)      labeled link, resolved by identifier
//	[label](note-title:T) labeled link with a percent-encoded title
//
// Fenced code blocks (triple backticks) are never scanned, and inline code
// spans are blanked out before matching, so code samples can contain link
// syntax without producing references. Any other href scheme (http:, mailto:,
// relative paths) is ignored.
//
// # Resolution
//
// An [Index] maps identifiers and normalized titles to document identifiers.
// [Resolve] looks each [RawReference] up in the index of its kind and reports
// the distinct targets together with exact counters:
//
//	res := idx.Resolve(refs.Extract(content))
//	res.Unresolved + res.Resolved() == len(raw) // always
//
// Title collisions are resolved last-writer-wins when the index is built;
// nothing in this package returns an error.
package refs
