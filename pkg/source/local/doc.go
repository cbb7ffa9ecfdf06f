// Package local reads notes from the local filesystem.
//
// Two layouts are supported. The JSON store keeps one file per note:
//
//	<root>/groups.json                       optional group list
//	<root>/groups/<group>/notes/<note>.json  {"id", "title", "content", ...}
//
// The Markdown vault treats every top-level directory under root as a group
// and every *.md file below it as a note. The note ID is the slash-separated
// path relative to the group without the extension; the title is the first
// "# " heading, or the file name. Paths matched by a .gitignore at the root
// or in the group directory are skipped.
//
// [Watcher] reports debounced change events for either layout so a running
// server or TUI can rebuild.
package local
