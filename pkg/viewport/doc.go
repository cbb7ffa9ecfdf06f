// Package viewport implements pan/zoom navigation and zoom-aware hit-testing
// over a laid-out graph.
//
// The view transform maps world (layout) coordinates to screen coordinates:
//
//	screen = pan + world*zoom
//	world  = (screen - pan) / zoom
//
// A [Viewport] owns the [State] and the current scene (nodes plus positions).
// Pointer input only changes selection, hover, pan and zoom; it never feeds
// back into the graph. Opening a node reports its ID to a host callback
// instead of navigating.
//
// A Viewport is not safe for concurrent use. Hosts that share one across
// goroutines serialize access themselves.
package viewport
