// Package wlmtk is the window manager toolkit: a retained tree of elements
// (windows, decorations, workspaces, layers) rooted at a Root that routes
// pointer and keyboard input.
//
// The toolkit is single-threaded. All methods must be called from the
// goroutine that owns the Root; nothing in here blocks.
//
// Contract violations (adding an element that already has a parent,
// unmapping a window from the wrong workspace, destroying a container that
// still holds children) panic. Expected negative outcomes, such as a lock
// that is already held, are reported as a false return value.
package wlmtk
