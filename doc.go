// Package strata implements the layout core of the strata Wayland
// compositor: the constraint tree that assigns every window a rectangle, the
// tree differ that recognizes unchanged subtrees across layout generations,
// the transaction protocol that applies multi-window geometry changes
// atomically once every client has acknowledged its configure, and the
// per-window layout-mode state machine that arbitrates tiled, floating,
// maximized, fullscreen, and spilled placement.
//
// Protocol plumbing, input routing, and rendering live in separate packages;
// this package only sees them through narrow collaborator interfaces
// ([XDGToplevel], [X11Surface], [LayoutPolicy]).
package strata
