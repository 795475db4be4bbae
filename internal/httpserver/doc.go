// Package httpserver manages the listening socket of the static server: it
// binds synchronously so bind failures surface at startup, serves until shut
// down, and drains open connections on shutdown.
package httpserver
