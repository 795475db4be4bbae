// Package static serves files from a fixed root directory. Request paths are
// re-anchored to the root before any file access, so relative components can
// never reach outside it.
package static
