// Package render turns render tasks into file contents.
//
// Templates are looked up across the templates directories of resolved
// plugins in declaration order; the first plugin that provides a template
// wins, and later plugins providing the same path are shadowed. The same
// lookup serves top-level tasks and {% include %} / {% extends %} inside
// templates.
//
// The engine is Jinja-compatible (pongo2) with trim_blocks and
// lstrip_blocks enabled, no autoescaping.
package render
