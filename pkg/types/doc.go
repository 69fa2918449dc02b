// Package types defines the core data structures shared across forge.
// This includes plugin declarations and their resolved form, render tasks
// and reports, the render context, command results, and the FS interface.
package types
