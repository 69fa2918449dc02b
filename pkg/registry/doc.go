// Package registry provides a generic, type-safe registry that remembers
// registration order. Generators and validators are registered in it and
// looked up by name.
package registry
