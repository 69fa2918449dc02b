// Package testutil provides utilities for testing forge components.
//
// Key components:
//   - FakeSource: in-memory git.Source with scripted remotes and call counters
//   - Upstream: a real on-disk git repository used as a clone source
//   - Project: a temporary project directory with a configuration file
//
// Usage guidelines:
//   - Prefer FakeSource over a memory filesystem; it never touches the network
//   - Tests that need real git call RequireGit and build an Upstream
//   - All test data should be defined inline, not in external files
package testutil
