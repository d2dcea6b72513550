//go:build !invariants && !race

// Package invariants switches on expensive structural assertions for debug
// builds. Build or test with -tags invariants (or -race) to enable them.
package invariants

// Enabled is true if we were built with the "invariants" or "race" build
// tags.
const Enabled = false
