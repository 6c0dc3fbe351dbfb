// Package toolboot provisions a reproducible Lua build toolchain on a CI
// runner. The orchestrator lives under internal/; this package only
// carries build metadata.
package toolboot

// Version is the release version, set via -ldflags.
var Version = "dev"
