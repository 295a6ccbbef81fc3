// Package buildinfo exposes version information for the reviewgate binaries.
//
// Values are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/reviewgate/internal/infra/buildinfo.Version=v1.0.0"
//
// When Commit is not injected it falls back to the VCS revision embedded by
// the Go toolchain.
package buildinfo
