// Package buildinfo exposes build metadata for respkv binaries.
//
// Version, Commit and BuildTime are injected via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/respkv/internal/infra/buildinfo.Version=v1.0.0"
//
// When Commit is not injected, the VCS revision recorded by the Go
// toolchain is used if present.
package buildinfo
