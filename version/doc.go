// Package version reports build information. Values are stamped with
//
//	go build -ldflags "-X github.com/zillusion/capsule/version.Version=1.2.0"
//
// and fall back to the VCS settings recorded by the Go toolchain.
package version
