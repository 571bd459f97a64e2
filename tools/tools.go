//go:build tools

// Package tools lists the developer binaries used with this repo. They are
// installed with `go install` and are not tracked in go.mod.
package tools

// Air reloads the server while editing templates and handlers (IS_DEV=true).
//   go install github.com/air-verse/air@v1.63.0
//
// Mockgen regenerates internal/mocks (go generate ./internal/mocks).
//   go install go.uber.org/mock/mockgen@v0.6.0
