//go:build tools
// +build tools

package main

// Tools used by Makefile and CI, pinned in go.mod.
import (
	_ "github.com/golangci/golangci-lint/cmd/golangci-lint"
	_ "github.com/prometheus/promu"
	_ "github.com/reviewdog/reviewdog/cmd/reviewdog"
)
