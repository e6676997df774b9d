//go:build !linux && !windows

package main

import (
	"fmt"
	"runtime"

	"proclist/process"
)

func newSource() (process.Source, error) {
	return nil, fmt.Errorf("snapshot enumeration is not supported on %s", runtime.GOOS)
}
