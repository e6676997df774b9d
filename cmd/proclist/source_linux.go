//go:build linux

package main

import (
	"proclist/process"
	"proclist/process_linux"
)

func newSource() (process.Source, error) {
	return process_linux.NewSource(), nil
}
