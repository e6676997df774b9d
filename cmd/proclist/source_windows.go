//go:build windows

package main

import (
	"proclist/process"
	"proclist/process_windows"
)

func newSource() (process.Source, error) {
	return process_windows.NewSource(), nil
}
