package main

import (
	"fmt"
	"io"

	"proclist/process"

	"github.com/charmbracelet/lipgloss"
)

func headerStyle(color bool) lipgloss.Style {
	if !color {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
}

// writeProcesses prints one line per process and returns how many were printed
func writeProcesses(w io.Writer, header lipgloss.Style, e *process.Enumerator) (int, error) {
	fmt.Fprintln(w, header.Render(fmt.Sprintf("%8s  %s", "PID", "NAME")))

	n := 0
	err := e.ForEachProcess(func(pid process.ProcessID, name string) error {
		n++
		_, err := fmt.Fprintf(w, "%8d  %s\n", pid, name)
		return err
	})
	return n, err
}

// writeModules prints one line per module of pid and returns how many were printed
func writeModules(w io.Writer, header lipgloss.Style, e *process.Enumerator, pid process.ProcessID) (int, error) {
	fmt.Fprintln(w, header.Render(fmt.Sprintf("%-16s  %10s  %s", "BASE", "SIZE", "PATH")))

	n := 0
	err := e.ForEachModule(pid, func(base process.ProcessMemoryAddress, size process.ProcessMemorySize, path string) error {
		n++
		_, err := fmt.Fprintf(w, "%016X  %10d  %s\n", uint64(base), uint64(size), path)
		return err
	})
	return n, err
}
