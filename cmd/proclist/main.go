package main

import (
	"fmt"
	"os"

	"proclist/process"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:          "proclist",
	Short:        "List processes and loaded modules",
	Long:         `proclist walks an operating system snapshot and prints every running process, or every module loaded by one process.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("proclist %s\n", version)
	},
}

var processesCmd = &cobra.Command{
	Use:     "processes",
	Aliases: []string{"ps"},
	Short:   "List running processes",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, cfg, err := setup(cmd)
		if err != nil {
			return err
		}

		n, err := writeProcesses(cmd.OutOrStdout(), headerStyle(cfg.Color), e)
		if err != nil {
			return fmt.Errorf("failed to list processes: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%d processes\n", n)
		return nil
	},
}

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List modules loaded by a process",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pid, _ := cmd.Flags().GetUint32("pid")
		if pid == 0 {
			pid = uint32(os.Getpid())
		}

		e, cfg, err := setup(cmd)
		if err != nil {
			return err
		}

		n, err := writeModules(cmd.OutOrStdout(), headerStyle(cfg.Color), e, process.ProcessID(pid))
		if err != nil {
			return fmt.Errorf("failed to list modules of process %d: %w", pid, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%d modules\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(processesCmd)
	rootCmd.AddCommand(modulesCmd)

	modulesCmd.Flags().Uint32P("pid", "p", 0, "Process ID (default: this process)")

	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file path")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")
}

// setup loads the configuration and builds an enumerator for this platform
func setup(cmd *cobra.Command) (*process.Enumerator, *Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}

	level, err := process.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	src, err := newSource()
	if err != nil {
		return nil, nil, err
	}

	log := process.NewPlainLogger("proclist", level)
	if cfg.Color {
		log = process.NewLogger("proclist", level)
	}

	return process.NewEnumerator(src, process.WithDiagnostics(log)), cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
