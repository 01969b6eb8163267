package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/urbanops/dataqual/cmd/cli/commands"
)

var cfgFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "dataqual-cli",
		Short: "Urban data quality toolkit",
		Long: `A command-line interface for validating urban mobility datasets,
ingesting weather observations, and exporting quality reports.`,
		Version: "0.1.0",
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML, optional)")

	rootCmd.AddCommand(commands.NewValidateCmd(&cfgFile))
	rootCmd.AddCommand(commands.NewIngestCmd(&cfgFile))
	rootCmd.AddCommand(commands.NewExportCmd(&cfgFile))
	rootCmd.AddCommand(commands.NewPipelineCmd(&cfgFile))
	rootCmd.AddCommand(commands.NewServeCmd(&cfgFile))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
