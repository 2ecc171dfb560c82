package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/Dilshan-Pathirana/HMS-Dilshan-sub000/cmd/http"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "hms-console",
	Short: "Admin console backend for multi-branch clinic appointment scheduling.",
	Long: `hms-console serves the appointment scheduling console used by clinic
front-desk operators. It holds per-operator filter, booking and session view
state and talks to the central clinic API, which owns all records.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
}
