package http

import "github.com/spf13/cobra"

func NewHTTPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Scheduling console HTTP API",
		Long:  "Commands for running the clinic scheduling console's HTTP API server.",
	}

	cmd.AddCommand(NewStartCommand())

	return cmd
}
