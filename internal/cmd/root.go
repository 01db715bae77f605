package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/poorstock/stockreport/internal/cmd/report"
)

func NewRootCommand() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "stockreport",
		Short: "Analyzes PoorStock download results and reports batch status",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	cmd.AddCommand(report.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
