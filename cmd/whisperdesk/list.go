package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkoskela/whisperdesk/internal/language"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List supported languages",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "Supported Languages:")
			for _, l := range language.SupportedLanguages() {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-25s [%s]\n", l.DisplayName(), l.Code)
			}
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}
