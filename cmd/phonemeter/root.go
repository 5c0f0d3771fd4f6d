package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ZanzyTHEbar/phone-addiction-o-meter/internal/monitoring"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "phonemeter",
		Short:         "Score a phone usage questionnaire offline",
		Long:          "phonemeter runs the five scoring algorithms and the ensemble of the Phone Addiction-o-Meter service against an answers file.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(monitoring.NewLoggerWithWriter(cmd.ErrOrStderr(), level).Logger)
		},
	}

	root.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(newScoreCmd())
	root.AddCommand(newVersionCmd())
	return root
}
