package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "history-dates-cli",
	Short: "Parse historical date expressions into timelines",
	Long: `history-dates-cli parses free-text historical date expressions such as
"March 4, 1899", "1903 CE" or "5th century" into calendar dates. Entries can
come from a file, stdin, a scraped web page or a file in a GitHub repository,
and are rendered as sorted timelines with statistics, optional AI-assisted
restatement of unparseable expressions, and caller-supplied BCE corrections.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		// Default behavior - show help
		cmd.Help()
	},
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose progress output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress all progress output")
}
