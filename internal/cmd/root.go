package cmd

import (
	"context"

	"github.com/Digital-Shane/media-sort/internal/config"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mediasort",
	Short: "Sort downloaded videos into a media library",
	Long: `mediasort reads the video files of an input directory, works out the series,
season and episode (or the movie title) from their noisy names and moves them
into a library laid out as:

  <output>/Series/<Series>/S01/<Series> - E01.mkv
  <output>/Films/<Title>.mkv

Subtitles follow their episode into a Subtitles folder. Settings can be saved
as named profiles.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// newStore opens the profile store. Tests point it elsewhere.
var newStore = config.DefaultStore

// Execute runs the command line. Errors are returned for main to report.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
