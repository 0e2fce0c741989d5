package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var playTo string

var playCmd = &cobra.Command{
	Use:   "play <uri>",
	Short: "Start playback of a Spotify URI",
	Long: `Start playback of a track, album, or playlist URI.

Without --to, the target device is resolved automatically: the device
currently playing, then the configured default device, then the first
known device.

Examples:
  castdeck play spotify:playlist:37i9dQZF1DXcBWIGoYBM5M
  castdeck play spotify:track:4uLU6hMCjMI75M1A2tKUQC --to "Kitchen"`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&playTo, "to", "", "Target device name")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	uri := args[0]

	sess, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	if playTo != "" {
		err = sess.controller.PlayURIOn(ctx, uri, playTo)
	} else {
		err = sess.controller.PlayURI(ctx, uri)
	}
	if err != nil {
		return err
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(map[string]string{
			"status": "playing",
			"uri":    uri,
		})
	}
	fmt.Printf("▶ Playing %s\n", uri)
	return nil
}
