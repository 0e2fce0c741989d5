package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current playback status",
	Long:  `Shows the playback state the remote service last reported.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	sess, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.syncer.Refresh(ctx); err != nil {
		return err
	}
	player := sess.syncer.Snapshot().Player

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(player)
	}

	if player == nil || (player.Device == nil && !player.IsPlaying) {
		fmt.Println("No active playback")
		return nil
	}

	if player.IsPlaying {
		if player.TrackName != "" {
			fmt.Printf("▶ Playing: %s\n", player.TrackName)
		} else {
			fmt.Println("▶ Playing")
		}
	} else {
		fmt.Println("⏸ Paused")
	}
	if d := player.Device; d != nil {
		fmt.Printf("  device: %s (%s)\n", d.DisplayName(), d.Type)
		if d.VolumePercent != nil {
			fmt.Printf("  volume: %d%%\n", *d.VolumePercent)
		}
	}
	if player.ShuffleState {
		fmt.Println("  shuffle: on")
	}
	return nil
}
