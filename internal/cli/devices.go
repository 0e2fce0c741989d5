package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pvogel/castdeck/internal/core"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List available playback devices",
	Long:  `Lists Spotify Connect devices and Chromecast devices known to Spotcast.`,
	RunE:  runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	sess, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.syncer.Refresh(ctx); err != nil {
		return err
	}
	snap := sess.syncer.Snapshot()

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(map[string]any{
			"devices":     snap.Devices,
			"castdevices": snap.CastDevices,
		})
	}

	if len(snap.Devices) == 0 && len(snap.CastDevices) == 0 {
		fmt.Println("No devices found")
		return nil
	}

	table := NewTable("NAME", "KIND", "TYPE", "ACTIVE", "VOLUME", "ID")
	for _, d := range snap.Devices {
		table.Row(d.DisplayName(), "connect", d.Type, activeMark(&d), volumeCell(&d), d.ID)
	}
	for _, cd := range snap.CastDevices {
		table.Row(cd.FriendlyName, "cast", cd.ModelName, "", "", cd.UUID)
	}
	table.Flush()
	return nil
}

func activeMark(d *core.Device) string {
	if d.Active() {
		return "yes"
	}
	return ""
}

func volumeCell(d *core.Device) string {
	if d.VolumePercent == nil {
		return ""
	}
	return strconv.Itoa(*d.VolumePercent) + "%"
}
