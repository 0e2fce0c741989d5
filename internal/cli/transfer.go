package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	transferDevice string
	transferCast   string
)

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Transfer playback to another device",
	Long: `Moves the current playback to a different device. Transfers always
force playback, so the target starts even if it reports idle.

Examples:
  castdeck transfer --device 5fbb3ba6aa454b5534c4ba43a8c7e8e45a63ad0e
  castdeck transfer --cast "Living Room TV"`,
	RunE: runTransfer,
}

func init() {
	transferCmd.Flags().StringVar(&transferDevice, "device", "", "Target Spotify device ID")
	transferCmd.Flags().StringVar(&transferCast, "cast", "", "Target cast device friendly name")
	transferCmd.MarkFlagsMutuallyExclusive("device", "cast")
	transferCmd.MarkFlagsOneRequired("device", "cast")
	rootCmd.AddCommand(transferCmd)
}

func runTransfer(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	sess, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	var target string
	if transferDevice != "" {
		target = transferDevice
		err = sess.controller.TransferToConnect(ctx, transferDevice)
	} else {
		target = transferCast
		err = sess.controller.TransferToCast(ctx, transferCast)
	}
	if err != nil {
		return err
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(map[string]string{
			"status": "transferred",
			"target": target,
		})
	}
	fmt.Printf("Transferred playback to %s\n", target)
	return nil
}
