package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pvogel/castdeck/internal/filter"
)

var playlistsAll bool

var playlistsCmd = &cobra.Command{
	Use:   "playlists",
	Short: "List playlists",
	Long: `Fetches your playlists and applies the inclusion rules from
playlists.include. Use --all to skip filtering.`,
	RunE: runPlaylists,
}

func init() {
	playlistsCmd.Flags().BoolVar(&playlistsAll, "all", false, "Skip inclusion rules")
	rootCmd.AddCommand(playlistsCmd)
}

func runPlaylists(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	sess, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	playlists, err := sess.syncer.Playlists(ctx)
	if err != nil {
		return err
	}

	rules := cfg.Playlists.Include
	if playlistsAll {
		rules = nil
	}
	result, err := filter.Apply(playlists, rules)
	if err != nil {
		return err
	}
	if result.Outcome == filter.OutcomeCompileFallback {
		logger.Warn("an inclusion rule failed to compile; showing all playlists", "err", result.Err)
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(result.Playlists)
	}

	if len(result.Playlists) == 0 {
		fmt.Println("No playlists found")
		return nil
	}

	table := NewTable("NAME", "URI")
	for _, p := range result.Playlists {
		table.Row(p.Name, p.URI)
	}
	table.Flush()
	return nil
}
