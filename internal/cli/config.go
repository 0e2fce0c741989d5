package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and initializing castdeck configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the resolved configuration values.`,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  `Create a starter configuration file.`,
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	shown := *cfg
	if shown.Hass.Token != "" {
		shown.Hass.Token = "<redacted>"
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(shown)
	}
	return toml.NewEncoder(os.Stdout).Encode(shown)
}

const starterConfig = `[hass]
url = "ws://homeassistant.local:8123/api/websocket"
token = ""

[spotcast]
# account = "alice"
# default_device = "Kitchen"
# ttl_ms = 4000
# refresh_policy = "coalesce"

# [spotcast.aliases]
# "Living Room" = "spotify-device-id"

[playlists]
type = "default"
limit = 10
# include = ["Daily:^Daily Mix"]
# random_song = false

[log]
level = "info"
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	dir := filepath.Join(xdgConfig, "castdeck")
	path := filepath.Join(dir, "config.toml")

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(starterConfig), 0o600); err != nil {
		return err
	}

	fmt.Printf("Created %s\n", path)
	return nil
}
