package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pvogel/castdeck/internal/config"
	cderr "github.com/pvogel/castdeck/internal/errors"
	"github.com/pvogel/castdeck/internal/hass"
	"github.com/pvogel/castdeck/internal/resolver"
	"github.com/pvogel/castdeck/internal/spotcast"
	"github.com/pvogel/castdeck/internal/state"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool

	cfg    *config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "castdeck",
	Short: "Control Spotify playback through Home Assistant",
	Long: `Castdeck talks to a Home Assistant instance running the Spotcast
integration and decides which playback device should receive your music.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.castdeckrc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", cderr.ErrInvalidConfig, err)
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(lvl)
	}

	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cderr.Format(err))
		os.Exit(1)
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}

// session bundles the connected client stack used by most commands.
type session struct {
	conn       *hass.Client
	client     *spotcast.Client
	syncer     *state.Syncer
	controller *resolver.Controller
}

func (s *session) Close() {
	_ = s.conn.Close()
}

// newSession connects to Home Assistant and wires the client stack.
func newSession(ctx context.Context) (*session, error) {
	if cfg.Hass.URL == "" || cfg.Hass.Token == "" {
		return nil, cderr.WithSuggestion(cderr.ErrInvalidConfig,
			"Set hass.url and hass.token in your config, or CASTDECK_HASS_URL and CASTDECK_HASS_TOKEN")
	}

	conn := hass.New(cfg.Hass.URL, cfg.Hass.Token, logger)
	if err := conn.Connect(ctx); err != nil {
		return nil, err
	}

	client := spotcast.New(conn, cfg.Spotcast.Account)
	syncer := state.New(client, state.Options{
		TTL:    cfg.Spotcast.TTL(),
		Policy: refreshPolicy(),
		Playlists: spotcast.PlaylistParams{
			Type:        cfg.Playlists.Type,
			Limit:       cfg.Playlists.Limit,
			CountryCode: cfg.Playlists.Country,
			Locale:      cfg.Playlists.Locale,
		},
		Logger: logger,
	})

	return &session{
		conn:       conn,
		client:     client,
		syncer:     syncer,
		controller: resolver.NewController(cfg, syncer, client, logger),
	}, nil
}

func refreshPolicy() state.Policy {
	if cfg.Spotcast.RefreshPolicy == config.PolicyIndependent {
		return state.Independent
	}
	return state.Coalesce
}
