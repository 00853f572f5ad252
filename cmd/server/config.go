package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind          string
	port          int
	playerTimeout time.Duration
	noDatabase    bool
	noRedis       bool
	verbose       bool
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.playerTimeout < 0 {
		return fmt.Errorf("invalid player timeout: %v", c.playerTimeout)
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("MINIGAMES")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "minigames-server",
		Short:         "Realtime backend for timed word-categorization rooms.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: MINIGAMES_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: MINIGAMES_PORT)")
	fs.DurationVar(&cfg.playerTimeout, "player-timeout", 0, "time before offline players are removed, 0 disables (env: MINIGAMES_PLAYER_TIMEOUT)")
	fs.BoolVar(&cfg.noDatabase, "no-database", false, "run without the Postgres snapshot cache (env: MINIGAMES_NO_DATABASE)")
	fs.BoolVar(&cfg.noRedis, "no-redis", false, "run without the Redis event queue (env: MINIGAMES_NO_REDIS)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: MINIGAMES_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SilenceUsage = true

	return cmd
}
