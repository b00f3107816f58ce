// Kuroibara: A multi-source manga search and aggregation engine.
// Copyright (C) 2025 Luca M. Schmidt (LuMiSxh)
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package commands

import (
	"Kuroibara/pkg/aggregate"
	"Kuroibara/pkg/antibot"
	"Kuroibara/pkg/descriptor"
	"Kuroibara/pkg/display"
	"Kuroibara/pkg/errors"
	"Kuroibara/pkg/logger"
	"Kuroibara/pkg/network"
	"Kuroibara/pkg/registry"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	appEngine    *aggregate.Engine
	appRegistry  *registry.Registry
	appLogger    *logger.Service
	appFormatter *display.Formatter

	version string

	debugMode       bool
	nsfwAllowed     bool
	noColor         bool
	providersConfig string
)

var rootCmd = &cobra.Command{
	Use:   "kuroibara",
	Short: "Kuroibara searches manga across many sources at once.",
	Long:  "Kuroibara is a multi-source manga engine. It fans a query out to every configured provider, merges and ranks what comes back, and keeps working even when individual sources fail or block.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := cmd.Help(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

// Execute runs the root command. Cancelling ctx (e.g. on SIGINT)
// aborts any in-flight provider work.
func Execute(ctx context.Context, v string) {
	version = v
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if appLogger != nil {
			_ = appLogger.Sync()
		}
		os.Exit(1)
	}
	if appLogger != nil {
		_ = appLogger.Sync()
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&nsfwAllowed, "nsfw", false, "Include NSFW providers and content")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&providersConfig, "providers-config", "", "Path to a providers YAML file (defaults to the built-in set)")
}

// setup wires the engine from config and flags. Config lives in
// ~/.kuroibara/config.yaml; every key has a working default so a fresh
// install needs no file at all.
func setup() error {
	viper.SetDefault("solver.url", "")
	viper.SetDefault("solver.max_sessions", antibot.DefaultMaxSessions)
	viper.SetDefault("nsfw", false)
	viper.SetDefault("providers_config", "")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".kuroibara"))
	}
	viper.SetEnvPrefix("kuroibara")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	appLogger = logger.NewService()
	appLogger.SetDebug(debugMode)

	if !nsfwAllowed {
		nsfwAllowed = viper.GetBool("nsfw")
	}

	client := network.NewClient(appLogger)

	var solver *antibot.Solver
	if url := viper.GetString("solver.url"); url != "" {
		solver = antibot.NewSolver(url, viper.GetInt("solver.max_sessions"), appLogger)
	}
	router := antibot.NewRouter(client, solver)

	descs, err := loadDescriptors()
	if err != nil {
		return err
	}

	appRegistry, err = registry.Load(descs, registry.Deps{
		Client: client,
		Router: router,
		Logger: appLogger,
	})
	if err != nil {
		return fmt.Errorf("loading providers: %w", err)
	}

	appEngine = aggregate.New(appRegistry, appLogger)
	appFormatter = display.NewFormatter(os.Stdout, noColor)
	return nil
}

func loadDescriptors() ([]descriptor.Descriptor, error) {
	path := providersConfig
	if path == "" {
		path = viper.GetString("providers_config")
	}
	if path == "" {
		return descriptor.Defaults(), nil
	}
	descs, err := descriptor.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading providers from %s: %w", path, err)
	}
	return descs, nil
}

// preferences builds the per-provider overlay from config. Keys live
// under providers.<id>.enabled and providers.<id>.priority.
func preferences() registry.Preferences {
	prefs := registry.Preferences{
		Enabled:  make(map[string]bool),
		Priority: make(map[string]int),
	}
	for id := range viper.GetStringMap("providers") {
		sub := viper.Sub("providers." + id)
		if sub == nil {
			continue
		}
		if sub.IsSet("enabled") {
			prefs.Enabled[id] = sub.GetBool("enabled")
		}
		if sub.IsSet("priority") {
			prefs.Priority[id] = sub.GetInt("priority")
		}
	}
	return prefs
}
