// ./cmd/astroeph/main.go
package main

/*
This program is free software; you can redistribute it and/or
modify it under the terms of the GNU General Public License
as published by the Free Software Foundation; either version 2
of the License, or (at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program; if not, write to the Free Software
Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston, MA
02110-1301, USA.
*/

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mshafiee/astroeph"
)

var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:   "astroeph",
	Short: "Planetary positions, house cusps and ayanamsas",
	Long: `astroeph computes apparent positions of the Sun, Moon, planets, lunar
points, asteroids and the Uranian bodies from JPL kernels, packed
ephemeris files or the built-in analytic theory.

Settings come from --config (YAML), then ASTROEPH_* environment
variables, then flags.`,
	Version:       astroeph.Version(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogger(viper.GetBool("debug"))
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode separates caller mistakes from missing data.
func exitCode(err error) int {
	switch {
	case errors.Is(err, astroeph.ErrUsage):
		return 2
	case errors.Is(err, astroeph.ErrDataUnavailable):
		return 3
	case errors.Is(err, astroeph.ErrNonconvergence):
		return 4
	}
	return 1
}

func initConfig() {
	viper.SetEnvPrefix("ASTROEPH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "YAML configuration file")
	pf.String("ephe-path", "", "directory holding the ephemeris files")
	pf.String("jpl-file", "", "JPL kernel file name inside the ephemeris path")
	pf.StringP("output", "o", "table", "output format: table, json or msgpack")
	pf.Bool("extrapolate", false, "let the analytic theory run past its range")
	pf.Bool("debug", false, "development logging on stderr")
	for _, name := range []string{"config", "ephe-path", "jpl-file", "output", "extrapolate", "debug"} {
		_ = viper.BindPFlag(name, pf.Lookup(name))
	}
}

func registerCommands() {
	rootCmd.AddCommand(calcCmd())
	rootCmd.AddCommand(housesCmd())
	rootCmd.AddCommand(ayanamsaCmd())
	rootCmd.AddCommand(elementsCmd())
	rootCmd.AddCommand(dateCmd())
	rootCmd.AddCommand(infoCmd())
	rootCmd.AddCommand(kernelCmd())
}

func initLogger(debug bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		l, err = cfg.Build()
	}
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %v", err)
	}
	logger = l
	return nil
}

// engineConfig layers the environment and flags over the config file.
func engineConfig() (astroeph.Config, error) {
	cfg := astroeph.DefaultConfig()
	if path := viper.GetString("config"); path != "" {
		var err error
		if cfg, err = astroeph.LoadConfig(path); err != nil {
			return astroeph.Config{}, err
		}
	}
	if v := viper.GetString("ephe-path"); v != "" {
		cfg.EphePath = v
	}
	if v := viper.GetString("jpl-file"); v != "" {
		cfg.JPLFile = v
	}
	if viper.GetBool("extrapolate") {
		cfg.AllowExtrapolation = true
	}
	return cfg, cfg.Validate()
}

func withEngine(fn func(e *astroeph.Engine) error) error {
	cfg, err := engineConfig()
	if err != nil {
		return err
	}
	e, err := astroeph.New(astroeph.WithConfig(cfg), astroeph.WithLogger(logger))
	if err != nil {
		return err
	}
	defer e.Close()
	logger.Debug("engine ready",
		zap.String("session", e.Session()),
		zap.String("ephe_path", cfg.EphePath),
		zap.String("jpl_file", cfg.JPLFile))
	return fn(e)
}
