/*
Copyright © 2026 the Ridgeline authors.
This file is part of Ridgeline.

Ridgeline is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Ridgeline is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Ridgeline.  If not, see <http://www.gnu.org/licenses/>.
*/

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envPrefix is the prefix of environment variables that set options,
// e.g. RIDGELINE_MAX_DEPTH.
const envPrefix = "RIDGELINE"

// Cfg holds the configuration of one invocation of the command line
// interface. Options come from flags, environment variables and an
// optional configuration file, in that order of precedence.
type Cfg struct {
	*viper.Viper
	log *logrus.Logger
	out io.Writer
}

func newCfg(out, errOut io.Writer) *Cfg {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	log := logrus.New()
	log.SetOutput(errOut)
	return &Cfg{Viper: v, log: log, out: out}
}

// bindFlags makes every flag in fs available through the configuration.
func (cfg *Cfg) bindFlags(fs *pflag.FlagSet) error {
	if err := cfg.BindPFlags(fs); err != nil {
		return fmt.Errorf("ridgeline: binding flags: %v", err)
	}
	return nil
}

// setup reads the configuration file, if any, and configures logging.
func (cfg *Cfg) setup(cmd *cobra.Command) error {
	if err := cfg.bindFlags(cmd.Flags()); err != nil {
		return err
	}
	if file := cfg.GetString("config"); file != "" {
		cfg.SetConfigFile(file)
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("ridgeline: reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(cfg.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("ridgeline: %v", err)
	}
	cfg.log.SetLevel(level)
	if cfg.GetBool("json-log") {
		cfg.log.SetFormatter(&logrus.JSONFormatter{})
	}
	return nil
}

// NewRootCmd returns the ridgeline command. Results are written to out,
// log records and errors to errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	cfg := newCfg(out, errOut)
	root := &cobra.Command{
		Use:   "ridgeline",
		Short: "Delineate catchments from D8 flow directions.",
		Long: `ridgeline finds the boundary of the catchment draining to an outlet
by walking its divide on a D8 flow-direction grid, without filling the
interior of the catchment.

Options can be given as flags, as environment variables prefixed with
RIDGELINE_ (e.g. RIDGELINE_MAX_DEPTH), or in a configuration file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.setup(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.String("config", "", "configuration file (TOML, YAML or JSON)")
	pf.String("log-level", "info", "logging level: debug, info, warn or error")
	pf.Bool("json-log", false, "write log records as JSON")

	root.AddCommand(newDelineateCmd(cfg))
	return root
}
