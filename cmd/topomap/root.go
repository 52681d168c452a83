package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/katalvlaran/topomap/config"
	"github.com/katalvlaran/topomap/logging"
	"github.com/katalvlaran/topomap/placement"
)

// app is the state shared by the subcommands of one invocation.
type app struct {
	v          *viper.Viper
	configPath string
	cfg        config.Config
	logger     *zap.Logger
}

// flagKeys maps command-line flags onto configuration keys.
var flagKeys = map[string]string{
	"log-level":       "log.level",
	"log-development": "log.development",
	"solver":          "solver",
	"key":             "directive_key",
	"fallback":        "fallback",
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:          "topomap",
		Short:        "Topology-aware process placement",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Flags())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.Bool("log-development", false, "human-readable console logs")

	root.AddCommand(newSolveCmd(a), newEvaluateCmd(a))

	return root
}

// setup binds the flags present on fs, loads the configuration and builds
// the logger.
func (a *app) setup(fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || err != nil {
			return
		}
		err = a.v.BindPFlag(key, f)
	})
	if err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	if a.cfg, err = config.Load(a.v, a.configPath); err != nil {
		return err
	}
	if a.logger, err = logging.New(a.cfg.Log); err != nil {
		return err
	}

	return nil
}

func (a *app) planner() (*placement.Planner, error) {
	return placement.New(a.cfg, placement.WithLogger(a.logger))
}
