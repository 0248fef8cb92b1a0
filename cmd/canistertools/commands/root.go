package commands

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/icforge/canistertools/config"
	"github.com/icforge/canistertools/config/logger"
)

var (
	configFile string
	dataDir    string
	debug      bool
	logConfig  bool
	conf       config.Config
)

var (
	// These are set by Execute
	rootCtx    context.Context
	rootCancel context.CancelFunc
)

var rootHelp = `This tool inspects and archives the stable-memory region files
a canister host persists to disk.
`

var rootCmd = &cobra.Command{
	Use:   "canistertools",
	Short: "Inspect and archive canister stable-memory region files",
	Long:  rootHelp,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		conf = config.Default()
		conf.Version = version
		if configFile != "" {
			if err := conf.LoadYAMLFile(configFile, true); err != nil {
				logrus.Fatalf("Load config file %q: %v", configFile, err)
			}
		}
		if dataDir != "" {
			conf.DataDir = dataDir
		}

		conf.Log = conf.Log.Merge(logger.FlagConfig)
		if debug {
			conf.Log.Level = "debug"
		}
		if err := conf.Check(); err != nil {
			logrus.Fatalf("Config file error: %v", err)
		}
		logger.Configure(conf.Log)
		logrus.WithField("version", version).Debug("Running")
		if logConfig {
			logrus.Infof("Effective configuration:\n%s\n", conf.String())
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "Directory holding the region files")
	rootCmd.PersistentFlags().BoolVar(&logConfig, "log-config", false, "Log the evaluated configuration on startup")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	logger.RegisterFlagsWith(rootCmd.PersistentFlags().StringVar)
}

func Execute() {
	rootCtx, rootCancel = context.WithCancel(context.Background())
	defer rootCancel()
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			logrus.Error("Context cancelled")
		}
		logrus.WithError(err).Error("Error")
		os.Exit(1)
	}
}
