package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iafilius/LollipopPlot/src/logging"
)

const envPrefix = "LOLLIPOP"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd wires the commands to a fresh viper instance so flags, the
// config file and LOLLIPOP_* variables all feed the same keys.
func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "lollipop",
		Short:         "draw per-country publication counts as a lollipop chart",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().String("config", "", "YAML config file; keys are flag names")
	root.PersistentFlags().String("log-level", "info", "debug, info, warn or error")

	root.AddCommand(newRenderCmd(v), newLayoutCmd(v))
	return root
}

func initConfig(v *viper.Viper, cmd *cobra.Command) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	}
	logging.SetLogLevel(v.GetString("log-level"))
	logging.Debugf("config file %q, log level %s", v.ConfigFileUsed(), v.GetString("log-level"))
	return nil
}
