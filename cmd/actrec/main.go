// Command actrec inspects the frame layout shared by the interpreter and
// generated code: field offsets, packed args/flags words and raw frame images.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	var cfgFile string
	root := &cobra.Command{
		Use:           "actrec",
		Short:         "Inspect the VM frame layout",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(cfgFile); err != nil {
				return err
			}
			setupLogging()
			color.NoColor = !useColor()
			return nil
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.actrec.yaml)")
	flags.StringP("output", "o", "text", "output format: text or json")
	flags.Bool("no-color", false, "disable colored output")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	for _, name := range []string{"output", "no-color", "verbose"} {
		viper.BindPFlag(name, flags.Lookup(name))
	}
	root.AddCommand(newLayoutCmd(), newWordCmd(), newDecodeCmd())
	return root
}

func initConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return err
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".actrec")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("actrec")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	log.Debug().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	return nil
}

func setupLogging() {
	level := zerolog.WarnLevel
	if viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !useColor()}).
		Level(level).
		With().Timestamp().Logger()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", color.RedString(err.Error()))
		os.Exit(1)
	}
}
