package softkeys

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dasdy/softkeys/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var logCtx = logging.PackageCtx("cmd")

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "softkeys",
	Short: "Drive a virtual keyboard from touch traces",
	Long: `Softkeys runs a virtual keyboard touch engine: key detection, sliding
between keys and long-press alternatives. It can replay recorded or live touch
traces, keep a history of activated keys and show it as a heatmap.`,
	PersistentPreRun: bindFlags,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.softkeys.toml)")
}

func initConfig() {
	if cfgFile != "" {
		slog.DebugContext(logCtx, "Using config file", "path", cfgFile)
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("toml")
		viper.SetConfigName(".softkeys")
	}

	viper.SetEnvPrefix("softkeys")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			createExampleConfig()
		} else {
			slog.ErrorContext(logCtx, "Error reading config file", "error", err)
			os.Exit(1)
		}
	}
}

func createExampleConfig() {
	exampleConfig := `
layout = "qwerty.toml"
storage = "./activations.sqlite"
port = 9000
hysteresis = 20.0
modifierhysteresis = 40.0
longpress = "400ms"
`
	configPath := "./.softkeys.toml"

	err := os.WriteFile(configPath, []byte(exampleConfig), 0o644)
	if err != nil {
		slog.ErrorContext(logCtx, "Error creating example config file", "error", err)
		os.Exit(1)
	}

	slog.InfoContext(logCtx, "Example config file created", "path", configPath)
}

// set values to the PFlag variables from config, if they are set. Priority is still given to explicitly provided CLI flags.
func bindFlags(cmd *cobra.Command, _ []string) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Viper compares case-insensitively, so only the hyphens need removing.
		configName := strings.ReplaceAll(f.Name, "-", "")

		if !f.Changed && viper.IsSet(configName) {
			val := viper.Get(configName)

			err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val))
			if err != nil {
				slog.ErrorContext(logCtx, "Error setting flag", "flag", f.Name, "error", err)
				panic(err)
			}

			slog.DebugContext(logCtx, "Flag set to config value", "flag", f.Name, "value", val)
		}
	})
}
