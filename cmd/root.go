// Package cmd provides the command-line interface for weld with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--config, --port, etc.) - highest priority
//	2. WELD_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (WELD_SERVER_PORT, etc.)
//	4. Configuration files (.weld.yml) - lowest priority
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "weld",
	Short: "Drive prop-based components through a custom-element surface",
	Long: `Weld wraps components implementing the Mount/Update/Unmount contract so
they can be instantiated and driven purely through attributes, properties,
and dispatched events on a host element.

Key Features:
  • Element definitions from YAML manifests
  • Typed attribute coercion (string, number, boolean, json, function)
  • Batched render scheduling with lifecycle management
  • Dev server with WebSocket-driven element sessions
  • Manifest hot-reload

Quick Start:
  weld serve                      Start the development server
  weld list                       List defined elements
  weld validate                   Validate element manifests`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .weld.yml, can also use WELD_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. WELD_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .weld.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("WELD_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".weld")
	}

	// Enable automatic environment variable binding with WELD_ prefix
	// Examples: WELD_SERVER_PORT, WELD_DEVELOPMENT_HOT_RELOAD
	viper.SetEnvPrefix("WELD")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// If the file doesn't exist viper falls back to defaults without failing
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
