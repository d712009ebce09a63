// Copyright © 2018 One Concern

package cmd

import (
	"log"
	"os"
	"strings"

	"github.com/oneconcern/chunkmap/pkg/dlogger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chunkmap",
	Short: "chunkmap maps the content of an OS image to the packages that own it",
	Long: `chunkmap maps the content of an OS image to the packages that own it.

It maintains an index of installed packages with their change history across builds,
then assigns every file of the image to exactly one owner, with metadata telling
how often each owner changes.

A layer packer uses this mapping to group rarely changing content in the same container image layers.
`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.setParams(cmd, &chunkmapFlags)
	},
}

var config *CLIConfig

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		wrapFatalWithCodef(1, "%v", err)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)

	rootCmd.SetGlobalNormalizationFunc(normalizeFlagName)
	addLogLevel(rootCmd)
	addConcurrencyFlag(rootCmd)
}

// normalizeFlagName accepts underscores in place of dashes, as in config keys
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("loglevel", dlogger.LogLevelInfo)
	viper.SetDefault("backend", "rpm")
	viper.SetDefault("ledger.store", ledgerStoreFile)

	if os.Getenv("CHUNKMAP_CONFIG") != "" {
		// Use config file from the env.
		viper.SetConfigFile(os.Getenv("CHUNKMAP_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.chunkmap")
		viper.AddConfigPath("/etc/chunkmap")
		viper.SetConfigName("chunkmap")
	}

	viper.SetEnvPrefix("chunkmap")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		infoLogger.Println("Using config file:", viper.ConfigFileUsed())
	}

	var err error
	config, err = newConfig()
	if err != nil {
		wrapFatalln("invalid configuration", err)
		return
	}
}

func getLogger() *zap.Logger {
	l, err := dlogger.GetLogger(chunkmapFlags.root.logLevel)
	if err != nil {
		wrapFatalln("failed to set log level", err)
		return zap.NewNop()
	}
	return l
}
