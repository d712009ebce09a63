// Copyright © 2018 One Concern

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CLIConfig describes the CLI configuration.
//
// Flags set explicitly on the command line take precedence.
type CLIConfig struct {
	// keep names of fields the same as the serialized names for viper
	LogLevel    string       `json:"loglevel" yaml:"loglevel" mapstructure:"loglevel"`
	Backend     string       `json:"backend" yaml:"backend" mapstructure:"backend"`
	Concurrency int          `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`
	Ledger      LedgerConfig `json:"ledger" yaml:"ledger" mapstructure:"ledger"`
}

// LedgerConfig describes where package records are persisted
type LedgerConfig struct {
	Store string `json:"store" yaml:"store" mapstructure:"store"` // file, badger or pebble
	Path  string `json:"path" yaml:"path" mapstructure:"path"`    // location of the KV store
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *CLIConfig) setParams(cmd *cobra.Command, flags *flagsT) {
	if c == nil {
		return
	}

	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if !changed(logLevelFlag) && c.LogLevel != "" {
		flags.root.logLevel = c.LogLevel
	}
	if !changed(concurrencyFlag) && c.Concurrency > 0 {
		flags.root.concurrency = c.Concurrency
	}
	if !changed(backendFlag) && c.Backend != "" {
		flags.index.backend = c.Backend
	}
	if !changed(ledgerStoreFlag) && c.Ledger.Store != "" {
		flags.ledger.store = c.Ledger.Store
	}
	if !changed(ledgerPathFlag) && c.Ledger.Path != "" {
		flags.ledger.path = c.Ledger.Path
	}
}
