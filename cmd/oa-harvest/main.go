// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the oa-harvest CLI. It resolves
// bibliographic references (by DOI) to open-access PDFs and downloads them.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/oa-harvest/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds values loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when non-empty, otherwise the secret value
// for key if one was loaded.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the oa-harvest CLI.
var rootCmd = &cobra.Command{
	Use:   "oa-harvest",
	Short: "Resolve DOIs to open-access PDFs and download them",
	Long: `oa-harvest reads a spreadsheet of bibliographic references, resolves each
DOI to an open-access PDF URL via Unpaywall and PubMed (falling back to a
spreadsheet-provided link), downloads and validates the files, and writes a
per-reference CSV report.

The refs subcommand runs the extraction step alone; fetch runs the full
pipeline.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./oa-harvest.yaml or ~/.config/oa-harvest/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("oa-harvest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "oa-harvest"))
		}
	}

	viper.SetEnvPrefix("OA_HARVEST")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
