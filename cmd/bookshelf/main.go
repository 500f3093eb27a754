// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the bookshelf CLI: a personal book
// catalog kept in SQLite, filled from CSV imports and manual adds,
// enriched from public metadata APIs, and exported as the JSON document
// the static site build consumes.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/bookshelf/internal/catalog"
	"github.com/pdiddy/bookshelf/internal/secrets"
	"github.com/pdiddy/bookshelf/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the bookshelf CLI.
var rootCmd = &cobra.Command{
	Use:   "bookshelf",
	Short: "Manage a personal book catalog",
	Long: `bookshelf keeps a catalog of books in a local SQLite database. Records
come in through manual adds or CSV imports (Goodreads and StoryGraph
exports included), get tagged with themes, are enriched with covers and
publication metadata from OpenLibrary and Google Books, and are exported
as one JSON document for the static site build.

Each operation is a subcommand: add, import, list, show, edit, delete,
themes, tag, dedupe, enrich, and export.`,
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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./bookshelf.yaml or ~/.config/bookshelf/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "catalog database file (default: data/books.db)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bookshelf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "bookshelf"))
		}
	}

	viper.SetEnvPrefix("BOOKSHELF")
	viper.AutomaticEnv()

	viper.SetDefault("db", "data/books.db")
	viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// openStore opens the catalog database configured via --db, config file,
// or BOOKSHELF_DB. The caller closes it.
func openStore() (*catalog.Store, error) {
	return catalog.Open(types.CatalogConfig{DBPath: viper.GetString("db")})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
