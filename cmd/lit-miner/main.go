// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the lit-miner CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/lit-miner/internal/review"
	"github.com/pdiddy/lit-miner/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built in PersistentPreRunE; commands read it through log().
var logger *zap.Logger

func log() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// rootCmd is the base command for the lit-miner CLI.
var rootCmd = &cobra.Command{
	Use:   "lit-miner",
	Short: "Mine PubMed for a topic and write cited literature reviews",
	Long: `lit-miner searches PubMed for a research topic, scores the hits against a
journal/citation/recency rubric, keeps a balanced selection of high-impact,
recent and data-rich papers in a local vector collection, and writes a
literature review grounded in those papers.

Topics may be written in Chinese or English; Chinese topics are translated
into a PubMed boolean query before searching.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := newLogger(verbose)
		if err != nil {
			return err
		}
		logger = l

		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("could not load .env", zap.Error(err))
		}

		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir, logger)
		if err != nil {
			return err
		}
		set, err := secrets.ApplyEnv(s)
		if err != nil {
			return err
		}
		if len(set) > 0 {
			logger.Debug("loaded secrets", zap.Strings("env", set))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	return cfg.Build()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./lit-miner.yaml or ~/.config/lit-miner/lit-miner.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory for the vector store, history and reviews (default: data)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets", "directory of key files")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	_ = viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("lit-miner")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "lit-miner"))
		}
	}

	viper.SetEnvPrefix("LIT_MINER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())
	bindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, review.DisplayError(err))
		os.Exit(1)
	}
}
