package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	storeDir   string
	docName    string
	peerFlag   uint64

	cfg Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docbridge",
	Short: "Edit and merge collaborative documents from the shell",
	Long: `docbridge keeps collaborative documents as snapshot files in a store directory.
Every command loads the snapshot, applies its edit and writes it back, so files
exported on one machine can be merged on another in any order.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)

		cwd, err := os.Getwd()
		if err != nil {
			fatal("Failed to get CWD", err)
		}
		cfg, err = resolveConfig(cwd, configPath)
		if err != nil {
			fatal("Failed to load config", err)
		}
		if storeDir != "" {
			cfg.Store = storeDir
		}
		if docName != "" {
			cfg.Doc = docName
		}
		if peerFlag != 0 {
			cfg.Peer = peerFlag
		}
		slog.Debug("config resolved", "store", cfg.Store, "doc", cfg.Doc, "peer", cfg.Peer)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: docbridge.yaml at the workspace root)")
	rootCmd.PersistentFlags().StringVar(&storeDir, "store", "", "Snapshot store directory")
	rootCmd.PersistentFlags().StringVarP(&docName, "doc", "d", "", "Document name inside the store")
	rootCmd.PersistentFlags().Uint64Var(&peerFlag, "peer", 0, "Peer id used for edits")
}
