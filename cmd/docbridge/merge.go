package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [file...]",
	Short: "Import exported bytes into the document",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := mustSession()
		defer s.close()

		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				fatal("Failed to read "+path, err)
			}
			if err := s.doc.Import(data); err != nil {
				fatal("Failed to merge "+path, err)
			}
			slog.Debug("merged", "file", path, "bytes", len(data))
		}
		if err := s.save(); err != nil {
			fatal("Failed to save document", err)
		}
		fmt.Printf("Merged %d file(s) into '%s'.\n", len(args), s.name)
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
