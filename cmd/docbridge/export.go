package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	exportMode string
	exportOut  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the document's synchronization bytes",
	Long: `Export the document as update bytes (default) or a snapshot. The output can be
merged into any replica with 'docbridge merge', in any order and any number of times.`,
	Run: func(cmd *cobra.Command, args []string) {
		s := mustSession()
		defer s.close()

		var (
			data []byte
			err  error
		)
		switch exportMode {
		case "updates":
			data, err = s.doc.ExportUpdates()
		case "snapshot":
			data, err = s.doc.ExportSnapshot()
		default:
			fatal("Invalid mode", fmt.Errorf("%q is not updates or snapshot", exportMode))
		}
		if err != nil {
			fatal("Failed to export", err)
		}

		if exportOut == "" || exportOut == "-" {
			if _, err := os.Stdout.Write(data); err != nil {
				fatal("Failed to write output", err)
			}
			return
		}
		if err := os.WriteFile(exportOut, data, 0644); err != nil {
			fatal("Failed to write output", err)
		}
		fmt.Fprintf(os.Stderr, "Exported %d bytes to %s\n", len(data), exportOut)
	},
}

var jsonCmd = &cobra.Command{
	Use:   "json",
	Short: "Print the whole document as JSON",
	Run: func(cmd *cobra.Command, args []string) {
		s := mustSession()
		defer s.close()

		out, err := s.doc.ToJSON()
		if err != nil {
			fatal("Failed to render document", err)
		}
		fmt.Println(out)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, jsonCmd)
	exportCmd.Flags().StringVar(&exportMode, "mode", "updates", "Export mode: updates or snapshot")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
}
