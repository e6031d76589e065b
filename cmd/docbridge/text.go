package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	textName string
	textPos  int
	textLen  int
)

var textCmd = &cobra.Command{
	Use:   "text",
	Short: "Edit a text container",
}

var textInsertCmd = &cobra.Command{
	Use:   "insert [content...]",
	Short: "Insert text at --pos",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := mustSession()
		defer s.close()

		txt, err := s.doc.Text(textName)
		if err != nil {
			fatal("Failed to open text", err)
		}
		defer txt.Release()

		if err := txt.Insert(textPos, strings.Join(args, " ")); err != nil {
			fatal("Failed to insert", err)
		}
		if err := s.save(); err != nil {
			fatal("Failed to save document", err)
		}
		fmt.Println(txt.String())
	},
}

var textDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete --len characters starting at --pos",
	Run: func(cmd *cobra.Command, args []string) {
		s := mustSession()
		defer s.close()

		txt, err := s.doc.Text(textName)
		if err != nil {
			fatal("Failed to open text", err)
		}
		defer txt.Release()

		if err := txt.Delete(textPos, textLen); err != nil {
			fatal("Failed to delete", err)
		}
		if err := s.save(); err != nil {
			fatal("Failed to save document", err)
		}
		fmt.Println(txt.String())
	},
}

var textShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the text content",
	Run: func(cmd *cobra.Command, args []string) {
		s := mustSession()
		defer s.close()

		txt, err := s.doc.Text(textName)
		if err != nil {
			fatal("Failed to open text", err)
		}
		defer txt.Release()
		fmt.Println(txt.String())
	},
}

func init() {
	rootCmd.AddCommand(textCmd)
	textCmd.AddCommand(textInsertCmd, textDeleteCmd, textShowCmd)
	textCmd.PersistentFlags().StringVarP(&textName, "name", "n", "text", "Text container name")
	textInsertCmd.Flags().IntVarP(&textPos, "pos", "p", 0, "Insert position in characters")
	textDeleteCmd.Flags().IntVarP(&textPos, "pos", "p", 0, "First character to delete")
	textDeleteCmd.Flags().IntVarP(&textLen, "len", "l", 1, "Number of characters to delete")
}
