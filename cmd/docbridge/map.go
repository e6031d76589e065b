package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	mapName string
	mapRaw  bool
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Edit a map container",
}

var mapSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a key. The value is parsed as JSON unless --raw is given",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		s := mustSession()
		defer s.close()

		m, err := s.doc.Map(mapName)
		if err != nil {
			fatal("Failed to open map", err)
		}
		defer m.Release()

		key, raw := args[0], args[1]
		var value any
		if mapRaw || json.Unmarshal([]byte(raw), &value) != nil {
			err = m.InsertString(key, raw)
		} else {
			err = m.Insert(key, value)
		}
		if err != nil {
			fatal("Failed to set key", err)
		}
		if err := s.save(); err != nil {
			fatal("Failed to save document", err)
		}
	},
}

var mapGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print the JSON value of a key",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := mustSession()
		defer s.close()

		m, err := s.doc.Map(mapName)
		if err != nil {
			fatal("Failed to open map", err)
		}
		defer m.Release()

		v, ok := m.GetJSON(args[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "key %q not set\n", args[0])
			os.Exit(1)
		}
		fmt.Println(v)
	},
}

var mapKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List keys in order",
	Run: func(cmd *cobra.Command, args []string) {
		s := mustSession()
		defer s.close()

		m, err := s.doc.Map(mapName)
		if err != nil {
			fatal("Failed to open map", err)
		}
		defer m.Release()

		for _, k := range m.Keys() {
			fmt.Println(k)
		}
	},
}

var mapDeleteCmd = &cobra.Command{
	Use:   "delete [key]",
	Short: "Delete a key",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := mustSession()
		defer s.close()

		m, err := s.doc.Map(mapName)
		if err != nil {
			fatal("Failed to open map", err)
		}
		defer m.Release()

		if err := m.Delete(args[0]); err != nil {
			fatal("Failed to delete key", err)
		}
		if err := s.save(); err != nil {
			fatal("Failed to save document", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(mapCmd)
	mapCmd.AddCommand(mapSetCmd, mapGetCmd, mapKeysCmd, mapDeleteCmd)
	mapCmd.PersistentFlags().StringVarP(&mapName, "name", "n", "meta", "Map container name")
	mapSetCmd.Flags().BoolVar(&mapRaw, "raw", false, "Store the value as a plain string")
}
