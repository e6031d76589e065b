package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var peerCmd = &cobra.Command{
	Use:   "peer",
	Short: "Print the peer id edits are recorded under",
	Long: `Print the peer id used by this invocation. Without 'peer' in the config file
or --peer, every run picks a fresh random id.`,
	Run: func(cmd *cobra.Command, args []string) {
		s := mustSession()
		defer s.close()
		fmt.Println(s.doc.PeerID())
	},
}

func init() {
	rootCmd.AddCommand(peerCmd)
}
