package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/drammap/memconfig"
	"github.com/sarchlab/drammap/schemes"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in interleaving schemes.",
	Run: func(_ *cobra.Command, _ []string) {
		for _, s := range schemes.All() {
			id := memconfig.EncodeIdentifier(
				s.NumChannel, s.NumDIMM, s.NumRank, s.NumBank)

			fmt.Printf("%-20s identifier %#010x, %d matrix bits\n",
				s.Name, id, s.Width())
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
