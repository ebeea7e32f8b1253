package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sarchlab/drammap/mapping"
	"github.com/sarchlab/drammap/schemes"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use: "drammap",
	Short: "Drammap derives DRAM address mapping matrices and emits them " +
		"as loadable configurations.",
	Long: `Drammap turns declarative DRAM interleaving schemes into forward ` +
		`and inverse mapping matrices over GF(2), renders them as C++ or ` +
		`JSON configuration blocks, and answers translation queries over ` +
		`HTTP.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Cannot load .env: %s\n", err)
	}

	err = rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false,
		"increase logging verbosity")
}

// selectSchemes resolves scheme names to built-in schemes. Without
// names, all built-in schemes are selected.
func selectSchemes(names []string) ([]mapping.Scheme, error) {
	all := schemes.All()
	if len(names) == 0 {
		return all, nil
	}

	byName := make(map[string]mapping.Scheme, len(all))
	known := make([]string, 0, len(all))
	for _, s := range all {
		byName[s.Name] = s
		known = append(known, s.Name)
	}

	selected := make([]mapping.Scheme, 0, len(names))
	for _, name := range names {
		s, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown scheme %s, available: %s",
				name, strings.Join(known, ", "))
		}

		selected = append(selected, s)
	}

	return selected, nil
}
