package main

import (
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sarchlab/drammap/inspector"
	"github.com/sarchlab/drammap/memconfig"
)

var serveCmd = &cobra.Command{
	Use:   "serve [scheme ...]",
	Short: "Serve derived configurations over HTTP.",
	Long: `Serve derives the named schemes (all built-in schemes when none ` +
		`are named) and starts an inspector server that lists the resulting ` +
		`configurations and answers map and unmap queries.`,
	Run: func(cmd *cobra.Command, args []string) {
		selected, err := selectSchemes(args)
		if err != nil {
			log.Error(err)
			os.Exit(1)
		}

		table := memconfig.NewTable()
		for _, s := range selected {
			cfg, err := memconfig.Derive(s)
			if err != nil {
				log.Error(err)
				os.Exit(1)
			}

			err = table.Add(cfg)
			if err != nil {
				log.Warnf("skipping %s: %s", cfg.Name, err)
			}
		}

		insp := inspector.NewInspector(table)

		port, _ := cmd.Flags().GetInt("port")
		if port == 0 {
			port, _ = strconv.Atoi(os.Getenv("DRAMMAP_PORT"))
		}
		if port != 0 {
			insp = insp.WithPortNumber(port)
		}

		open, _ := cmd.Flags().GetBool("open")
		if open {
			insp = insp.WithBrowserOpen()
		}

		insp.StartServer()

		select {}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0,
		"Port to listen on, 0 picks a random port")
	serveCmd.Flags().Bool("open", false,
		"Open the configuration listing in the default browser")
}
