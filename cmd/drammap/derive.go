package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sarchlab/drammap/catalog"
	"github.com/sarchlab/drammap/memconfig"
)

var deriveCmd = &cobra.Command{
	Use:   "derive [scheme ...]",
	Short: "Derive mapping matrices and emit them as configurations.",
	Long: `Derive validates the named schemes (all built-in schemes when ` +
		`none are named), computes their forward and inverse matrices, and ` +
		`renders the resulting configurations. Schemes whose identifier is ` +
		`already taken are skipped with a warning, as consumers look ` +
		`configurations up by identifier.`,
	Run: func(cmd *cobra.Command, args []string) {
		selected, err := selectSchemes(args)
		if err != nil {
			log.Error(err)
			os.Exit(1)
		}

		table := memconfig.NewTable()
		failed := false

		for _, s := range selected {
			cfg, err := memconfig.Derive(s)
			if err != nil {
				log.Error(err)

				failed = true

				continue
			}

			log.Debugf("derived %s: identifier %#010x, %d matrix bits",
				cfg.Name, cfg.Identifier, cfg.Width())

			err = table.Add(cfg)
			if err != nil {
				log.Warnf("skipping %s: %s", cfg.Name, err)
			}
		}

		emitTable(cmd, table)

		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(deriveCmd)
	deriveCmd.Flags().String("format", "cpp",
		"Output format, cpp or json")
	deriveCmd.Flags().StringP("output", "o", "",
		"Write the rendered configurations to a file instead of stdout")
	deriveCmd.Flags().String("record", "",
		"Record the configurations into a SQLite catalog at this path")
	deriveCmd.Flags().String("csv", "",
		"Write the configurations to a CSV file at this path")
}

func emitTable(cmd *cobra.Command, table *memconfig.Table) {
	format, _ := cmd.Flags().GetString("format")

	var out []byte
	switch format {
	case "cpp":
		out = []byte(table.CppSource())
	case "json":
		rendered, err := table.JSON()
		if err != nil {
			log.Error(err)
			os.Exit(1)
		}

		out = append(rendered, '\n')
	default:
		log.Errorf("unknown format %s, available: cpp, json", format)
		os.Exit(1)
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		fmt.Print(string(out))
	} else {
		err := os.WriteFile(output, out, 0644)
		if err != nil {
			log.Error(err)
			os.Exit(1)
		}
	}

	recordTable(cmd, table)
}

func recordTable(cmd *cobra.Command, table *memconfig.Table) {
	record, _ := cmd.Flags().GetString("record")
	if record == "" {
		record = os.Getenv("DRAMMAP_DB")
	}

	if record != "" {
		rec := catalog.NewSQLite(record)
		catalog.Record(table, rec)

		err := rec.Close()
		if err != nil {
			log.Error(err)
			os.Exit(1)
		}
	}

	csvPath, _ := cmd.Flags().GetString("csv")
	if csvPath == "" {
		return
	}

	writer := catalog.NewCSVWriter(csvPath)
	writer.Init()

	for _, cfg := range table.Configs() {
		writer.Write(catalog.NewEntry(cfg))
	}

	writer.Flush()
}
