package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sarchlab/drammap/bitmatrix"
	"github.com/sarchlab/drammap/dramaddr"
	"github.com/sarchlab/drammap/mapping"
	"github.com/sarchlab/drammap/memconfig"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [scheme ...]",
	Short: "Check that derived matrices invert and translate cleanly.",
	Long: `Verify derives the named schemes (all built-in schemes when none ` +
		`are named), multiplies each forward matrix with its inverse, and ` +
		`round-trips a set of probe addresses through the translator.`,
	Run: func(_ *cobra.Command, args []string) {
		selected, err := selectSchemes(args)
		if err != nil {
			log.Error(err)
			os.Exit(1)
		}

		failed := false

		for _, s := range selected {
			err := verifyScheme(s)
			if err != nil {
				log.Errorf("%s: %s", s.Name, err)

				failed = true

				continue
			}

			fmt.Printf("%s: ok\n", s.Name)
		}

		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func verifyScheme(s mapping.Scheme) error {
	cfg, err := memconfig.Derive(s)
	if err != nil {
		return err
	}

	product := cfg.DRAMMatrix.Mul(cfg.AddrMatrix)
	if !product.Equal(bitmatrix.Identity(cfg.Width())) {
		return fmt.Errorf("matrix product is not the identity")
	}

	translator := dramaddr.NewTranslator(cfg)
	for _, addr := range probeAddresses(cfg) {
		a := translator.Map(addr)

		back := translator.Unmap(a)
		if back != addr {
			return fmt.Errorf("address %#x maps to %s but unmaps to %#x",
				addr, a, back)
		}
	}

	return nil
}

// probeAddresses walks every address bit the scheme references, plus a
// few mixed patterns.
func probeAddresses(cfg memconfig.Config) []uint64 {
	addrs := []uint64{0, cfg.AddrBits}

	for bits := cfg.AddrBits; bits != 0; bits &= bits - 1 {
		addrs = append(addrs, bits&-bits)
	}

	patterns := []uint64{
		0x5555555555555555,
		0xaaaaaaaaaaaaaaaa,
		0x2e85cafe,
	}
	for _, p := range patterns {
		addrs = append(addrs, p&cfg.AddrBits)
	}

	return addrs
}
