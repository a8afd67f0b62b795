package main

import (
	"fmt"

	"github.com/hypernova-labs/kassa-sdk/pkg/vat"
	"github.com/spf13/cobra"
)

func newVATCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vat",
		Short: "VAT rate helpers",
	}

	var legacy bool
	parse := &cobra.Command{
		Use:   "parse <rate>",
		Short: "Normalize a VAT rate to its canonical code",
		Example: `  kassactl vat parse 20%
  kassactl vat parse 10/110
  kassactl vat parse --legacy 18`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := vat.NewParser(vat.Default)
			if legacy {
				parser = vat.NewParser(vat.Legacy)
			}
			rate, err := parser.Parse(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rate)
			return err
		},
	}
	parse.Flags().BoolVar(&legacy, "legacy", false, "use the legacy rate table (18 and 118 are valid)")

	cmd.AddCommand(parse)
	return cmd
}
