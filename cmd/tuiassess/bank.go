package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuiassess/internal/bank"
)

var bankOut string

func newBankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Inspect question banks",
	}
	export := &cobra.Command{
		Use:   "export",
		Short: "Write the built-in bank as YAML",
		Args:  cobra.NoArgs,
		RunE:  runBankExportCmd,
	}
	export.Flags().StringVar(&bankOut, "out", "", "output file (default: stdout)")
	check := &cobra.Command{
		Use:   "check FILE",
		Short: "Validate a YAML bank",
		Args:  cobra.ExactArgs(1),
		RunE:  runBankCheckCmd,
	}
	cmd.AddCommand(export, check)
	return cmd
}

func runBankExportCmd(_ *cobra.Command, _ []string) (err error) {
	if bankOut == "" {
		return bank.Export(os.Stdout, bank.Default())
	}
	file, err := os.Create(bankOut)
	if err != nil {
		return fmt.Errorf("failed to create bank file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close bank file: %w", cerr)
		}
	}()
	return bank.Export(file, bank.Default())
}

func runBankCheckCmd(_ *cobra.Command, args []string) error {
	b, err := bank.Load(args[0])
	if err != nil {
		return err
	}
	practice, easy, medium, hard := b.Counts()
	fmt.Printf("OK: %d practice, %d easy, %d medium, %d hard questions\n", practice, easy, medium, hard)
	return nil
}
