package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func newCardsCommand(cmdCtx *commandContext) *cobra.Command {
	cardsCmd := &cobra.Command{
		Use:   "cards",
		Short: "Card database utilities",
	}

	cardsCmd.AddCommand(newCardsImportCommand(cmdCtx))
	cardsCmd.AddCommand(newCardsShowCommand(cmdCtx))

	return cardsCmd
}

func newCardsImportCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <bulk-data.json>",
		Short: "Import a Scryfall bulk data file into the card database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cmdCtx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open bulk data: %w", err)
			}
			defer f.Close()

			imported, skipped, err := store.ImportBulkData(cmd.Context(), f)
			if err != nil {
				return fmt.Errorf("import bulk data: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d cards (%d skipped)\n", imported, skipped)
			total, err := store.CardCount(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Database now holds %d printings\n", total)
			return nil
		},
	}
}

func newCardsShowCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <card name>",
		Short: "List the stored printings of a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cmdCtx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			ctx := cmd.Context()
			oracleID, err := store.OracleIDByName(ctx, args[0])
			if err != nil {
				return fmt.Errorf("card %q: %w", args[0], err)
			}
			printings, err := store.PrintingsByOracleID(ctx, oracleID, "en")
			if err != nil {
				return fmt.Errorf("printings of %q: %w", args[0], err)
			}

			rows := make([][]string, 0, len(printings))
			for _, card := range printings {
				rows = append(rows, []string{
					card.CombinedName(),
					card.ReleasedAt(),
					card.CollectorNumber(),
					card.SetType(),
					strconv.FormatBool(card.FullArt()),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Name", "Released", "Collector #", "Set Type", "Full Art"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
