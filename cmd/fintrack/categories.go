package main

import (
	"fmt"

	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the valid categories for expenses and incomes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, kind := range model.Kinds() {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatCategories(kind))
			}
		},
	}
}
