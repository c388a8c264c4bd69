package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/ledger"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func balanceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show, override or verify the running balance",
	}

	cmd.AddCommand(balanceShowCmd(a))
	cmd.AddCommand(balanceSetCmd(a))
	cmd.AddCommand(balanceReconcileCmd(a))

	return cmd
}

func balanceShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			engine, cleanup, err := a.initLedger(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			balance, err := engine.GetBalance(ctx)
			if err != nil {
				return userError(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatBalance(balance))
			return nil
		},
	}
}

func balanceSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <value>",
		Short: "Overwrite the balance with a value",
		Long: `Overwrite the stored balance. The value is not linked to any
transaction, so the balance no longer matches the history until
'fintrack balance reconcile --fix' is run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			value, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(args[0]), ",", "."))
			if err != nil {
				return common.NewUserError(fmt.Sprintf("Invalid balance %q", args[0]), err)
			}
			if !model.FitsStorage(value) {
				return common.NewUserError(fmt.Sprintf("Balance %q is out of range", args[0]), ledger.ErrAmountOutOfRange)
			}

			engine, cleanup, err := a.initLedger(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			ok, err := engine.SetBalance(ctx, value)
			if err != nil || !ok {
				return common.NewUserError("Not possible to update balance.", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("New balance set."))
			return nil
		},
	}
}

func balanceReconcileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare the stored balance with the transaction history",
		Long: `Recompute the balance as total incomes minus total expenses and compare
it with the stored value. With --fix, a drifted balance is overwritten with
the recomputed one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			fix, _ := cmd.Flags().GetBool("fix")

			engine, cleanup, err := a.initLedger(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			reconcile := engine.Reconcile
			if fix {
				reconcile = engine.Repair
			}
			report, err := reconcile(ctx)
			if err != nil {
				return userError(err)
			}

			out := cmd.OutOrStdout()
			cli.WriteReconcileReport(out, report)
			if fix && !report.Consistent {
				fmt.Fprintln(out, cli.FormatSuccess("Balance set to "+model.FormatAmount(report.Computed)+"."))
			}
			return nil
		},
	}

	cmd.Flags().Bool("fix", false, "overwrite a drifted balance with the recomputed value")

	return cmd
}
