package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/ledger"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// transactionCmd builds the command group for one kind, e.g. `fintrack expense`.
func transactionCmd(a *app, kind model.Kind) *cobra.Command {
	plural := strings.ToLower(kind.Plural())

	cmd := &cobra.Command{
		Use:   string(kind),
		Short: fmt.Sprintf("Manage %s", plural),
		Long: fmt.Sprintf(`Add, list, edit and delete %s.

Every change updates the running balance in the same database transaction.`, plural),
	}

	cmd.AddCommand(addTransactionCmd(a, kind))
	cmd.AddCommand(listTransactionsCmd(a, kind))
	cmd.AddCommand(editTransactionCmd(a, kind))
	cmd.AddCommand(deleteTransactionCmd(a, kind))

	return cmd
}

func addTransactionCmd(a *app, kind model.Kind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: fmt.Sprintf("Record a new %s", kind),
		Example: fmt.Sprintf(`  fintrack %s add 70 --category %s --description "new game"
  fintrack %s add 12,50 --date 2024-04-01`,
			kind, model.CategoryLabels(kind)[0], kind),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := model.ParseAmount(args[0])
			if err != nil {
				return userError(err)
			}

			var opts []model.Option
			if cmd.Flags().Changed("date") {
				raw, _ := cmd.Flags().GetString("date")
				date, err := model.ParseDate(raw)
				if err != nil {
					return userError(err)
				}
				opts = append(opts, model.WithDate(date))
			}
			if cmd.Flags().Changed("description") {
				desc, _ := cmd.Flags().GetString("description")
				opts = append(opts, model.WithDescription(desc))
			}
			if cmd.Flags().Changed("category") {
				raw, _ := cmd.Flags().GetString("category")
				category, err := model.ParseCategory(kind, raw)
				if err != nil {
					return userError(err)
				}
				opts = append(opts, model.WithCategory(category))
			}

			txn := newTransaction(kind, amount, opts)

			engine, cleanup, err := a.initLedger(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			ok, err := engine.Add(ctx, &txn)
			if err != nil {
				return userError(err)
			}
			if !ok {
				return common.NewUserError(fmt.Sprintf("Not possible to add %s.", kind), nil)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess(kind.Label()+" added."))
			fmt.Fprintln(out, cli.FormatTransactionLine(txn))
			return nil
		},
	}

	cmd.Flags().String("date", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().String("description", "", "free-form description")
	cmd.Flags().String("category", "", fmt.Sprintf("one of %s (default: Other)", strings.Join(model.CategoryLabels(kind), ", ")))

	return cmd
}

func listTransactionsCmd(a *app, kind model.Kind) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   fmt.Sprintf("List all %s", strings.ToLower(kind.Plural())),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			engine, cleanup, err := a.initLedger(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			txns, err := engine.List(ctx, kind)
			if err != nil {
				return userError(err)
			}

			cli.WriteTransactions(cmd.OutOrStdout(), kind, txns)
			return nil
		},
	}
}

func editTransactionCmd(a *app, kind model.Kind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: fmt.Sprintf("Change fields of an existing %s", kind),
		Long: fmt.Sprintf(`Change one or more fields of an existing %s. Only the flags given are
changed. A new amount moves the balance by the difference.`, kind),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var req ledger.EditRequest
			if cmd.Flags().Changed("date") {
				raw, _ := cmd.Flags().GetString("date")
				date, err := model.ParseDate(raw)
				if err != nil {
					return userError(err)
				}
				req.Date = &date
			}
			if cmd.Flags().Changed("description") {
				desc, _ := cmd.Flags().GetString("description")
				req.Description = &desc
			}
			if cmd.Flags().Changed("category") {
				raw, _ := cmd.Flags().GetString("category")
				category, err := model.ParseCategory(kind, raw)
				if err != nil {
					return userError(err)
				}
				req.Category = &category
			}
			if cmd.Flags().Changed("amount") {
				raw, _ := cmd.Flags().GetString("amount")
				amount, err := model.ParseAmount(raw)
				if err != nil {
					return userError(err)
				}
				req.Amount = &amount
			}

			if req.IsEmpty() {
				return userError(ledger.ErrNoFieldsSpecified)
			}

			engine, cleanup, err := a.initLedger(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			ok, err := engine.Edit(ctx, kind, id, req)
			if err != nil {
				return userError(err)
			}

			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("No %s with id %d.", kind, id)))
				return nil
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%s %d updated.", kind.Label(), id)))
			return nil
		},
	}

	cmd.Flags().String("date", "", "new date as YYYY-MM-DD")
	cmd.Flags().String("description", "", "new description")
	cmd.Flags().String("category", "", "new category: "+strings.Join(model.CategoryLabels(kind), ", "))
	cmd.Flags().String("amount", "", "new amount, greater than zero")

	return cmd
}

func deleteTransactionCmd(a *app, kind model.Kind) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   fmt.Sprintf("Delete an %s and reverse its effect on the balance", kind),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			force, _ := cmd.Flags().GetBool("force")
			if !force {
				confirmed, err := cli.Confirm(ctx, cmd.InOrStdin(), out,
					fmt.Sprintf("Are you sure you want to delete %s %d?", kind, id))
				if err != nil {
					return common.NewUserError("Operation canceled.", err)
				}
				if !confirmed {
					fmt.Fprintln(out, "Operation canceled.")
					return nil
				}
			}

			engine, cleanup, err := a.initLedger(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			ok, err := engine.Delete(ctx, kind, id)
			if err != nil {
				return userError(err)
			}

			if !ok {
				fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("No %s with id %d.", kind, id)))
				return nil
			}
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%s %d deleted.", kind.Label(), id)))
			return nil
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")

	return cmd
}

func newTransaction(kind model.Kind, amount decimal.Decimal, opts []model.Option) model.Transaction {
	if kind == model.KindIncome {
		return model.NewIncome(amount, opts...)
	}
	return model.NewExpense(amount, opts...)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, common.NewUserError(fmt.Sprintf("Invalid id %q", raw), err)
	}
	return id, nil
}
