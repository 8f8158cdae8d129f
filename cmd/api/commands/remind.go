package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sportsschool/internal/application/orchestrators"
)

func remindOverdueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remind-overdue",
		Short: "Email a reminder for every overdue invoice",
		Long:  "Sends one batch of payment reminders. Invoices reminded within the reminder interval are skipped, so the command is safe to run from cron.",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer db.Close()

			sent, err := orchestrators.ExecuteRemindOverdue(cmd.Context(), orchestrators.RemindInvoiceDeps{
				InvoiceStore:  db.stores.Invoices,
				StudentStore:  db.stores.Students,
				SettingsStore: db.stores.Settings,
				Sender:        newSender(),
				Now:           time.Now,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sent %d reminder(s).\n", sent)
			return nil
		},
	}
}
