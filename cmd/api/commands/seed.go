package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"sportsschool/internal/application/orchestrators"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo accounts, students and records into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer db.Close()

			s := db.stores
			if err := orchestrators.ExecuteSeedDemo(cmd.Context(), orchestrators.SeedDemoDeps{
				AccountStore:      s.Accounts,
				AnnouncementStore: s.Announcements,
				CoachStore:        s.Coaches,
				StudentStore:      s.Students,
				InvoiceStore:      s.Invoices,
				AttendanceStore:   s.Attendance,
				AssessmentStore:   s.Assessments,
				GenerateID:        uuid.NewString,
				Now:               time.Now,
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Demo data ready. Accounts use password %q.\n", orchestrators.DemoPassword)
			return nil
		},
	}
}
