package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sportsschool/internal/adapters/storage"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer db.Close()

			v, err := storage.SchemaVersion(cmd.Context(), db.raw)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema at version %d (latest %d).\n", v, storage.LatestSchemaVersion())
			return nil
		},
	}
}
