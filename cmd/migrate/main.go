// cmd/migrate/main.go
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/javajoker/kk-storefront/internal/config"
	"github.com/javajoker/kk-storefront/internal/database"
	"github.com/javajoker/kk-storefront/internal/logging"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "migrate",
		Short: "Manage storefront schema migrations",
		Long: `Run the named schema migrations against the configured database.

Every migration is safe to re-run: statements whose table, column or index
already exists are reported as already applied.

Examples:
  migrate list
  migrate run labels
  migrate run all
  migrate automigrate --seed`,
		SilenceUsage: true,
	}

	root.AddCommand(newListCommand())
	root.AddCommand(newRunCommand())
	root.AddCommand(newAutoMigrateCommand())
	return root
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDESCRIPTION")
			for _, m := range database.Migrations() {
				fmt.Fprintf(w, "%s\t%s\n", m.Name, m.Description)
			}
			return w.Flush()
		},
	}
}

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run [name|all]",
		Short: "Run one migration or all of them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logging.Setup(cfg.Environment)

			db, err := database.Initialize(cfg.Database)
			if err != nil {
				return err
			}
			defer database.Close(db)

			results, err := database.RunMigration(cmd.Context(), db, args[0])
			for _, res := range results {
				logrus.WithFields(logrus.Fields{
					"migration":       res.Name,
					"applied":         res.Applied,
					"already_applied": res.AlreadyApplied,
				}).Info("Migration finished")
			}
			return err
		},
	}
}

func newAutoMigrateCommand() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "automigrate",
		Short: "Create or update every table from the models",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logging.Setup(cfg.Environment)

			db, err := database.Initialize(cfg.Database)
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.RunMigrations(db); err != nil {
				return err
			}
			if seed {
				return database.SeedInitialData(db)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "insert default attributes and settings")
	return cmd
}
