package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/impactasaurus/impact/internal/bootstrap"
	"github.com/impactasaurus/impact/internal/config"
	"github.com/impactasaurus/impact/internal/db"
	"github.com/impactasaurus/impact/internal/services"
	"github.com/impactasaurus/impact/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	dbPath string
	seed   string
}

func newRootCmd() *cobra.Command {
	var g globalFlags
	root := &cobra.Command{
		Use:           "impact",
		Short:         "Beneficiary assessment server and terminal tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.dbPath, "db", "", "SQLite database path (overrides IMPACT_DB_PATH)")
	root.PersistentFlags().StringVar(&g.seed, "seed", "", "YAML seed file (overrides IMPACT_SEED_FILE)")

	root.AddCommand(newServeCmd(&g))
	root.AddCommand(newMigrateCmd(&g))
	root.AddCommand(newSeedCmd(&g))
	root.AddCommand(newReviewCmd(&g))
	root.AddCommand(newAssessCmd(&g))
	return root
}

func (g *globalFlags) config() config.Config {
	cfg := config.Load()
	if g.dbPath != "" {
		cfg.DBPath = g.dbPath
	}
	if g.seed != "" {
		cfg.SeedFile = g.seed
	}
	return cfg
}

func loadApp(g *globalFlags) (*bootstrap.App, error) {
	return bootstrap.New(g.config())
}

func newServeCmd(g *globalFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := g.config()
			if addr != "" {
				cfg.Addr = addr
			}
			app, err := bootstrap.New(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.Serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides IMPACT_ADDR)")
	return cmd
}

func newMigrateCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := g.config()
			if !cfg.UsesSQLite() {
				return errors.New("migrate needs --db or IMPACT_DB_PATH")
			}
			st, err := db.Open(cfg.DBPath, cfg.MigrationsDir)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "migrated %s\n", cfg.DBPath)
			return st.Close()
		},
	}
}

func newSeedCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file>",
		Short: "Load outcome sets and meetings from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := g.config()
			if !cfg.UsesSQLite() {
				return errors.New("seed needs --db or IMPACT_DB_PATH")
			}
			cfg.SeedFile = ""
			app, err := bootstrap.New(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			if err := bootstrap.SeedFrom(app.Store, args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "seeded %s from %s\n", cfg.DBPath, args[0])
			return nil
		},
	}
}

func newReviewCmd(g *globalFlags) *cobra.Command {
	var questionSet, first, second, agg string
	var records bool
	cmd := &cobra.Command{
		Use:   "review <beneficiary>",
		Short: "Print a beneficiary's progress table or record list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(g)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			reviews := app.Reviews()
			out := cmd.OutOrStdout()
			if records {
				recs, err := reviews.Records(args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(out, tui.RenderRecords(recs))
				return nil
			}
			var a services.Aggregation
			if agg != "" {
				var ok bool
				if a, ok = services.ParseAggregation(agg); !ok {
					return fmt.Errorf("unknown aggregation %q", agg)
				}
			}
			c, err := reviews.Comparison(args[0], services.Preferences{}, services.ComparisonParams{
				QuestionSetID: questionSet,
				FirstID:       first,
				LastID:        second,
				Aggregation:   a,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(out, tui.RenderComparison(c))
			return nil
		},
	}
	cmd.Flags().StringVar(&questionSet, "q", "", "questionnaire id")
	cmd.Flags().StringVar(&first, "first", "", "first meeting id")
	cmd.Flags().StringVar(&second, "second", "", "second meeting id")
	cmd.Flags().StringVar(&agg, "agg", "", "question or category")
	cmd.Flags().BoolVar(&records, "records", false, "list records instead of comparing")
	return cmd
}

func newAssessCmd(g *globalFlags) *cobra.Command {
	var actor string
	cmd := &cobra.Command{
		Use:   "assess <meeting>",
		Short: "Answer a meeting's questionnaire in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(g)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			res, err := app.RunQuestionnaire(args[0], actor)
			if err != nil {
				return err
			}
			if res == nil {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "not saved; answers given so far are kept")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "meeting %s completed: %s\n", res.MeetingID, res.Redirect)
			return nil
		},
	}
	cmd.Flags().StringVar(&actor, "actor", os.Getenv("USER"), "name recorded in the audit log")
	return cmd
}
