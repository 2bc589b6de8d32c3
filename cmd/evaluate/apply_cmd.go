package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/prosuite/evaluation/env"
	"github.com/prosuite/evaluation/fieldsetter"
	"github.com/prosuite/evaluation/sources/pgrows"
	"github.com/prosuite/evaluation/sources/sqlrows"
)

func (a *app) newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply ASSIGNMENTS",
		Short: "Apply field assignments to the rows of a query",
		Long: `Apply runs a query, applies the assignments to every row it returns
and prints the resulting rows as JSON. The database is never written.`,
		Example: `  evaluate apply "above := (level ?? 0) > 0" --dsn roads.db --query "SELECT * FROM roads"`,
		Args: cobra.ExactArgs(1),
		RunE: a.runApply,
	}
	cmd.Flags().String("driver", "sqlite", "Database driver (sqlite or postgres)")
	cmd.Flags().String("dsn", "", "Data source name")
	cmd.Flags().String("query", "", "Query selecting the rows")
	cmd.Flags().Bool("strict", false, "Only allow assignments to columns of the query")
	cmd.Flags().StringArray("set", nil, "Define a value as name=value (repeatable)")
	return cmd
}

func (a *app) runApply(cmd *cobra.Command, args []string) error {
	runID, err := uuid.NewV4()
	if err != nil {
		return err
	}
	logger := a.logger(cmd.ErrOrStderr()).With().Str("run_id", runID.String()).Logger()

	fsOpts := []fieldsetter.Option{fieldsetter.WithLogger(logger)}
	if a.v.GetBool("case-sensitive") {
		fsOpts = append(fsOpts, fieldsetter.WithCaseSensitive())
	}
	fs, err := fieldsetter.Create(args[0], fsOpts...)
	if err != nil {
		return err
	}

	query := a.v.GetString("query")
	if query == "" {
		return errors.New("a query is required")
	}
	driver := a.v.GetString("driver")
	logger.Debug().Str("driver", driver).Str("query", query).Msg("running query")

	records, err := a.collect(cmd.Context(), driver, a.v.GetString("dsn"), query)
	if err != nil {
		return err
	}
	logger.Info().Int("rows", len(records)).Msg("rows read")

	if a.v.GetBool("strict") && len(records) > 0 {
		if err := fs.Validate(records[0].Names()); err != nil {
			return err
		}
	}

	environment := a.environment(logger)
	assignments, err := cmd.Flags().GetStringArray("set")
	if err != nil {
		return err
	}
	if err := defineAll(environment, assignments); err != nil {
		return err
	}

	results := make([]map[string]any, 0, len(records))
	for i, record := range records {
		if err := fs.Execute(record, environment); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		results = append(results, record.Map())
	}
	logger.Info().Int("rows", len(results)).Msg("assignments applied")
	return writeJSON(cmd.OutOrStdout(), results, a.v.GetBool("no-color"))
}

func (a *app) collect(ctx context.Context, driver, dsn, query string) ([]*env.Record, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	switch driver {
	case "sqlite":
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		rows, err := db.QueryContext(ctx, query)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		var opts []sqlrows.Option
		if a.v.GetBool("case-sensitive") {
			opts = append(opts, sqlrows.WithCaseSensitive())
		}
		return sqlrows.Collect(rows, opts...)
	case "postgres":
		conn, err := pgx.Connect(ctx, dsn)
		if err != nil {
			return nil, err
		}
		defer conn.Close(ctx)
		rows, err := conn.Query(ctx, query)
		if err != nil {
			return nil, err
		}
		return pgrows.Collect(rows)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}
}
