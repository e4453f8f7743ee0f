package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shoplens/delivery-facts/internal/db"
	"github.com/shoplens/delivery-facts/internal/factstore"
)

var (
	exportConnection string
	exportTable      string
	exportRebuild    bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the fact table to a PostgreSQL table",
	Long: `Load the fact table (building it first if no cache artifact exists)
and bulk-load it into PostgreSQL, replacing the destination table.

Example:
  delivery-facts export --connection "postgres://user@localhost/analytics"
  delivery-facts export --table fact_orders --rebuild`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportConnection, "connection", "",
		"PostgreSQL connection string")
	exportCmd.Flags().StringVar(&exportTable, "table", "",
		"destination table name (default: fact_orders)")
	exportCmd.Flags().BoolVar(&exportRebuild, "rebuild", false,
		"ignore an existing cache artifact and rebuild from raw CSVs")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportConnection != "" {
		cfg.Export.Connection = exportConnection
	}
	if exportTable != "" {
		cfg.Export.Table = exportTable
	}
	if err := cfg.ValidateExport(); err != nil {
		return err
	}

	facts, err := factstore.Get(cfg.RawDir, cfg.ProcessedDir, exportRebuild)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Export.Connection)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.CreateFactTable(ctx, pool, cfg.Export.Table); err != nil {
		return err
	}
	copied, err := db.ExportFactOrders(ctx, pool, cfg.Export.Table, facts)
	if err != nil {
		return err
	}

	cmd.Printf("Exported %d fact rows to %s\n", copied, cfg.Export.Table)
	return nil
}
