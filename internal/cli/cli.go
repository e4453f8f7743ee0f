//-------------------------------------------------------------------------
//
// delivery-facts
//
// Copyright (c) 2025 - 2026, ShopLens Analytics
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for delivery-facts.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/shoplens/delivery-facts/internal/config"
	"github.com/shoplens/delivery-facts/internal/logging"
	"github.com/shoplens/delivery-facts/pkg/version"
)

var (
	// Global flags
	cfgFile      string
	rawDir       string
	processedDir string
	logLevel     string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "delivery-facts",
		Short: "Delivery performance fact table builder for e-commerce orders",
		Long: `delivery-facts ingests the raw e-commerce order CSVs (orders, customers,
items, payments, products, category translation, geolocation), builds a
single denormalized fact table describing each order's delivery outcome,
and caches it to a Parquet artifact.

The cached fact table is the only surface downstream consumers read:
filter it, compute KPIs over it, or roll it up by state for map display.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./delivery-facts.yaml)")
	rootCmd.PersistentFlags().StringVar(&rawDir, "raw-dir", "",
		"directory holding the raw CSV tables")
	rootCmd.PersistentFlags().StringVar(&processedDir, "processed-dir", "",
		"directory holding the cached fact table artifact")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(kpisCmd)
	rootCmd.AddCommand(geoCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(tablesCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if rawDir != "" {
		cfg.RawDir = rawDir
	}
	if processedDir != "" {
		cfg.ProcessedDir = processedDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the raw source tables and their join keys",
	Long: `List the seven raw CSV tables a fact table build reads, along with
the join keys that stitch them into one fact row per order.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Raw source tables:")
		cmd.Println()
		cmd.Println("  orders        olist_orders_dataset.csv            key: order_id, fk: customer_id")
		cmd.Println("  customers     olist_customers_dataset.csv         key: customer_id, fk: customer_zip_code_prefix")
		cmd.Println("  order_items   olist_order_items_dataset.csv       fk: order_id, product_id")
		cmd.Println("  payments      olist_order_payments_dataset.csv    fk: order_id")
		cmd.Println("  products      olist_products_dataset.csv          key: product_id, fk: product_category_name")
		cmd.Println("  translation   product_category_name_translation.csv  key: product_category_name")
		cmd.Println("  geolocation   olist_geolocation_dataset.csv       key: geolocation_zip_code_prefix")
		cmd.Println()
		cmd.Println("Join chain: orders + customers + geo lookup + payment/item aggregates.")
	},
}
