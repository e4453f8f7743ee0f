package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/shoplens/delivery-facts/internal/factstore"
	"github.com/shoplens/delivery-facts/internal/metrics"
	"github.com/shoplens/delivery-facts/internal/transform"
)

var (
	statsFrom          string
	statsTo            string
	statsStates        []string
	statsCategories    []string
	statsPaymentTypes  []string
	statsDeliveredOnly bool
	statsRebuild       bool
)

var kpisCmd = &cobra.Command{
	Use:   "kpis",
	Short: "Compute delivery KPIs over the (filtered) fact table",
	Long: `Load the fact table (building it first if no cache artifact exists),
apply the requested filters, and print the delivery KPIs.

Example:
  delivery-facts kpis --state SP --state RJ --delivered-only
  delivery-facts kpis --from 2017-01-01 --to 2017-12-31 --category bed_bath_table`,
	RunE: runKPIs,
}

var geoCmd = &cobra.Command{
	Use:   "geo",
	Short: "Compute the per-state geographic rollup over the (filtered) fact table",
	Long: `Load the fact table, apply the requested filters, and print per-state
delivery metrics with state centroid coordinates. Orders without resolved
coordinates are excluded from the rollup.`,
	RunE: runGeo,
}

func init() {
	for _, c := range []*cobra.Command{kpisCmd, geoCmd} {
		c.Flags().StringVar(&statsFrom, "from", "",
			"inclusive purchase date lower bound (YYYY-MM-DD)")
		c.Flags().StringVar(&statsTo, "to", "",
			"inclusive purchase date upper bound (YYYY-MM-DD)")
		c.Flags().StringArrayVar(&statsStates, "state", nil,
			"restrict to customer state (repeatable)")
		c.Flags().StringArrayVar(&statsCategories, "category", nil,
			"restrict to dominant product category (repeatable)")
		c.Flags().StringArrayVar(&statsPaymentTypes, "payment-type", nil,
			"restrict to dominant payment type (repeatable)")
		c.Flags().BoolVar(&statsDeliveredOnly, "delivered-only", false,
			"restrict to delivered orders")
		c.Flags().BoolVar(&statsRebuild, "rebuild", false,
			"ignore an existing cache artifact and rebuild from raw CSVs")
	}
}

func loadFiltered() ([]transform.FactOrder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	filters := metrics.Filters{
		States:        statsStates,
		Categories:    statsCategories,
		PaymentTypes:  statsPaymentTypes,
		DeliveredOnly: statsDeliveredOnly,
	}
	var err error
	if filters.StartDate, err = parseDateFlag("from", statsFrom); err != nil {
		return nil, err
	}
	if filters.EndDate, err = parseDateFlag("to", statsTo); err != nil {
		return nil, err
	}

	facts, err := factstore.Get(cfg.RawDir, cfg.ProcessedDir, statsRebuild)
	if err != nil {
		return nil, err
	}
	return metrics.Apply(facts, filters), nil
}

func runKPIs(cmd *cobra.Command, args []string) error {
	rows, err := loadFiltered()
	if err != nil {
		return err
	}
	k := metrics.ComputeKPIs(rows)

	cmd.Printf("Total orders:        %d\n", k.TotalOrders)
	cmd.Printf("Delivered orders:    %d\n", k.DeliveredOrders)
	cmd.Printf("On-time deliveries:  %d (%.1f%%)\n", k.OnTimeCount, k.OnTimeRate*100)
	cmd.Printf("Avg delay (days):    %.2f\n", k.AvgDelayDays)
	cmd.Printf("Total payment value: %.2f\n", k.TotalPaymentValue)
	cmd.Printf("Total freight value: %.2f\n", k.TotalFreightValue)
	return nil
}

func runGeo(cmd *cobra.Command, args []string) error {
	rows, err := loadFiltered()
	if err != nil {
		return err
	}
	rollup := metrics.GroupGeo(rows)
	if len(rollup) == 0 {
		cmd.Println("No orders with resolved coordinates match the filters.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STATE\tLAT\tLNG\tORDERS\tDELIVERED\tON-TIME\tRATE\tAVG DELAY")
	for _, r := range rollup {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%d\t%d\t%d\t%.1f%%\t%.2f\n",
			r.State, r.MeanLat, r.MeanLng,
			r.OrderCount, r.DeliveredCount, r.OnTimeCount,
			r.OnTimeRate*100, r.AvgDelayDays)
	}
	return w.Flush()
}

// parseDateFlag parses a YYYY-MM-DD filter bound; empty means unbounded.
func parseDateFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s date %q (want YYYY-MM-DD)", name, value)
	}
	return &t, nil
}
