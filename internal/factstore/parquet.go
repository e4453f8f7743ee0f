package factstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/shoplens/delivery-facts/internal/transform"
)

var timestampType = &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}

// factSchema is the columnar layout of the cache artifact. Every optional
// fact field maps to a nullable column.
var factSchema = arrow.NewSchema([]arrow.Field{
	{Name: "order_id", Type: arrow.BinaryTypes.String},
	{Name: "customer_id", Type: arrow.BinaryTypes.String},
	{Name: "order_status", Type: arrow.BinaryTypes.String},
	{Name: "order_purchase_timestamp", Type: timestampType, Nullable: true},
	{Name: "order_estimated_delivery_date", Type: timestampType, Nullable: true},
	{Name: "order_delivered_customer_date", Type: timestampType, Nullable: true},
	{Name: "customer_zip_code_prefix", Type: arrow.BinaryTypes.String, Nullable: true},
	{Name: "customer_city", Type: arrow.BinaryTypes.String, Nullable: true},
	{Name: "customer_state", Type: arrow.BinaryTypes.String, Nullable: true},
	{Name: "mean_lat", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	{Name: "mean_lng", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	{Name: "payment_type_mode", Type: arrow.BinaryTypes.String, Nullable: true},
	{Name: "payment_value_sum", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	{Name: "freight_value_sum", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	{Name: "product_category_mode", Type: arrow.BinaryTypes.String, Nullable: true},
	{Name: "delay_days", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
	{Name: "on_time", Type: arrow.FixedWidthTypes.Boolean, Nullable: true},
}, nil)

// WriteParquet persists the fact table to path. The file is written to a
// temporary sibling and renamed into place so racing readers never observe
// a truncated artifact.
func WriteParquet(path string, facts []transform.FactOrder) error {
	mem := memory.NewGoAllocator()
	rec := encodeRecord(mem, facts)
	defer rec.Release()

	table := array.NewTableFromRecords(factSchema, []arrow.Record{rec})
	defer table.Release()

	tmp, err := os.CreateTemp(filepath.Dir(path), ".fact_orders-*.parquet")
	if err != nil {
		return fmt.Errorf("creating artifact temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithAllocator(mem))

	writer, err := pqarrow.NewFileWriter(factSchema, tmp, props, arrowProps)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("creating parquet writer: %w", err)
	}
	chunkSize := int64(len(facts))
	if chunkSize == 0 {
		chunkSize = 1
	}
	if err := writer.WriteTable(table, chunkSize); err != nil {
		writer.Close()
		return fmt.Errorf("writing fact table: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing parquet writer: %w", err)
	}
	_ = tmp.Close()

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("publishing artifact: %w", err)
	}
	return nil
}

// ReadParquet loads a fact table previously persisted with WriteParquet.
func ReadParquet(path string) ([]transform.FactOrder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening artifact: %w", err)
	}
	defer f.Close()

	pqReader, err := file.NewParquetReader(f)
	if err != nil {
		return nil, fmt.Errorf("creating parquet reader: %w", err)
	}

	mem := memory.NewGoAllocator()
	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("creating arrow reader: %w", err)
	}

	table, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, fmt.Errorf("reading fact table: %w", err)
	}
	defer table.Release()

	return decodeTable(table)
}

func encodeRecord(mem memory.Allocator, facts []transform.FactOrder) arrow.Record {
	orderID := array.NewStringBuilder(mem)
	customerID := array.NewStringBuilder(mem)
	status := array.NewStringBuilder(mem)
	purchased := array.NewTimestampBuilder(mem, timestampType)
	estimated := array.NewTimestampBuilder(mem, timestampType)
	delivered := array.NewTimestampBuilder(mem, timestampType)
	zipPrefix := array.NewStringBuilder(mem)
	city := array.NewStringBuilder(mem)
	state := array.NewStringBuilder(mem)
	meanLat := array.NewFloat64Builder(mem)
	meanLng := array.NewFloat64Builder(mem)
	payMode := array.NewStringBuilder(mem)
	paySum := array.NewFloat64Builder(mem)
	freightSum := array.NewFloat64Builder(mem)
	catMode := array.NewStringBuilder(mem)
	delay := array.NewInt64Builder(mem)
	onTime := array.NewBooleanBuilder(mem)

	for _, fo := range facts {
		orderID.Append(fo.OrderID)
		customerID.Append(fo.CustomerID)
		status.Append(fo.Status)
		appendTime(purchased, fo.PurchasedAt)
		appendTime(estimated, fo.EstimatedAt)
		appendTime(delivered, fo.DeliveredAt)
		appendString(zipPrefix, fo.ZipPrefix)
		appendString(city, fo.City)
		appendString(state, fo.State)
		appendFloat(meanLat, fo.MeanLat)
		appendFloat(meanLng, fo.MeanLng)
		appendString(payMode, fo.PaymentTypeMode)
		appendFloat(paySum, fo.PaymentValueSum)
		appendFloat(freightSum, fo.FreightValueSum)
		appendString(catMode, fo.CategoryMode)
		if fo.DelayDays != nil {
			delay.Append(*fo.DelayDays)
		} else {
			delay.AppendNull()
		}
		if fo.OnTime != nil {
			onTime.Append(*fo.OnTime)
		} else {
			onTime.AppendNull()
		}
	}

	builders := []array.Builder{
		orderID, customerID, status,
		purchased, estimated, delivered,
		zipPrefix, city, state,
		meanLat, meanLng,
		payMode, paySum,
		freightSum, catMode,
		delay, onTime,
	}
	cols := make([]arrow.Array, len(builders))
	for i, b := range builders {
		cols[i] = b.NewArray()
		b.Release()
	}
	rec := array.NewRecord(factSchema, cols, int64(len(facts)))
	for _, c := range cols {
		c.Release()
	}
	return rec
}

func decodeTable(table arrow.Table) ([]transform.FactOrder, error) {
	n := int(table.NumRows())
	facts := make([]transform.FactOrder, n)

	cols := make(map[string]*arrow.Column, int(table.NumCols()))
	schema := table.Schema()
	for i := 0; i < int(table.NumCols()); i++ {
		cols[schema.Field(i).Name] = table.Column(i)
	}
	for _, f := range factSchema.Fields() {
		if _, ok := cols[f.Name]; !ok {
			return nil, fmt.Errorf("artifact is missing column %q", f.Name)
		}
	}

	for row, v := range stringColumn(cols["order_id"], n) {
		if v != nil {
			facts[row].OrderID = *v
		}
	}
	for row, v := range stringColumn(cols["customer_id"], n) {
		if v != nil {
			facts[row].CustomerID = *v
		}
	}
	for row, v := range stringColumn(cols["order_status"], n) {
		if v != nil {
			facts[row].Status = *v
		}
	}
	for row, v := range timeColumn(cols["order_purchase_timestamp"], n) {
		facts[row].PurchasedAt = v
	}
	for row, v := range timeColumn(cols["order_estimated_delivery_date"], n) {
		facts[row].EstimatedAt = v
	}
	for row, v := range timeColumn(cols["order_delivered_customer_date"], n) {
		facts[row].DeliveredAt = v
	}
	for row, v := range stringColumn(cols["customer_zip_code_prefix"], n) {
		facts[row].ZipPrefix = v
	}
	for row, v := range stringColumn(cols["customer_city"], n) {
		facts[row].City = v
	}
	for row, v := range stringColumn(cols["customer_state"], n) {
		facts[row].State = v
	}
	for row, v := range floatColumn(cols["mean_lat"], n) {
		facts[row].MeanLat = v
	}
	for row, v := range floatColumn(cols["mean_lng"], n) {
		facts[row].MeanLng = v
	}
	for row, v := range stringColumn(cols["payment_type_mode"], n) {
		facts[row].PaymentTypeMode = v
	}
	for row, v := range floatColumn(cols["payment_value_sum"], n) {
		facts[row].PaymentValueSum = v
	}
	for row, v := range floatColumn(cols["freight_value_sum"], n) {
		facts[row].FreightValueSum = v
	}
	for row, v := range stringColumn(cols["product_category_mode"], n) {
		facts[row].CategoryMode = v
	}
	for row, v := range intColumn(cols["delay_days"], n) {
		facts[row].DelayDays = v
	}
	for row, v := range boolColumn(cols["on_time"], n) {
		facts[row].OnTime = v
	}

	return facts, nil
}

func appendString(b *array.StringBuilder, v *string) {
	if v != nil {
		b.Append(*v)
	} else {
		b.AppendNull()
	}
}

func appendFloat(b *array.Float64Builder, v *float64) {
	if v != nil {
		b.Append(*v)
	} else {
		b.AppendNull()
	}
}

func appendTime(b *array.TimestampBuilder, v *time.Time) {
	if v != nil {
		b.Append(arrow.Timestamp(v.UnixMicro()))
	} else {
		b.AppendNull()
	}
}

// The column readers flatten a possibly multi-chunk column into one slice
// of nullable values.

func stringColumn(col *arrow.Column, n int) []*string {
	out := make([]*string, 0, n)
	for _, chunk := range col.Data().Chunks() {
		arr := chunk.(*array.String)
		for i := 0; i < arr.Len(); i++ {
			if arr.IsNull(i) {
				out = append(out, nil)
				continue
			}
			v := arr.Value(i)
			out = append(out, &v)
		}
	}
	return out
}

func floatColumn(col *arrow.Column, n int) []*float64 {
	out := make([]*float64, 0, n)
	for _, chunk := range col.Data().Chunks() {
		arr := chunk.(*array.Float64)
		for i := 0; i < arr.Len(); i++ {
			if arr.IsNull(i) {
				out = append(out, nil)
				continue
			}
			v := arr.Value(i)
			out = append(out, &v)
		}
	}
	return out
}

func intColumn(col *arrow.Column, n int) []*int64 {
	out := make([]*int64, 0, n)
	for _, chunk := range col.Data().Chunks() {
		arr := chunk.(*array.Int64)
		for i := 0; i < arr.Len(); i++ {
			if arr.IsNull(i) {
				out = append(out, nil)
				continue
			}
			v := arr.Value(i)
			out = append(out, &v)
		}
	}
	return out
}

func boolColumn(col *arrow.Column, n int) []*bool {
	out := make([]*bool, 0, n)
	for _, chunk := range col.Data().Chunks() {
		arr := chunk.(*array.Boolean)
		for i := 0; i < arr.Len(); i++ {
			if arr.IsNull(i) {
				out = append(out, nil)
				continue
			}
			v := arr.Value(i)
			out = append(out, &v)
		}
	}
	return out
}

func timeColumn(col *arrow.Column, n int) []*time.Time {
	out := make([]*time.Time, 0, n)
	for _, chunk := range col.Data().Chunks() {
		arr := chunk.(*array.Timestamp)
		for i := 0; i < arr.Len(); i++ {
			if arr.IsNull(i) {
				out = append(out, nil)
				continue
			}
			t := time.UnixMicro(int64(arr.Value(i))).UTC()
			out = append(out, &t)
		}
	}
	return out
}
