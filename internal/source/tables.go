//-------------------------------------------------------------------------
//
// delivery-facts
//
// Copyright (c) 2025 - 2026, ShopLens Analytics
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

// Package source loads the raw e-commerce CSV tables into typed rows.
// Values that fail to parse are coerced to null (nil pointers / empty
// strings) rather than reported; the only error this package surfaces is
// a missing source file.
package source

import "time"

// Raw CSV filenames expected under the raw data directory.
const (
	OrdersFile      = "olist_orders_dataset.csv"
	CustomersFile   = "olist_customers_dataset.csv"
	OrderItemsFile  = "olist_order_items_dataset.csv"
	PaymentsFile    = "olist_order_payments_dataset.csv"
	ProductsFile    = "olist_products_dataset.csv"
	TranslationFile = "product_category_name_translation.csv"
	GeolocationFile = "olist_geolocation_dataset.csv"
)

// RequiredFiles lists every CSV a fact table build needs.
var RequiredFiles = []string{
	OrdersFile,
	CustomersFile,
	OrderItemsFile,
	PaymentsFile,
	ProductsFile,
	TranslationFile,
	GeolocationFile,
}

// StatusDelivered is the order lifecycle status that gates delay
// computation downstream.
const StatusDelivered = "delivered"

// Order is one row of the orders table.
type Order struct {
	OrderID     string
	CustomerID  string
	Status      string
	PurchasedAt *time.Time
	DeliveredAt *time.Time
	EstimatedAt *time.Time
}

// Customer is one row of the customers table. ZipPrefix is the join key
// into the geolocation lookup.
type Customer struct {
	CustomerID string
	ZipPrefix  string
	City       string
	State      string
}

// OrderItem is one line item of an order.
type OrderItem struct {
	OrderID      string
	ProductID    string
	Price        *float64
	FreightValue *float64
}

// Payment is one payment installment of an order.
type Payment struct {
	OrderID string
	Type    string
	Value   *float64
}

// Product carries the (untranslated) category name for an item's product.
type Product struct {
	ProductID    string
	CategoryName string
}

// CategoryTranslation maps a category name to its English translation.
type CategoryTranslation struct {
	CategoryName string
	English      string
}

// GeoSample is one raw geolocation sample for a zip code prefix.
type GeoSample struct {
	ZipPrefix string
	Lat       *float64
	Lng       *float64
}

// RawData bundles the seven loaded tables.
type RawData struct {
	Orders       []Order
	Customers    []Customer
	Items        []OrderItem
	Payments     []Payment
	Products     []Product
	Translations []CategoryTranslation
	Geolocation  []GeoSample
}
