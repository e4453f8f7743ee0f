//-------------------------------------------------------------------------
//
// delivery-facts
//
// Copyright (c) 2025 - 2026, ShopLens Analytics
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

// Package datagen generates synthetic raw datasets for delivery-facts.
package datagen

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Brazilian state codes used by the customers and geolocation tables.
var brStates = []string{
	"SP", "RJ", "MG", "RS", "PR", "SC", "BA", "DF", "ES", "GO", "PE", "CE",
}

// Approximate state centroids; geolocation samples jitter around these so
// per-prefix means stay inside the state.
var stateCentroids = map[string][2]float64{
	"SP": {-23.55, -46.63}, "RJ": {-22.91, -43.17}, "MG": {-19.92, -43.94},
	"RS": {-30.03, -51.23}, "PR": {-25.43, -49.27}, "SC": {-27.59, -48.55},
	"BA": {-12.97, -38.50}, "DF": {-15.78, -47.93}, "ES": {-20.32, -40.34},
	"GO": {-16.68, -49.25}, "PE": {-8.05, -34.90}, "CE": {-3.72, -38.54},
}

// Product categories in their original (untranslated) names, with English
// translations for most of them. A few stay untranslated on purpose so the
// per-row translation fallback gets exercised by seeded data.
var categories = []string{
	"cama_mesa_banho", "beleza_saude", "esporte_lazer", "moveis_decoracao",
	"informatica_acessorios", "utilidades_domesticas", "relogios_presentes",
	"telefonia", "brinquedos", "automotivo",
}

// CategoryTranslations maps category names to English. Intentionally not
// exhaustive over the categories list.
var CategoryTranslations = map[string]string{
	"cama_mesa_banho":        "bed_bath_table",
	"beleza_saude":           "health_beauty",
	"esporte_lazer":          "sports_leisure",
	"moveis_decoracao":       "furniture_decor",
	"informatica_acessorios": "computers_accessories",
	"utilidades_domesticas":  "housewares",
	"relogios_presentes":     "watches_gifts",
	"telefonia":              "telephony",
}

// PaymentTypes are the payment methods seeded orders draw from.
var PaymentTypes = []string{"credit_card", "boleto", "voucher", "debit_card"}

// OrderStatuses with rough seeding weights; delivered dominates.
var orderStatuses = []string{
	"delivered", "delivered", "delivered", "delivered", "delivered",
	"delivered", "delivered", "delivered", "shipped", "canceled",
}

// Faker provides domain data generation using gofakeit.
type Faker struct {
	faker *gofakeit.Faker
}

// NewFaker creates a new Faker with a random seed.
func NewFaker() *Faker {
	return &Faker{
		faker: gofakeit.New(uint64(time.Now().UnixNano())),
	}
}

// NewFakerWithSeed creates a new Faker with a specific seed for
// reproducibility.
func NewFakerWithSeed(seed uint64) *Faker {
	return &Faker{
		faker: gofakeit.New(seed),
	}
}

// ID generates a random identifier for order/customer/product keys.
func (f *Faker) ID() string {
	return f.faker.UUID()
}

// State generates a random Brazilian state code.
func (f *Faker) State() string {
	return f.faker.RandomString(brStates)
}

// ZipPrefix generates a random five-digit zip code prefix.
func (f *Faker) ZipPrefix() string {
	return fmt.Sprintf("%05d", f.faker.Number(1000, 99999))
}

// City generates a random city name.
func (f *Faker) City() string {
	return f.faker.City()
}

// Category generates a random product category name (untranslated).
func (f *Faker) Category() string {
	return f.faker.RandomString(categories)
}

// PaymentType generates a random payment method.
func (f *Faker) PaymentType() string {
	return f.faker.RandomString(PaymentTypes)
}

// OrderStatus generates a weighted random order status.
func (f *Faker) OrderStatus() string {
	return f.faker.RandomString(orderStatuses)
}

// LatLng generates a coordinate jittered around the given state's
// centroid.
func (f *Faker) LatLng(state string) (float64, float64) {
	c, ok := stateCentroids[state]
	if !ok {
		c = stateCentroids["SP"]
	}
	lat := c[0] + f.faker.Float64Range(-0.5, 0.5)
	lng := c[1] + f.faker.Float64Range(-0.5, 0.5)
	return lat, lng
}

// Price generates a random item price.
func (f *Faker) Price() float64 {
	return round2(f.faker.Float64Range(5, 500))
}

// Freight generates a random freight value.
func (f *Faker) Freight() float64 {
	return round2(f.faker.Float64Range(3, 60))
}

// Int generates a random integer in [min, max].
func (f *Faker) Int(min, max int) int {
	return f.faker.Number(min, max)
}

// Chance returns true with probability p in [0, 1].
func (f *Faker) Chance(p float64) bool {
	return f.faker.Float64Range(0, 1) < p
}

// DateBetween generates a random timestamp in [start, end].
func (f *Faker) DateBetween(start, end time.Time) time.Time {
	return f.faker.DateRange(start, end)
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
