// Package models contains the GORM persistence models for placed orders.
// They are kept apart from the domain types, which carry no ORM tags;
// mappers convert in both directions.
package models

// AllModels lists the models owned by the storefront schema
func AllModels() []any {
	return []any{&OrderModel{}, &OrderLineModel{}}
}
