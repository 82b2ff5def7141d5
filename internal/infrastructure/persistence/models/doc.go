// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// - base.go: key and timestamp columns
// - customer.go: the customers table and its mappers
package models
