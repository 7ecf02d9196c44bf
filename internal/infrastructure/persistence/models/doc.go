// Package models contains the GORM persistence models of the store.
// Domain entities carry no ORM tags; each model converts to and from its
// entity with ToDomain / FromDomain.
//
// Layout:
//   - base.go: shared id/timestamp/version columns
//   - catalog.go: products and variants
//   - partner.go: suppliers
//   - ledger.go: the append-only stock ledger
//   - sales.go: sales, sale lines, payments
//   - purchasing.go: purchase orders, items, goods receipts
package models
