// Package models contains the GORM persistence models of the ticketing service.
// Domain types stay free of ORM tags; each model converts with ToDomain/FromDomain.
//
//   - base.go: shared columns of entities and tenant aggregates
//   - ticket.go: ticket automation documents and their quotation rows
//   - sales.go: the local sales ledger (quotations, sales orders, payment entries, naming series)
//   - portal.go: website users, customers and addresses created by registration
package models
