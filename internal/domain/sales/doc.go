// Package sales models the ERP selling documents the ticket automation drives:
// quotations, the combined sales order and the receiving payment entry.
//
// The service does not own these records. They live in a sales backend (a Frappe
// site or the local ledger) reached through the Gateway port.
package sales
