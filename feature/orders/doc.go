// Package orders exposes purchase orders and their line items.
//
// The full order-management surface (creation dialogs, price lists, PDF
// exports) lives in the office frontend; this feature only provides the
// read access the reconciliation workflow needs, plus order creation for
// seeding and integration tooling.
package orders
