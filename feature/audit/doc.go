// Package audit runs cross-store consistency checks between the report
// document store and the database: posted batches that reference vanished
// line items, report entries pointing at unknown purchase-order lines, and
// report documents that cannot be found by any order-number query.
//
// Findings are advisory. The audit never mutates either store; operators
// decide what to repair.
package audit
