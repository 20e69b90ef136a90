// Package reconcile implements the goods-receipt reconciliation core.
//
// Given a purchase-order line item, the unloading reports retrieved for the
// order, and the ledger of batches already posted to inventory, it computes
// which delivered lots are still outstanding and produces the parameter set
// that seeds the inventory-receiving workflow.
//
// # Pipeline
//
// Data flows one way through four pure stages:
//
//	reports + posted ledger -> MatchEntries -> Aggregate -> BuildRequest
//
// Classify runs alongside MatchEntries only to produce operator-facing
// failure reasons; its output never authorizes receiving.
//
// # Purity
//
// Nothing in this package performs I/O, blocks, or keeps state between
// invocations. Every function operates on already-materialized snapshots and
// returns fresh values, so concurrent reconciliations for different line
// items are independent and need no locking. Fetching the snapshots is the
// caller's job (see feature/receiving.Service).
//
// # Fault isolation
//
// Malformed records degrade per batch and per report: an unparseable date or
// quantity is logged and treated as absent, never aborting aggregation of
// the remaining batches. Only BuildRequest can fail, and only with
// *NotReportedError.
package reconcile
