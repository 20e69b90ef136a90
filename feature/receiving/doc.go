// Package receiving is the goods-receipt workflow: it reconciles
// purchase-order line items against warehouse unloading reports and the
// posted-batch ledger, builds receiving requests for the outstanding
// batches, and ingests new report documents.
//
// Reports live as JSON documents in the object store; posted batches and
// purchase orders live in the database. The pure reconciliation rules are
// in the nested reconcile package; this package adds the stores, the
// service orchestration, and the HTTP surface.
package receiving
