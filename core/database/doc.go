// Package database handles the MySQL connection.
//
// It wraps GORM to configure the connection from the application's
// configuration: DSN assembly (with URL-encoded credentials and explicit
// connect/read/write timeouts), pool sizing, and an initial ping.
//
// The database holds the structured side of the system: purchase orders,
// their line items, and the posted-batch ledger. The unstructured side
// (unloading report documents) lives in object storage, see core/storage.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
