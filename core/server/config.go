package server

import "strings"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// OrderNumberPrefix is the fixed prefix historically prepended to
	// purchase-order numbers (e.g. "PO-"). Goods-receipt lookups query
	// the order number both with and without it, because warehouse staff
	// entered the number inconsistently over the years.
	OrderNumberPrefix string `mapstructure:"order_number_prefix" default:"PO-"`
}

// NormalizedPrefix returns the configured prefix with surrounding
// whitespace removed.
func (c Config) NormalizedPrefix() string {
	return strings.TrimSpace(c.OrderNumberPrefix)
}
