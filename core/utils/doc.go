// Package utils provides common utility functions for the materials-manager
// application. It includes helpers for converting the loosely-typed values
// that historical form documents carry (quantities as strings or numbers,
// checkbox booleans as "1"/"true") into proper Go types.
package utils
