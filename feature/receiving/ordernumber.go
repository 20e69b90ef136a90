package receiving

import (
	"errors"
	"strings"
)

// ErrMissingOrderNumber means the order has no number to query report
// variants for. Diagnostics and receiving are both disabled in that case,
// surfaced once at the order level rather than per line.
var ErrMissingOrderNumber = errors.New("order has no order number")

// OrderNumberVariants returns the candidate strings used to look up
// unloading reports for one order number. Warehouse staff entered order
// numbers inconsistently over the years (with and without the fixed
// prefix), so the store is queried with every plausible spelling and the
// results are unioned.
//
// The variants are deduplicated and order-preserving: the number as
// entered first, then the prefixed form, then the bare form.
func OrderNumberVariants(number, prefix string) ([]string, error) {
	n := strings.TrimSpace(number)
	if n == "" {
		return nil, ErrMissingOrderNumber
	}

	candidates := []string{n}
	if prefix != "" {
		if strings.HasPrefix(n, prefix) {
			if bare := strings.TrimSpace(strings.TrimPrefix(n, prefix)); bare != "" {
				candidates = append(candidates, bare)
			}
		} else {
			candidates = append(candidates, prefix+n)
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	variants := make([]string, 0, len(candidates))
	for _, v := range candidates {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		variants = append(variants, v)
	}
	return variants, nil
}
