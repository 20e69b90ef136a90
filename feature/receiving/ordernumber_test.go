package receiving

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderNumberVariants(t *testing.T) {
	tests := []struct {
		name   string
		number string
		prefix string
		want   []string
	}{
		{"bare number gains prefixed form", "2024-0117", "PO-", []string{"2024-0117", "PO-2024-0117"}},
		{"prefixed number gains bare form", "PO-2024-0117", "PO-", []string{"PO-2024-0117", "2024-0117"}},
		{"no prefix configured", "2024-0117", "", []string{"2024-0117"}},
		{"number is only the prefix", "PO-", "PO-", []string{"PO-"}},
		{"padded input is trimmed", "  2024-0117 ", "PO-", []string{"2024-0117", "PO-2024-0117"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OrderNumberVariants(tt.number, tt.prefix)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrderNumberVariants_Missing(t *testing.T) {
	_, err := OrderNumberVariants("", "PO-")
	assert.ErrorIs(t, err, ErrMissingOrderNumber)

	_, err = OrderNumberVariants("   ", "PO-")
	assert.ErrorIs(t, err, ErrMissingOrderNumber)
}
