package server_test

import (
	"testing"

	"materials-manager/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_NormalizedPrefix(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		want   string
	}{
		{"Plain", "PO-", "PO-"},
		{"Padded", "  PO- ", "PO-"},
		{"Empty", "", ""},
		{"OnlySpaces", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{OrderNumberPrefix: tt.prefix}
			assert.Equal(t, tt.want, c.NormalizedPrefix())
		})
	}
}
