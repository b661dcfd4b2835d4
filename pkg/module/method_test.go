package module

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want Method
	}{
		{"locality", Locality},
		{"Locality", Locality},
		{" SINGLE ", Single},
	}
	for _, tt := range tests {
		got, err := ParseMethod(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.want, mustParse(t, got.String()))
	}

	_, err := ParseMethod("star")
	assert.ErrorContains(t, err, `"star"`)
	_, err = ParseMethod("")
	assert.Error(t, err)
}

func mustParse(t *testing.T, s string) Method {
	t.Helper()
	m, err := ParseMethod(s)
	require.NoError(t, err)
	return m
}
