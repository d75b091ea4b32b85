package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalCategory(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
		ok    bool
	}{
		{name: "canonical spelling", value: "Furniture", want: "Furniture", ok: true},
		{name: "lowercase", value: "furniture", want: "Furniture", ok: true},
		{name: "mixed case with spaces", value: " office SUPPLIES ", want: "Office Supplies", ok: true},
		{name: "empty resolves to All", value: "", want: CategoryAll, ok: true},
		{name: "lowercase all", value: "all", want: CategoryAll, ok: true},
		{name: "unknown", value: "Electronics", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CanonicalCategory(tt.value)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestCanonicalSegment(t *testing.T) {
	got, ok := CanonicalSegment("home office")
	assert.True(t, ok)
	assert.Equal(t, "Home Office", got)

	got, ok = CanonicalSegment("")
	assert.True(t, ok)
	assert.Equal(t, SegmentAll, got)

	_, ok = CanonicalSegment("Wholesale")
	assert.False(t, ok)
}
