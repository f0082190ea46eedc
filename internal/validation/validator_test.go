package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ObsID  string   `validate:"required,obsid"`
	Dec    *float64 `validate:"omitempty,gte=-90,lte=90"`
	SortBy string   `validate:"omitempty,oneof=name ra dec"`
	Site   string   `validate:"omitempty,max=5"`
}

func ptr(v float64) *float64 { return &v }

func TestStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.Nil(t, Struct(sample{ObsID: "L12345", Dec: ptr(45), SortBy: "ra"}))
	})

	tests := []struct {
		name    string
		in      sample
		field   string
		message string
	}{
		{name: "missing obsid", in: sample{}, field: "obsID", message: "ObsID is required"},
		{name: "bad obsid", in: sample{ObsID: "X1"}, field: "obsID", message: "ObsID must look like L12345"},
		{name: "dec too large", in: sample{ObsID: "L1", Dec: ptr(91)}, field: "dec", message: "Dec must be less than or equal to 90"},
		{name: "dec too small", in: sample{ObsID: "L1", Dec: ptr(-91)}, field: "dec", message: "Dec must be greater than or equal to -90"},
		{name: "bad sort", in: sample{ObsID: "L1", SortBy: "size"}, field: "sortBy", message: "SortBy must be one of: name, ra, dec"},
		{name: "long site", in: sample{ObsID: "L1", Site: "toolong"}, field: "site", message: "Site must be at most 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := Struct(tt.in)
			require.Len(t, details, 1)
			assert.Equal(t, tt.field, details[0].Field)
			assert.Equal(t, tt.message, details[0].Message)
		})
	}
}

func TestIsObsID(t *testing.T) {
	assert.True(t, IsObsID("L86772"))
	assert.False(t, IsObsID("L"))
	assert.False(t, IsObsID("86772"))
	assert.False(t, IsObsID("L123/abc"))
}

type tagged struct {
	SortBy string `json:"sort_by" validate:"omitempty,oneof=name ra"`
}

func TestStruct_UsesJSONNames(t *testing.T) {
	details := Struct(tagged{SortBy: "size"})
	require.Len(t, details, 1)
	assert.Equal(t, "sort_by", details[0].Field)
	assert.Equal(t, "sort_by must be one of: name, ra", details[0].Message)
}
