package observation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"obsdb/internal/status"
)

func TestBeamFlags(t *testing.T) {
	tests := []struct {
		name   string
		counts SubbandCounts
		want   status.Flags
	}{
		{"no subbands", SubbandCounts{}, status.Flags{Archived: status.False, OnCEP: status.False}},
		{"all archived", SubbandCounts{Total: 10, Archived: 10}, status.Flags{Archived: status.True, OnCEP: status.False}},
		{"some on cep", SubbandCounts{Total: 10, OnCEP: 3}, status.Flags{Archived: status.False, OnCEP: status.Partial}},
		{"both", SubbandCounts{Total: 4, Archived: 2, OnCEP: 4}, status.Flags{Archived: status.Partial, OnCEP: status.True}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BeamFlags(tt.counts))
		})
	}
}

func TestObservationFlags(t *testing.T) {
	tf := status.Flags{Archived: status.True, OnCEP: status.False}
	pp := status.Flags{Archived: status.Partial, OnCEP: status.Partial}
	ff := status.Flags{Archived: status.False, OnCEP: status.False}

	assert.Equal(t, status.Flags{Archived: status.True, OnCEP: status.False}, ObservationFlags([]status.Flags{tf, tf}))
	assert.Equal(t, status.Flags{Archived: status.Partial, OnCEP: status.Partial}, ObservationFlags([]status.Flags{tf, pp}))
	assert.Equal(t, status.Flags{Archived: status.Partial, OnCEP: status.False}, ObservationFlags([]status.Flags{tf, ff}))
	assert.Equal(t, status.Flags{Archived: status.False, OnCEP: status.False}, ObservationFlags(nil))
}

func TestFieldFlags(t *testing.T) {
	tf := status.Flags{Archived: status.True, OnCEP: status.False}
	ff := status.Flags{Archived: status.False, OnCEP: status.False}

	got := FieldFlags([]status.Flags{tf, tf, ff}, 2)
	assert.Equal(t, status.True, got.Archived)
	assert.Equal(t, status.False, got.OnCEP)
	assert.True(t, got.Done())

	got = FieldFlags([]status.Flags{tf, ff}, 9)
	assert.Equal(t, status.Partial, got.Archived)
	assert.False(t, got.Done())

	got = FieldFlags(nil, 9)
	assert.Equal(t, status.Flags{Archived: status.False, OnCEP: status.False}, got)
}
