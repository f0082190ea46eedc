package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"obsdb/internal/platform/strudel"
)

func TestRespond(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		view := Recorder{Results: "Searching..."}
		res := &Result{
			Equinox: "J2000",
			Target:  strudel.Target{Name: "M31"},
			RA:      &strudel.RA{Decimal: 10.68},
			Dec:     &strudel.Dec{Decimal: 41.27},
		}

		status := Respond(&view, res)

		assert.Equal(t, StatusFound, status)
		require.NotNil(t, view.RA)
		require.NotNil(t, view.Dec)
		assert.Equal(t, 10.68, *view.RA)
		assert.Equal(t, 41.27, *view.Dec)
		assert.True(t, view.DialogHidden)
		assert.Equal(t, "Found M31.", view.Results)
		assert.Empty(t, view.AlertMessage)
	})

	t.Run("wrong equinox", func(t *testing.T) {
		view := Recorder{Results: "Searching..."}
		res := &Result{
			Equinox: "B1950",
			Target:  strudel.Target{Name: "X"},
			RA:      &strudel.RA{Decimal: 1},
			Dec:     &strudel.Dec{Decimal: 2},
		}

		status := Respond(&view, res)

		assert.Equal(t, StatusNotFound, status)
		assert.Equal(t, "X not found.", view.Results)
		assert.Nil(t, view.RA)
		assert.Nil(t, view.Dec)
		assert.False(t, view.DialogHidden)
		assert.Empty(t, view.AlertMessage)
	})

	t.Run("no coordinates", func(t *testing.T) {
		view := Recorder{}
		res := &Result{Equinox: "J2000", Target: strudel.Target{Name: "Nowhere"}}

		assert.Equal(t, StatusNotFound, Respond(&view, res))
		assert.Equal(t, "Nowhere not found.", view.Results)
	})

	t.Run("only ra", func(t *testing.T) {
		view := Recorder{}
		res := &Result{Equinox: "J2000", Target: strudel.Target{Name: "Half"}, RA: &strudel.RA{Decimal: 3}}

		assert.Equal(t, StatusNotFound, Respond(&view, res))
		assert.Nil(t, view.RA)
	})

	t.Run("nil result", func(t *testing.T) {
		view := Recorder{Results: "Searching..."}

		status := Respond(&view, nil)

		assert.Equal(t, StatusError, status)
		assert.Equal(t, "There was a problem parsing search results", view.AlertMessage)
		assert.Equal(t, "Searching...", view.Results)
		assert.Nil(t, view.RA)
		assert.False(t, view.DialogHidden)
	})
}
