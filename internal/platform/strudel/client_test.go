package strudel

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const m31JSON = `{"target":{"name":"M31"},"service":{"name":"SIMBAD","href":"http://simbad.u-strasbg.fr/"},` +
	`"coordsys":"ICRS","equinox":"J2000","ra":{"h":0,"m":42,"s":44.3,"decimal":10.68},` +
	`"dec":{"d":41,"m":16,"s":9,"decimal":41.27},"category":{"avmcode":"5.5.1","avmdesc":"Galaxy"}}`

func newTestClient(url string, retries int) *Client {
	return NewClient(Config{
		BaseURL:    url,
		UserAgent:  "obsdb-test",
		RPS:        1000,
		MaxRetries: retries,
		Backoff:    time.Millisecond,
	}, nil)
}

func TestClient_Resolve(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "Andromeda Galaxy & co", r.URL.Query().Get("name"))
		assert.Equal(t, "cb_1", r.URL.Query().Get("callback"))
		assert.Equal(t, "obsdb-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(m31JSON))
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL, 0).Resolve(context.Background(), "Andromeda Galaxy & co", "cb_1")
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "J2000", res.Equinox)
	assert.Equal(t, "M31", res.Target.Name)
	assert.InDelta(t, 10.68, res.RA.Decimal, 1e-9)
	assert.InDelta(t, 41.27, res.Dec.Decimal, 1e-9)
	assert.Equal(t, "SIMBAD", res.Service.Name)
	assert.Equal(t, "Galaxy", res.Category.AVMDesc)
}

func TestClient_ResolveJSONP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cb := r.URL.Query().Get("callback")
		_, _ = w.Write([]byte(cb + "(" + m31JSON + ");\n"))
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL, 0).Resolve(context.Background(), "M31", "getLookUPResults_abc")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "M31", res.Target.Name)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(m31JSON))
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL, 3).Resolve(context.Background(), "M31", "")
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_GivesUpAfterRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 2).Resolve(context.Background(), "M31", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 retries")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_NoRetryOnClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 3).Resolve(context.Background(), "M31", "")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, RPS: 1000, MaxRetries: 5, Backoff: time.Hour}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Resolve(ctx, "M31", "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDecode(t *testing.T) {
	t.Run("null body", func(t *testing.T) {
		res, err := Decode([]byte("null"))
		assert.NoError(t, err)
		assert.Nil(t, res)
	})

	t.Run("wrapped null", func(t *testing.T) {
		res, err := Decode([]byte("cb(null)"))
		assert.NoError(t, err)
		assert.Nil(t, res)
	})

	t.Run("garbage", func(t *testing.T) {
		res, err := Decode([]byte("<html>oops</html>"))
		assert.Nil(t, res)
		assert.True(t, errors.Is(err, ErrMalformedPayload))
	})

	t.Run("not found payload", func(t *testing.T) {
		res, err := Decode([]byte(`{"target":{"name":"X"},"equinox":"B1950"}`))
		require.NoError(t, err)
		assert.Equal(t, "X", res.Target.Name)
		assert.Nil(t, res.RA)
		assert.Nil(t, res.Dec)
	})
}
