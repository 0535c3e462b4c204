package render

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRender(t *testing.T) {
	ctx := context.Background()
	fields := map[string]string{"DOP_NUMERO": "15508", "DOP_NOME": "FULANO"}

	t.Run("success returns body bytes", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "secret-key", r.Header.Get("X-API-KEY"))

			var req renderRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "tpl-1", req.TemplateID)
			assert.Equal(t, fields, req.Fields)

			w.Header().Set("Content-Type", "application/pdf")
			w.Write([]byte("%PDF-1.4 fake"))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 5*time.Second)
		data, err := c.Render(ctx, "tpl-1", "secret-key", fields)

		assert.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.4 fake"), data)
	})

	t.Run("service error payload is surfaced as text", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"template not found"}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 5*time.Second)
		data, err := c.Render(ctx, "tpl-1", "secret-key", fields)

		assert.Nil(t, data)
		assert.ErrorContains(t, err, "returned 400")
		assert.ErrorContains(t, err, "template not found")
	})

	t.Run("binary error payload is decoded to valid text", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte{0xff, 0xfe, 'b', 'a', 'd'})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 5*time.Second)
		_, err := c.Render(ctx, "tpl-1", "secret-key", fields)

		require.Error(t, err)
		assert.ErrorContains(t, err, "returned 500")
		assert.ErrorContains(t, err, "bad")
	})

	t.Run("empty success body is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 5*time.Second)
		data, err := c.Render(ctx, "tpl-1", "secret-key", fields)

		assert.Nil(t, data)
		assert.ErrorContains(t, err, "empty document")
	})

	t.Run("transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // closed before the call: connection refused

		c := NewClient(srv.URL, time.Second)
		_, err := c.Render(ctx, "tpl-1", "secret-key", fields)

		assert.ErrorContains(t, err, "unreachable")
	})
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, "(no error payload)", errorText(nil))
	assert.Equal(t, "plain failure", errorText([]byte("  plain failure\n")))

	long := make([]byte, 2048)
	for i := range long {
		long[i] = 'x'
	}
	assert.Len(t, errorText(long), 512+3)
}
