package idempotency

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "idem.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_GetMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_PutThenGet(t *testing.T) {
	s := newTestStore(t)
	body := json.RawMessage(`{"order_id":17}`)

	require.NoError(t, s.Put("key-1", Response{Status: http.StatusCreated, Body: body}))

	got, err := s.Get("key-1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, got.Status)
	assert.JSONEq(t, `{"order_id":17}`, string(got.Body))
	assert.False(t, got.CreatedAt.IsZero())
}

func TestStore_FirstWriteWins(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Put("key-1", Response{Status: http.StatusCreated, Body: json.RawMessage(`{"order_id":1}`)}))
	require.NoError(t, s.Put("key-1", Response{Status: http.StatusCreated, Body: json.RawMessage(`{"order_id":2}`)}))

	got, err := s.Get("key-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"order_id":1}`, string(got.Body))
}
