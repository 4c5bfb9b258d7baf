package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibestyle/shopping-assistant/internal/model"
	"github.com/vibestyle/shopping-assistant/internal/store"
)

func detailsEnvelope(t *testing.T, st *stubStore, args map[string]any) map[string]any {
	t.Helper()
	out, err := NewDetailsTool(st).Invoke(context.Background(), args)
	require.NoError(t, err)
	envelope, ok := out.(map[string]any)
	require.True(t, ok)
	return envelope
}

func TestDetailsFound(t *testing.T) {
	st := &stubStore{product: &model.Product{ID: "D001", Name: "Silk Evening Dress"}}

	envelope := detailsEnvelope(t, st, map[string]any{"id": " D001 "})

	assert.Equal(t, true, envelope["success"])
	assert.Equal(t, "Found details for Silk Evening Dress", envelope["message"])
	require.NotNil(t, envelope["apparel"])
}

func TestDetailsMissingID(t *testing.T) {
	envelope := detailsEnvelope(t, &stubStore{}, map[string]any{"id": "   "})

	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "Please provide a valid apparel ID", envelope["message"])
}

func TestDetailsNotFound(t *testing.T) {
	st := &stubStore{getErr: store.ErrNotFound}

	envelope := detailsEnvelope(t, st, map[string]any{"id": "X999"})

	assert.Equal(t, false, envelope["success"])
	assert.Equal(t, "No apparel found with ID: X999", envelope["message"])
}

func TestDetailsStoreErrorPropagates(t *testing.T) {
	st := &stubStore{getErr: errors.New("connection refused")}

	_, err := NewDetailsTool(st).Invoke(context.Background(), map[string]any{"id": "D001"})
	assert.ErrorContains(t, err, "lookup failed")
}
