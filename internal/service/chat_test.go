package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibestyle/shopping-assistant/internal/catalog"
	"github.com/vibestyle/shopping-assistant/internal/model"
	"github.com/vibestyle/shopping-assistant/pkg/logger"
)

type stubLister struct {
	products []model.Product
}

func (s *stubLister) List(ctx context.Context) ([]model.Product, error) {
	return s.products, nil
}

func newTestService(products []model.Product) *ChatService {
	var cat *catalog.Catalog
	if products != nil {
		cat = catalog.New(&stubLister{products: products})
	}
	return NewChatService(nil, cat, logger.NewNop())
}

func TestBuildTurnsPrefixesSystemInstruction(t *testing.T) {
	svc := newTestService(nil)

	turns := svc.buildTurns(context.Background(), []model.ChatMessage{
		{Role: "user", Content: "hello"},
	})

	require.Len(t, turns, 2)
	assert.Equal(t, model.RoleSystem, turns[0].Role)
	assert.Contains(t, turns[0].Content, "fashion-savvy shopping assistant")
	assert.Equal(t, model.RoleUser, turns[1].Role)
	assert.Equal(t, "hello", turns[1].Content)
}

func TestBuildTurnsSkipsUnknownRoles(t *testing.T) {
	svc := newTestService(nil)

	turns := svc.buildTurns(context.Background(), []model.ChatMessage{
		{Role: "user", Content: "hello"},
		{Role: "narrator", Content: "meanwhile"},
		{Role: "Assistant", Content: "hi there"},
		{Role: "model", Content: "also assistant"},
	})

	require.Len(t, turns, 4)
	assert.Equal(t, model.RoleUser, turns[1].Role)
	assert.Equal(t, model.RoleAssistant, turns[2].Role)
	assert.Equal(t, model.RoleAssistant, turns[3].Role)
}

func TestInstructionWithoutVibeTerms(t *testing.T) {
	svc := newTestService(nil)

	got := svc.instruction(context.Background(), []model.ChatMessage{
		{Role: "user", Content: "red shirt size M"},
	})

	assert.Equal(t, systemInstruction, got)
}

func TestInstructionInjectsVibeContext(t *testing.T) {
	svc := newTestService(nil)

	got := svc.instruction(context.Background(), []model.ChatMessage{
		{Role: "user", Content: "something cute for brunch"},
	})

	assert.Contains(t, got, "Detected vibe terms: cute")
	assert.Contains(t, got, "Preferred pattern: floral, heart, polka dot")
}

func TestInstructionSeedsCatalogPicks(t *testing.T) {
	svc := newTestService([]model.Product{
		{ID: "D001", Name: "Floral Sundress", Category: "dress", Price: 49.99, Pattern: "floral"},
		{ID: "P002", Name: "Plain Black Pants", Category: "pants", Pattern: "solid"},
	})

	got := svc.instruction(context.Background(), []model.ChatMessage{
		{Role: "user", Content: "a cute outfit"},
	})

	assert.Contains(t, got, "Catalog items matching this vibe:")
	assert.Contains(t, got, "D001: Floral Sundress (dress, $49.99)")
	assert.NotContains(t, got, "P002")
}

func TestInstructionUsesLatestUserMessage(t *testing.T) {
	svc := newTestService(nil)

	got := svc.instruction(context.Background(), []model.ChatMessage{
		{Role: "user", Content: "something edgy"},
		{Role: "assistant", Content: "sure, what size?"},
		{Role: "user", Content: "actually something boho"},
	})

	assert.Contains(t, got, "Detected vibe terms: boho")
	assert.NotContains(t, got, "edgy")
}
