package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibestyle/shopping-assistant/internal/model"
)

func sampleProducts() []model.Product {
	return []model.Product{
		{
			ID:           "A1",
			Name:         "Relaxed Cotton Tee",
			Category:     "top",
			Fabric:       "cotton",
			Fit:          "relaxed",
			ColorOrPrint: "white",
			Style:        []string{"relaxed", "everyday"},
			Occasion:     []string{"everyday", "weekend"},
		},
		{
			ID:           "B2",
			Name:         "Silk Evening Dress",
			Category:     "dress",
			Fabric:       "silk",
			Fit:          "tailored",
			ColorOrPrint: "black",
			Style:        []string{"elegant"},
			Occasion:     []string{"formal event"},
		},
		{
			ID:           "C3",
			Name:         "Linen Beach Pants",
			Category:     "pants",
			Fabric:       "linen blend",
			Fit:          "flowy",
			ColorOrPrint: "beige",
			Style:        []string{"bohemian"},
			Occasion:     []string{"beach", "festival"},
		},
	}
}

func TestFilterExcludesZeroScores(t *testing.T) {
	query := model.AttributeQuery{"fabric": {"silk"}}

	got := Filter(sampleProducts(), query, 0)

	require.Len(t, got, 1)
	assert.Equal(t, "B2", got[0].Product.ID)
	assert.Equal(t, 1.0, got[0].MatchScore)
}

func TestFilterScoreIsFractionOfCorrespondingFields(t *testing.T) {
	// A1 has both queried fields; fabric matches, fit does not.
	query := model.AttributeQuery{
		"fabric": {"cotton"},
		"fit":    {"tailored"},
	}

	got := Filter(sampleProducts(), query, 0)

	require.Len(t, got, 2)
	// B2 satisfies fit only, A1 satisfies fabric only; both score 1/2 and
	// keep catalog order.
	assert.Equal(t, "A1", got[0].Product.ID)
	assert.Equal(t, 0.5, got[0].MatchScore)
	assert.Equal(t, "B2", got[1].Product.ID)
	assert.Equal(t, 0.5, got[1].MatchScore)
}

func TestFilterSortsDescendingPreservingTies(t *testing.T) {
	query := model.AttributeQuery{
		"fabric":   {"linen"},
		"occasion": {"beach", "weekend"},
	}

	got := Filter(sampleProducts(), query, 0)

	require.Len(t, got, 2)
	// C3 satisfies both queried fields, A1 only occasion.
	assert.Equal(t, "C3", got[0].Product.ID)
	assert.Equal(t, 1.0, got[0].MatchScore)
	assert.Equal(t, "A1", got[1].Product.ID)
	assert.Equal(t, 0.5, got[1].MatchScore)
}

func TestFilterScalarSubstringVsSetEquality(t *testing.T) {
	// Scalar fields match by substring: "linen" hits "linen blend".
	got := Filter(sampleProducts(), model.AttributeQuery{"fabric": {"linen"}}, 0)
	require.Len(t, got, 1)
	assert.Equal(t, "C3", got[0].Product.ID)

	// Value-set fields need exact (case-insensitive) membership.
	got = Filter(sampleProducts(), model.AttributeQuery{"occasion": {"beach party"}}, 0)
	assert.Empty(t, got)

	got = Filter(sampleProducts(), model.AttributeQuery{"occasion": {"BEACH"}}, 0)
	require.Len(t, got, 1)
	assert.Equal(t, "C3", got[0].Product.ID)
}

func TestFilterLimit(t *testing.T) {
	query := model.AttributeQuery{"occasion": {"everyday", "formal event", "beach"}}

	got := Filter(sampleProducts(), query, 2)
	assert.Len(t, got, 2)
}

func TestFilterUnknownAttributeIgnored(t *testing.T) {
	query := model.AttributeQuery{
		"sleeve_length": {"long"},
		"fabric":        {"cotton"},
	}

	got := Filter(sampleProducts(), query, 0)

	require.Len(t, got, 1)
	assert.Equal(t, "A1", got[0].Product.ID)
	assert.Equal(t, 1.0, got[0].MatchScore)
}

type stubLister struct {
	products []model.Product
	err      error
}

func (s *stubLister) List(ctx context.Context) ([]model.Product, error) {
	return s.products, s.err
}

func TestRecommend(t *testing.T) {
	c := New(&stubLister{products: sampleProducts()})

	got, err := c.Recommend(context.Background(), model.AttributeQuery{"fabric": {"silk"}}, 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "B2", got[0].Product.ID)
}

func TestRecommendPropagatesListError(t *testing.T) {
	c := New(&stubLister{err: errors.New("connection refused")})

	_, err := c.Recommend(context.Background(), model.AttributeQuery{"fabric": {"silk"}}, 3)
	assert.Error(t, err)
}
