package synthesis_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/jwebster45206/guining-hotel/data"
	"github.com/jwebster45206/guining-hotel/pkg/catalog"
	"github.com/jwebster45206/guining-hotel/pkg/synthesis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load(data.FS)
	require.NoError(t, err)
	return c
}

func TestEvaluate_EveryCharacterBothTruths(t *testing.T) {
	cat := loadCatalog(t)

	for _, cfg := range cat.Truths {
		t.Run(cfg.Name, func(t *testing.T) {
			r1, err := synthesis.Evaluate(cat, cfg.Name, cfg.Truth1)
			require.NoError(t, err)
			assert.Equal(t, synthesis.Truth1, r1.Truth)
			assert.Equal(t, "["+cfg.Name+": Truth of Death]", r1.Title)
			assert.NotEmpty(t, r1.Story)

			r2, err := synthesis.Evaluate(cat, cfg.Name, cfg.Truth2)
			require.NoError(t, err)
			assert.Equal(t, synthesis.Truth2, r2.Truth)
			assert.Equal(t, "["+cfg.Name+": Truth of Death II]", r2.Title)

			mixed := []string{cfg.Truth1[0], cfg.Truth1[1], cfg.Truth2[0]}
			_, err = synthesis.Evaluate(cat, cfg.Name, mixed)
			assert.ErrorIs(t, err, synthesis.ErrNoMatch)
		})
	}
}

func TestEvaluate_OrderIndependent(t *testing.T) {
	cat := loadCatalog(t)
	rng := rand.New(rand.NewSource(42))

	for _, cfg := range cat.Truths {
		want, err := synthesis.Evaluate(cat, cfg.Name, cfg.Truth1)
		require.NoError(t, err)

		for i := 0; i < 6; i++ {
			shuffled := append([]string(nil), cfg.Truth1...)
			rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

			got, err := synthesis.Evaluate(cat, cfg.Name, shuffled)
			require.NoError(t, err)
			assert.Equal(t, want, got, "order %v", shuffled)
		}
	}
}

func TestEvaluate_Failures(t *testing.T) {
	cat := loadCatalog(t)

	tests := []struct {
		name      string
		character string
		slots     []string
		wantErr   error
	}{
		{"blank name", "   ", []string{"10102", "10106", "XS001"}, synthesis.ErrEmptyName},
		{"unknown character", "Nobody", []string{"10102", "10106", "XS001"}, synthesis.ErrUnknownCharacter},
		{"two slots", "Jiang Xiaoli", []string{"10102", "", "XS001"}, synthesis.ErrIncompleteSlots},
		{"no slots", "Jiang Xiaoli", nil, synthesis.ErrIncompleteSlots},
		{"wrong set", "Jiang Xiaoli", []string{"10102", "10106", "XS002"}, synthesis.ErrNoMatch},
		{"another character's truth", "Jiang Xiaoli", []string{"10201", "10203", "XS001"}, synthesis.ErrNoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := synthesis.Evaluate(cat, tt.character, tt.slots)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestEvaluate_NormalizesDialogueRefs(t *testing.T) {
	cat := loadCatalog(t)

	r, err := synthesis.Evaluate(cat, "Jiang Xiaoli", []string{"death-fire", "10106", "10102"})
	require.NoError(t, err)
	assert.Equal(t, synthesis.Truth1, r.Truth)
}

func TestEvaluate_TrimsName(t *testing.T) {
	cat := loadCatalog(t)

	r, err := synthesis.Evaluate(cat, "  Xu He ", []string{"20101", "20102", "20103"})
	require.NoError(t, err)
	assert.Equal(t, "Xu He", r.Character)
}

func TestEvaluate_FallbackStory(t *testing.T) {
	cat := catalog.New(
		[]catalog.Clue{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}, {ID: "5"}, {ID: "6"}},
		[]catalog.TruthConfig{{Name: "Ghost", Truth1: []string{"1", "2", "3"}, Truth2: []string{"4", "5", "6"}}},
		nil, nil, nil, nil, nil,
	)

	r, err := synthesis.Evaluate(cat, "Ghost", []string{"3", "2", "1"})
	require.NoError(t, err)
	assert.Equal(t, synthesis.FallbackStory, r.Story)
}

func TestEvaluate_AmbiguousPrefersTruth1(t *testing.T) {
	cat := catalog.New(nil,
		[]catalog.TruthConfig{{Name: "Twin", Truth1: []string{"1", "2", "3"}, Truth2: []string{"3", "2", "1"}}},
		nil, nil, nil, nil, nil,
	)

	r, err := synthesis.Evaluate(cat, "Twin", []string{"1", "2", "3"})
	require.NoError(t, err)
	assert.Equal(t, synthesis.Truth1, r.Truth)
}

func TestSetEqual(t *testing.T) {
	assert.True(t, synthesis.SetEqual([]string{"a", "b", "c"}, []string{"c", "a", "b"}))
	assert.True(t, synthesis.SetEqual([]string{"death-fire"}, []string{"XS001"}))
	assert.False(t, synthesis.SetEqual([]string{"a", "b", "c"}, []string{"a", "a", "b"}))
	assert.False(t, synthesis.SetEqual([]string{"a", "b"}, []string{"a", "b", "c"}))
}

func TestTruthString(t *testing.T) {
	assert.Equal(t, "truth1", synthesis.Truth1.String())
	assert.Equal(t, "truth2", synthesis.Truth2.String())
}
