package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chaeeun2/alolot/models"
)

type stubCategories struct {
	categories []models.Category
	err        error
}

func (s *stubCategories) FindAll(context.Context) ([]models.Category, error) {
	return s.categories, s.err
}

func TestPalette_Background(t *testing.T) {
	p := Palette{Categories: []models.Category{
		{Name: "Branding", Color: "#ffeeaa"},
		{Name: "Editorial"},
		{Name: "Space", Color: "#aabbcc"},
	}}
	last := func(n int) int { return n - 1 }

	assert.Equal(t, "#ffeeaa", p.Background("Branding", last))
	assert.Equal(t, DefaultBackground, p.Background("Editorial", last))
	assert.Equal(t, DefaultBackground, p.Background("Unknown", last))
	assert.Equal(t, "#aabbcc", p.Background("ALL", last))
	assert.Equal(t, "#aabbcc", p.Background("", last))
	assert.Equal(t, "#ffeeaa", p.Background("ALL", func(int) int { return 0 }))
}

func TestPalette_AllWithoutColors(t *testing.T) {
	p := Palette{Categories: []models.Category{{Name: "Editorial"}}}

	assert.Equal(t, DefaultBackground, p.Background("ALL", func(int) int {
		t.Fatal("pick called without colours")
		return 0
	}))
	assert.Equal(t, DefaultBackground, Palette{}.Background("ALL", nil))
}

func TestPaletteProvider_Refresh(t *testing.T) {
	src := &stubCategories{categories: []models.Category{{Name: "Branding", Color: "#123456"}}}
	p := NewPaletteProvider(src)

	assert.Equal(t, DefaultBackground, p.Background("Branding"))

	require.NoError(t, p.Refresh(context.Background()))
	assert.Equal(t, "#123456", p.Background("Branding"))
	assert.Equal(t, "#123456", p.Background("ALL"))

	src.err = errors.New("unavailable")
	src.categories = nil
	require.Error(t, p.Refresh(context.Background()))
	assert.Equal(t, "#123456", p.Background("Branding"))
	assert.Len(t, p.Snapshot().Categories, 1)
}
