package services

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Chaeeun2/alolot/models"
)

// DefaultBackground is used when no category colour applies.
const DefaultBackground = "#ffffff"

// AllCategories selects a random category colour.
const AllCategories = "ALL"

// Palette is a read-only snapshot of the category colours.
type Palette struct {
	Categories []models.Category `json:"categories"`
}

// Background returns the colour for the named category. AllCategories, or an
// empty name, picks a random coloured category using pick, which must return
// a value in [0, n).
func (p Palette) Background(name string, pick func(n int) int) string {
	if name == "" || strings.EqualFold(name, AllCategories) {
		var colors []string
		for _, c := range p.Categories {
			if c.Color != "" {
				colors = append(colors, c.Color)
			}
		}
		if len(colors) == 0 {
			return DefaultBackground
		}
		return colors[pick(len(colors))]
	}

	for _, c := range p.Categories {
		if c.Name == name && c.Color != "" {
			return c.Color
		}
	}
	return DefaultBackground
}

// CategoryLister is the category source of the palette.
type CategoryLister interface {
	FindAll(ctx context.Context) ([]models.Category, error)
}

// PaletteProvider holds the current Palette. It is loaded once at startup and
// refreshed after every category change; readers never block.
type PaletteProvider struct {
	source  CategoryLister
	current atomic.Pointer[Palette]
	pick    func(n int) int
	logger  zerolog.Logger
}

func NewPaletteProvider(source CategoryLister) *PaletteProvider {
	p := &PaletteProvider{
		source: source,
		pick:   rand.IntN,
		logger: log.With().Str("service", "palette").Logger(),
	}
	p.current.Store(&Palette{})
	return p
}

// Refresh reloads the categories. On error the previous snapshot stays.
func (p *PaletteProvider) Refresh(ctx context.Context) error {
	categories, err := p.source.FindAll(ctx)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to refresh category palette")
		return err
	}
	p.current.Store(&Palette{Categories: categories})
	p.logger.Debug().Int("categories", len(categories)).Msg("category palette refreshed")
	return nil
}

// Snapshot returns the current palette.
func (p *PaletteProvider) Snapshot() Palette {
	return *p.current.Load()
}

func (p *PaletteProvider) Background(name string) string {
	return p.Snapshot().Background(name, p.pick)
}
