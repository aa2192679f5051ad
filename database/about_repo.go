package database

import (
	"context"
	"time"

	"github.com/Chaeeun2/alolot/errs"
	"github.com/Chaeeun2/alolot/models"
)

const aboutDocID = "about-info"

type AboutRepo struct {
	store DocumentStore
	now   func() time.Time
}

func NewAboutRepo(store DocumentStore) *AboutRepo {
	return &AboutRepo{store: store, now: time.Now}
}

// Get returns the stored about copy, or the default copy when none has been
// saved yet.
func (r *AboutRepo) Get(ctx context.Context) (models.About, error) {
	doc, err := r.store.Get(ctx, collectionAbout, aboutDocID)
	if err != nil {
		if errs.IsNotFound(err) {
			return models.DefaultAbout(), nil
		}
		return models.About{}, err
	}

	d := doc.Data
	return models.About{
		StoryText:       stringField(d, "storyText"),
		Email:           stringField(d, "email"),
		Instagram:       stringField(d, "instagram"),
		AnotherProjects: stringsField(d, "anotherProjects"),
		Partners:        stringField(d, "partners"),
		UpdatedAt:       timeField(d, "updatedAt"),
	}, nil
}

func (r *AboutRepo) Save(ctx context.Context, about models.About) (models.About, error) {
	about.UpdatedAt = r.now()
	if about.AnotherProjects == nil {
		about.AnotherProjects = []string{}
	}

	err := r.store.Set(ctx, collectionAbout, aboutDocID, map[string]any{
		"storyText":       about.StoryText,
		"email":           about.Email,
		"instagram":       about.Instagram,
		"anotherProjects": stringsRecord(about.AnotherProjects),
		"partners":        about.Partners,
		"updatedAt":       about.UpdatedAt,
	})
	if err != nil {
		return models.About{}, errs.NewPersistFailed("save", "about", err)
	}
	return about, nil
}
