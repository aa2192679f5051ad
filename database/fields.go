package database

import (
	"cmp"
	"time"

	"github.com/Chaeeun2/alolot/media"
	"github.com/Chaeeun2/alolot/models"
)

func stringField(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}

func intField(data map[string]any, key string) int {
	return media.OrderValue(data[key])
}

// timeField accepts the time values written by the Go client as well as
// RFC 3339 strings left behind by scripts.
func timeField(data map[string]any, key string) time.Time {
	switch t := data[key].(type) {
	case time.Time:
		return t
	case *time.Time:
		if t != nil {
			return *t
		}
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func stringsField(data map[string]any, key string) []string {
	out := []string{}
	switch list := data[key].(type) {
	case []string:
		out = append(out, list...)
	case []any:
		for _, v := range list {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

func categoryRefsField(data map[string]any, key string) []models.CategoryRef {
	out := []models.CategoryRef{}
	list, _ := data[key].([]any)
	for _, v := range list {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, models.CategoryRef{
			ID:    stringField(m, "id"),
			Name:  stringField(m, "name"),
			Color: stringField(m, "color"),
		})
	}
	return out
}

func categoryRefsRecord(refs []models.CategoryRef) []any {
	out := make([]any, 0, len(refs))
	for _, r := range refs {
		out = append(out, map[string]any{"id": r.ID, "name": r.Name, "color": r.Color})
	}
	return out
}

func stringsRecord(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

// byOrderThenNewest sorts ascending by order, newest first among ties.
func byOrderThenNewest(aOrder, bOrder int, aCreated, bCreated time.Time) int {
	if c := cmp.Compare(aOrder, bOrder); c != 0 {
		return c
	}
	return bCreated.Compare(aCreated)
}
