// Package media turns stored project records into one canonical, ordered
// sequence of typed media items.
//
// Project documents exist in two shapes. Older records carry an image-only
// "detailImages" list; newer ones carry a mixed image/video "detailMedia"
// list. Normalize hides the difference at the load boundary so the rest of
// the program only ever sees []models.MediaItem.
package media

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/Chaeeun2/alolot/models"
)

const (
	FieldDetailMedia  = "detailMedia"
	FieldDetailImages = "detailImages"
)

// Normalize maps a raw project record to its media items in stored sequence.
// A present detailMedia field wins outright, even when it is empty. The
// record is never modified.
func Normalize(raw map[string]any) []models.MediaItem {
	if v, ok := raw[FieldDetailMedia]; ok && v != nil {
		return fromEntries(v, false)
	}
	if v, ok := raw[FieldDetailImages]; ok && v != nil {
		return fromEntries(v, true)
	}
	return []models.MediaItem{}
}

// Sorted is Normalize followed by SortByOrder.
func Sorted(raw map[string]any) []models.MediaItem {
	return SortByOrder(Normalize(raw))
}

// SortByOrder returns a copy of items sorted ascending by Order. Items with
// equal order keep their relative position.
func SortByOrder(items []models.MediaItem) []models.MediaItem {
	sorted := make([]models.MediaItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}

// Reindex returns a copy of items with Order set to the slice position.
func Reindex(items []models.MediaItem) []models.MediaItem {
	out := make([]models.MediaItem, len(items))
	for i, item := range items {
		item.Order = i
		out[i] = item
	}
	return out
}

// ToRecords converts items to the stored layout, assigning order = index.
func ToRecords(items []models.MediaItem) []any {
	records := make([]any, 0, len(items))
	for _, item := range Reindex(items) {
		records = append(records, item.ToRecord())
	}
	return records
}

func fromEntries(v any, legacy bool) []models.MediaItem {
	entries := asList(v)
	items := make([]models.MediaItem, 0, len(entries))
	for _, entry := range entries {
		fields, ok := asMap(entry)
		if !ok {
			continue
		}
		item := models.MediaItem{
			Type:  models.MediaTypeImage,
			URL:   stringValue(fields["url"]),
			Order: OrderValue(fields["order"]),
		}
		if !legacy {
			if t := stringValue(fields["type"]); t == string(models.MediaTypeVideo) {
				item.Type = models.MediaTypeVideo
				item.Platform = models.VideoPlatform(stringValue(fields["platform"]))
				item.OriginalURL = stringValue(fields["originalUrl"])
			}
		}
		items = append(items, item)
	}
	return items
}

func asList(v any) []any {
	switch list := v.(type) {
	case []any:
		return list
	case []map[string]any:
		out := make([]any, len(list))
		for i, m := range list {
			out[i] = m
		}
		return out
	default:
		return nil
	}
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && m != nil
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

// OrderValue reads an order field written by any client. Missing or
// non-numeric values count as 0.
func OrderValue(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case uint:
		return int(n)
	case uint32:
		return int(n)
	case uint64:
		return int(n)
	case float32:
		return floatOrder(float64(n))
	case float64:
		return floatOrder(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
		if f, err := n.Float64(); err == nil {
			return floatOrder(f)
		}
	}
	return 0
}

func floatOrder(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}
