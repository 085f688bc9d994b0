package storefront

import (
	"strings"

	"github.com/google/uuid"

	"github.com/solenne-shop/solenne-backend/pkg/db/models"
)

// optionView is one attribute binding on a variant. A variant may carry
// several bindings for the same key; every one of them participates in
// matching.
type optionView struct {
	key     string
	value   string
	valueID *uuid.UUID
}

// Selection maps attribute key to the shopper's chosen value. Values compare
// case-insensitively; an entry may instead reference an attribute value ID in
// ValueIDs, which wins when the stored option carries one too.
type Selection struct {
	Values   map[string]string
	ValueIDs map[string]uuid.UUID
}

func (s Selection) keys() []string {
	seen := map[string]struct{}{}
	var keys []string
	add := func(key string) {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			return
		}
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	for key := range s.Values {
		add(key)
	}
	for key := range s.ValueIDs {
		add(key)
	}
	return keys
}

func variantOptions(v models.ProductVariant) []optionView {
	var views []optionView
	for key, raw := range v.Attributes {
		if value, ok := raw.(string); ok && strings.TrimSpace(value) != "" {
			views = append(views, optionView{
				key:   strings.ToLower(strings.TrimSpace(key)),
				value: value,
			})
		}
	}
	for _, opt := range v.Options {
		view := optionView{valueID: opt.AttributeValueID}
		if opt.AttributeKey != nil {
			view.key = strings.ToLower(strings.TrimSpace(*opt.AttributeKey))
		}
		if opt.Value != nil {
			view.value = *opt.Value
		}
		if opt.AttributeValue != nil {
			if view.key == "" && opt.AttributeValue.Attribute != nil {
				view.key = strings.ToLower(opt.AttributeValue.Attribute.Key)
			}
			if view.value == "" {
				view.value = opt.AttributeValue.Value
			}
		}
		if view.key == "" {
			continue
		}
		views = append(views, view)
	}
	return views
}

// optionMatches compares one stored binding to the selection entry for its
// key. When both sides carry a value ID the IDs decide; otherwise the value
// strings compare case-insensitively.
func optionMatches(view optionView, selection Selection) bool {
	if view.valueID != nil {
		if wantID, ok := selection.ValueIDs[view.key]; ok {
			return *view.valueID == wantID
		}
	}
	want, ok := selection.Values[view.key]
	if !ok {
		for key, value := range selection.Values {
			if strings.EqualFold(key, view.key) {
				want, ok = value, true
				break
			}
		}
	}
	if !ok {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(view.value), strings.TrimSpace(want))
}

// hasKey reports whether the variant carries any binding for the key.
func hasKey(views []optionView, key string) bool {
	for _, view := range views {
		if view.key == key {
			return true
		}
	}
	return false
}

// keySatisfied reports whether at least one of the variant's bindings for the
// key matches the selection. Scanning every binding matters: a variant may
// legitimately carry two values for one key.
func keySatisfied(views []optionView, key string, selection Selection) bool {
	for _, view := range views {
		if view.key != key {
			continue
		}
		if optionMatches(view, selection) {
			return true
		}
	}
	return false
}

// matchesAll requires every selected key to be present and satisfied.
func matchesAll(views []optionView, keys []string, selection Selection) bool {
	for _, key := range keys {
		if !keySatisfied(views, key, selection) {
			return false
		}
	}
	return true
}

// compatible tolerates missing keys but rejects contradictions: a variant
// that carries the key must satisfy it.
func compatible(views []optionView, keys []string, selection Selection) bool {
	for _, key := range keys {
		if !hasKey(views, key) {
			continue
		}
		if !keySatisfied(views, key, selection) {
			return false
		}
	}
	return true
}

// MatchVariant picks the variant to display for the shopper's selection:
// a full match owning an image, then any full or compatible match, then a
// color/size-only match, then the first in-stock variant, then the first.
func MatchVariant(variants []models.ProductVariant, selection Selection) *models.ProductVariant {
	if len(variants) == 0 {
		return nil
	}
	keys := selection.keys()
	views := make([][]optionView, len(variants))
	for i, v := range variants {
		views[i] = variantOptions(v)
	}

	if len(keys) > 0 {
		for i := range variants {
			if matchesAll(views[i], keys, selection) && strings.TrimSpace(variants[i].ImageURL) != "" {
				return &variants[i]
			}
		}
		for i := range variants {
			if matchesAll(views[i], keys, selection) {
				return &variants[i]
			}
		}
		for i := range variants {
			if compatible(views[i], keys, selection) {
				return &variants[i]
			}
		}

		colorSize := narrowToColorSize(selection, keys)
		if narrowed := colorSize.keys(); len(narrowed) > 0 {
			for i := range variants {
				if matchesAll(views[i], narrowed, colorSize) {
					return &variants[i]
				}
			}
		}
	}

	for i := range variants {
		if variants[i].Stock > 0 {
			return &variants[i]
		}
	}
	return &variants[0]
}

func narrowToColorSize(selection Selection, keys []string) Selection {
	narrowed := Selection{Values: map[string]string{}, ValueIDs: map[string]uuid.UUID{}}
	for _, key := range keys {
		if key != "color" && key != "colour" && key != "size" {
			continue
		}
		if value, ok := selection.Values[key]; ok {
			narrowed.Values[key] = value
		}
		if id, ok := selection.ValueIDs[key]; ok {
			narrowed.ValueIDs[key] = id
		}
	}
	return narrowed
}

// StockFor sums the stock available for one candidate value of an attribute,
// counting every variant that carries the candidate and does not contradict
// the rest of the shopper's selection.
func StockFor(variants []models.ProductVariant, attrKey, value string, selection Selection) int {
	attrKey = strings.ToLower(strings.TrimSpace(attrKey))
	rest := Selection{Values: map[string]string{}, ValueIDs: map[string]uuid.UUID{}}
	for key, v := range selection.Values {
		if !strings.EqualFold(key, attrKey) {
			rest.Values[strings.ToLower(key)] = v
		}
	}
	for key, id := range selection.ValueIDs {
		if !strings.EqualFold(key, attrKey) {
			rest.ValueIDs[strings.ToLower(key)] = id
		}
	}
	restKeys := rest.keys()

	candidate := Selection{Values: map[string]string{attrKey: value}}

	total := 0
	for _, variant := range variants {
		views := variantOptions(variant)
		if !keySatisfied(views, attrKey, candidate) {
			continue
		}
		if !compatible(views, restKeys, rest) {
			continue
		}
		total += variant.Stock
	}
	return total
}
