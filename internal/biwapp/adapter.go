package biwapp

import (
	"github.com/saicode/bombalarm/internal/alert"
)

// SirenCategory is the feed's category constant for civil-defense
// siren/alert messages. Records in any other category are dropped before
// normalization.
const SirenCategory = 16

// categoryKeys are the field names that may carry the category marker.
var categoryKeys = []string{"category", "type", "categoryId", "category_id"}

// fieldRule selects the value for one canonical field from a prioritized
// list of candidate record keys. New feed variants are supported by
// extending a rule's key list, not by new control flow.
type fieldRule struct {
	keys   []string
	assign func(*alert.Alert, string)
}

var fieldRules = []fieldRule{
	{
		keys:   []string{"id", "newsId", "message_id"},
		assign: func(a *alert.Alert, v string) { a.ID = v },
	},
	{
		keys:   []string{"title", "headline", "subject"},
		assign: func(a *alert.Alert, v string) { a.Title = v },
	},
	{
		keys:   []string{"details", "message", "content", "text", "description"},
		assign: func(a *alert.Alert, v string) { a.Details = v },
	},
	{
		keys:   []string{"valid_from", "validFrom", "startDate", "start_date"},
		assign: func(a *alert.Alert, v string) { a.ValidFrom = v },
	},
	{
		keys:   []string{"valid_until", "validUntil", "endDate", "end_date"},
		assign: func(a *alert.Alert, v string) { a.ValidUntil = v },
	},
	{
		keys:   []string{"area", "polygon", "geolocation"},
		assign: func(a *alert.Alert, v string) { a.Area = v },
	},
	{
		keys:   []string{"sender", "author", "source"},
		assign: func(a *alert.Alert, v string) { a.Sender = v },
	},
}

// IsSirenCategory reports whether the record carries the civil-defense
// category marker. The marker may appear under several field names and as
// either a number or the string "16"; the record qualifies when any of
// those fields matches, so a mismatched value in one field never hides a
// match in another.
func IsSirenCategory(rec Record) bool {
	for _, key := range categoryKeys {
		v, ok := rec[key]
		if !ok {
			continue
		}
		if s, isStr := v.(string); isStr && s == "16" {
			return true
		}
		if n, isNum := numericValue(v); isNum && n == SirenCategory {
			return true
		}
	}
	return false
}

// Normalize converts a raw record into a canonical alert.
//
// Records outside the siren category are dropped (nil, false). For each
// canonical field the first candidate key present in the record wins;
// fields with no usable value carry the "N/A" sentinel, so every field of
// the returned alert is always populated.
func Normalize(rec Record) (*alert.Alert, bool) {
	if !IsSirenCategory(rec) {
		return nil, false
	}

	a := &alert.Alert{
		ID:         alert.NotAvailable,
		Title:      alert.NotAvailable,
		Details:    alert.NotAvailable,
		ValidFrom:  alert.NotAvailable,
		ValidUntil: alert.NotAvailable,
		Area:       alert.NotAvailable,
		Sender:     alert.NotAvailable,
	}

	for _, rule := range fieldRules {
		for _, key := range rule.keys {
			v, ok := rec[key]
			if !ok {
				continue
			}
			if s, usable := stringifyValue(v); usable {
				rule.assign(a, s)
			}
			break
		}
	}

	return a, true
}
