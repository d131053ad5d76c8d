package classify

import (
	"errors"
	"fmt"

	"github.com/nhle/sitehub-notify/internal/model"
)

// EmojiTable maps (type, label or priority) to a display glyph.
type EmojiTable struct {
	entries  map[model.NotificationType]map[string]string
	fallback string
}

// NewEmojiTable copies and validates entries. Keys are either registered
// labels or priority names; glyphs must be non-empty; every declared type
// needs a LabelDefault entry; fallback is used when nothing else applies.
func NewEmojiTable(
	reg *Registry,
	entries map[model.NotificationType]map[string]string,
	fallback string,
) (*EmojiTable, error) {
	if fallback == "" {
		return nil, errors.New("emoji table: empty fallback glyph")
	}
	t := &EmojiTable{
		entries:  make(map[model.NotificationType]map[string]string, len(entries)),
		fallback: fallback,
	}
	for typ, row := range entries {
		if !typ.Valid() {
			return nil, fmt.Errorf("emoji table: unknown notification type %q", typ)
		}
		cp := make(map[string]string, len(row))
		for key, glyph := range row {
			if !reg.Has(Label(key)) && !model.Priority(key).Valid() {
				return nil, fmt.Errorf("emoji table %s: %w: %q is neither a label nor a priority",
					typ, ErrUnknownLabel, key)
			}
			if glyph == "" {
				return nil, fmt.Errorf("emoji table %s/%s: empty glyph", typ, key)
			}
			cp[key] = glyph
		}
		t.entries[typ] = cp
	}
	for _, typ := range model.NotificationTypes {
		if _, ok := t.entries[typ][string(LabelDefault)]; !ok {
			return nil, fmt.Errorf("emoji table %s: %w", typ, ErrMissingDefault)
		}
	}
	return t, nil
}

// Has reports whether the table holds an exact (typ, label) entry.
func (t *EmojiTable) Has(typ model.NotificationType, label Label) bool {
	_, ok := t.entries[typ][string(label)]
	return ok
}

// Fallback returns the glyph used outside every type.
func (t *EmojiTable) Fallback() string {
	return t.fallback
}

// Annotate returns the glyph for (typ, label, priority), trying the exact
// label, then the priority, then the type's default, then the fallback.
// The result is never empty.
func (t *EmojiTable) Annotate(typ model.NotificationType, label Label, p model.Priority) string {
	row := t.entries[typ]
	if g, ok := row[string(label)]; ok {
		return g
	}
	if g, ok := row[string(p)]; ok {
		return g
	}
	if g, ok := row[string(LabelDefault)]; ok {
		return g
	}
	return t.fallback
}
