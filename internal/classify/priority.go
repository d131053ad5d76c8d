package classify

import (
	"fmt"

	"github.com/nhle/sitehub-notify/internal/model"
)

// PriorityTable maps (type, label) to a priority. Every declared
// notification type carries a LabelDefault entry.
type PriorityTable struct {
	entries map[model.NotificationType]map[Label]model.Priority
}

// NewPriorityTable copies and validates entries: types and priorities must
// be declared, labels registered, and each declared type needs a default.
func NewPriorityTable(
	reg *Registry,
	entries map[model.NotificationType]map[Label]model.Priority,
) (*PriorityTable, error) {
	t := &PriorityTable{entries: make(map[model.NotificationType]map[Label]model.Priority, len(entries))}
	for typ, row := range entries {
		if !typ.Valid() {
			return nil, fmt.Errorf("priority table: unknown notification type %q", typ)
		}
		cp := make(map[Label]model.Priority, len(row))
		for label, p := range row {
			if err := reg.require(label); err != nil {
				return nil, fmt.Errorf("priority table %s: %w", typ, err)
			}
			if !p.Valid() {
				return nil, fmt.Errorf("priority table %s/%s: unknown priority %q", typ, label, p)
			}
			cp[label] = p
		}
		t.entries[typ] = cp
	}
	for _, typ := range model.NotificationTypes {
		if _, ok := t.entries[typ][LabelDefault]; !ok {
			return nil, fmt.Errorf("priority table %s: %w", typ, ErrMissingDefault)
		}
	}
	return t, nil
}

// Has reports whether the table holds an exact (typ, label) entry.
func (t *PriorityTable) Has(typ model.NotificationType, label Label) bool {
	_, ok := t.entries[typ][label]
	return ok
}

// Resolve returns the priority for (typ, label). LabelUrgent always yields
// PriorityUrgent. Otherwise the exact entry is used, then the type's
// default, then PriorityNormal.
func (t *PriorityTable) Resolve(typ model.NotificationType, label Label) model.Priority {
	if label == LabelUrgent {
		return model.PriorityUrgent
	}
	row := t.entries[typ]
	if p, ok := row[label]; ok {
		return p
	}
	if p, ok := row[LabelDefault]; ok {
		return p
	}
	return model.PriorityNormal
}
