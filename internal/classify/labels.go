package classify

import (
	"errors"
	"fmt"
	"strings"
)

// Label names the situational nuance detected in a notification message
// (e.g. "completed", "overdue").
type Label string

const (
	// LabelDefault is the universal fallback for every notification type.
	LabelDefault Label = "default"

	// LabelUrgent forces the urgent priority regardless of table contents.
	LabelUrgent Label = "urgent"
)

var (
	ErrUnknownLabel   = errors.New("unknown context label")
	ErrMissingDefault = errors.New("missing default entry")
	ErrInvalidPattern = errors.New("invalid pattern")
)

// Registry is the closed set of labels that rules and tables may reference.
type Registry struct {
	labels map[Label]struct{}
	order  []Label
}

// NewRegistry builds a registry holding LabelDefault, LabelUrgent and the
// given labels. Labels must be non-empty lowercase identifiers.
func NewRegistry(labels ...Label) (*Registry, error) {
	r := &Registry{labels: make(map[Label]struct{}, len(labels)+2)}
	for _, l := range append([]Label{LabelDefault, LabelUrgent}, labels...) {
		if err := checkLabelName(l); err != nil {
			return nil, err
		}
		if _, ok := r.labels[l]; ok {
			continue
		}
		r.labels[l] = struct{}{}
		r.order = append(r.order, l)
	}
	return r, nil
}

func checkLabelName(l Label) error {
	s := string(l)
	if s == "" {
		return fmt.Errorf("%w: empty label", ErrUnknownLabel)
	}
	if s != strings.ToLower(strings.TrimSpace(s)) {
		return fmt.Errorf("%w: label %q must be lowercase without surrounding spaces", ErrUnknownLabel, s)
	}
	return nil
}

// Has reports whether l is registered.
func (r *Registry) Has(l Label) bool {
	_, ok := r.labels[l]
	return ok
}

// Labels returns the registered labels in registration order.
func (r *Registry) Labels() []Label {
	out := make([]Label, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) require(l Label) error {
	if !r.Has(l) {
		return fmt.Errorf("%w: %q", ErrUnknownLabel, l)
	}
	return nil
}
