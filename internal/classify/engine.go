package classify

import "github.com/nhle/sitehub-notify/internal/model"

// Engine bundles the pattern library with the priority and emoji tables.
type Engine struct {
	library    *Library
	priorities *PriorityTable
	emojis     *EmojiTable
}

// New returns an engine over the given tables.
func New(lib *Library, priorities *PriorityTable, emojis *EmojiTable) *Engine {
	return &Engine{library: lib, priorities: priorities, emojis: emojis}
}

// Extract classifies message into a context label for typ.
//
// The best-weight match wins. LabelUrgent is returned as-is; any other
// winner is kept only if typ has a priority or emoji entry for it, else
// LabelDefault is returned. Empty or unmatched text yields LabelDefault.
func (e *Engine) Extract(typ model.NotificationType, message string) Label {
	label, ok := e.library.Best(message)
	if !ok {
		return LabelDefault
	}
	if label == LabelUrgent {
		return LabelUrgent
	}
	if e.priorities.Has(typ, label) || e.emojis.Has(typ, label) {
		return label
	}
	return LabelDefault
}

// Priority resolves the priority for (typ, label).
func (e *Engine) Priority(typ model.NotificationType, label Label) model.Priority {
	return e.priorities.Resolve(typ, label)
}

// Emoji resolves the display glyph for (typ, label, p).
func (e *Engine) Emoji(typ model.NotificationType, label Label, p model.Priority) string {
	return e.emojis.Annotate(typ, label, p)
}

// Annotate runs extraction, priority and emoji resolution in one call.
func (e *Engine) Annotate(typ model.NotificationType, message string) (Label, model.Priority, string) {
	label := e.Extract(typ, message)
	p := e.Priority(typ, label)
	return label, p, e.Emoji(typ, label, p)
}
