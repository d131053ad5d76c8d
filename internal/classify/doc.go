// Package classify annotates notifications with a context label, a priority
// and a display glyph.
//
// Three immutable tables drive it:
//   - a Library of weighted regular expressions, evaluated in registration order
//   - a PriorityTable mapping (type, label) to a priority
//   - an EmojiTable mapping (type, label or priority) to a glyph
//
// Tables are validated against a Registry of known labels when they are built,
// so a typo in a label name fails at startup. Free text that matches nothing
// resolves to LabelDefault at lookup time.
//
// # Tie-break
//
// Rules are scanned in the order they were registered. A rule replaces the
// running best match only when its weight is strictly greater, so among
// equal-weight matches the earliest registered rule wins.
//
// An Engine bundles the three tables. It never mutates them after
// construction and is safe for concurrent use.
package classify
