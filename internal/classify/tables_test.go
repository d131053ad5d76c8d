package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/sitehub-notify/internal/model"
)

func fullPriorities(extra map[Label]model.Priority) map[model.NotificationType]map[Label]model.Priority {
	out := map[model.NotificationType]map[Label]model.Priority{}
	for _, typ := range model.NotificationTypes {
		row := map[Label]model.Priority{LabelDefault: model.PriorityNormal}
		for k, v := range extra {
			row[k] = v
		}
		out[typ] = row
	}
	return out
}

func fullEmojis(extra map[string]string) map[model.NotificationType]map[string]string {
	out := map[model.NotificationType]map[string]string{}
	for _, typ := range model.NotificationTypes {
		row := map[string]string{"default": "•"}
		for k, v := range extra {
			row[k] = v
		}
		out[typ] = row
	}
	return out
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg, err := NewRegistry("completed", "overdue", "completed")
	require.NoError(t, err)
	assert.Equal(t, []Label{LabelDefault, LabelUrgent, "completed", "overdue"}, reg.Labels())
	assert.True(t, reg.Has("overdue"))
	assert.False(t, reg.Has("Overdue"))

	_, err = NewRegistry("")
	assert.ErrorIs(t, err, ErrUnknownLabel)

	_, err = NewRegistry("Completed")
	assert.ErrorIs(t, err, ErrUnknownLabel)
}

func TestNewLibraryFailsFast(t *testing.T) {
	t.Parallel()

	reg, err := NewRegistry("completed")
	require.NoError(t, err)

	_, err = NewLibrary(reg, []RuleSpec{{Label: "complete", Expr: `done`, Weight: 1}})
	assert.ErrorIs(t, err, ErrUnknownLabel, "typo in label must fail at registration")

	_, err = NewLibrary(reg, []RuleSpec{{Label: "completed", Expr: `(unclosed`, Weight: 1}})
	assert.ErrorIs(t, err, ErrInvalidPattern)

	_, err = NewLibrary(reg, []RuleSpec{{Label: "completed", Expr: `done`, Weight: 0}})
	assert.Error(t, err)

	lib, err := NewLibrary(reg, []RuleSpec{{Label: "completed", Expr: `done`, Weight: 1}})
	require.NoError(t, err)
	label, ok := lib.Best("All DONE")
	assert.True(t, ok)
	assert.Equal(t, Label("completed"), label)

	label, ok = lib.Best("nothing here")
	assert.False(t, ok)
	assert.Equal(t, LabelDefault, label)
}

func TestNewPriorityTableValidation(t *testing.T) {
	t.Parallel()

	reg, err := NewRegistry("completed")
	require.NoError(t, err)

	_, err = NewPriorityTable(reg, fullPriorities(map[Label]model.Priority{"completd": model.PriorityHigh}))
	assert.ErrorIs(t, err, ErrUnknownLabel)

	_, err = NewPriorityTable(reg, fullPriorities(map[Label]model.Priority{"completed": "severe"}))
	assert.Error(t, err)

	missing := fullPriorities(nil)
	delete(missing[model.TypeInventory], LabelDefault)
	_, err = NewPriorityTable(reg, missing)
	assert.ErrorIs(t, err, ErrMissingDefault)

	unknownType := fullPriorities(nil)
	unknownType["weird"] = map[Label]model.Priority{LabelDefault: model.PriorityLow}
	_, err = NewPriorityTable(reg, unknownType)
	assert.Error(t, err)

	src := fullPriorities(map[Label]model.Priority{"completed": model.PriorityHigh})
	pt, err := NewPriorityTable(reg, src)
	require.NoError(t, err)

	// The table keeps its own copy.
	src[model.TypeProject]["completed"] = model.PriorityLow
	assert.Equal(t, model.PriorityHigh, pt.Resolve(model.TypeProject, "completed"))
}

func TestNewEmojiTableValidation(t *testing.T) {
	t.Parallel()

	reg, err := NewRegistry("completed")
	require.NoError(t, err)

	_, err = NewEmojiTable(reg, fullEmojis(nil), "")
	assert.Error(t, err)

	_, err = NewEmojiTable(reg, fullEmojis(map[string]string{"finished": "✅"}), "?")
	assert.ErrorIs(t, err, ErrUnknownLabel)

	_, err = NewEmojiTable(reg, fullEmojis(map[string]string{"completed": ""}), "?")
	assert.Error(t, err)

	missing := fullEmojis(nil)
	delete(missing[model.TypeSystem], "default")
	_, err = NewEmojiTable(reg, missing, "?")
	assert.ErrorIs(t, err, ErrMissingDefault)

	et, err := NewEmojiTable(reg, fullEmojis(map[string]string{"completed": "✅", "high": "⚠️"}), "?")
	require.NoError(t, err)
	assert.Equal(t, "✅", et.Annotate(model.TypeBid, "completed", model.PriorityHigh))
	assert.Equal(t, "⚠️", et.Annotate(model.TypeBid, "other", model.PriorityHigh))
	assert.Equal(t, "•", et.Annotate(model.TypeBid, "other", model.PriorityLow))
	assert.Equal(t, "?", et.Annotate("weird", "other", model.PriorityLow))
	assert.Equal(t, "?", et.Fallback())
}

func TestNewDefault(t *testing.T) {
	t.Parallel()

	e, err := NewDefault()
	require.NoError(t, err)
	require.NotNil(t, e)

	reg, err := NewRegistry(DefaultLabels...)
	require.NoError(t, err)
	for _, r := range DefaultRules {
		assert.True(t, reg.Has(r.Label), "rule label %q", r.Label)
	}
}
