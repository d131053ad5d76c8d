package classify

import (
	"fmt"

	"github.com/nhle/sitehub-notify/internal/model"
)

// Context labels used by the default tables.
const (
	LabelCreated       Label = "created"
	LabelUpdated       Label = "updated"
	LabelCompleted     Label = "completed"
	LabelCancelled     Label = "cancelled"
	LabelOverdue       Label = "overdue"
	LabelDelayed       Label = "delayed"
	LabelRescheduled   Label = "rescheduled"
	LabelReminder      Label = "reminder"
	LabelApproved      Label = "approved"
	LabelRejected      Label = "rejected"
	LabelAccepted      Label = "accepted"
	LabelDeclined      Label = "declined"
	LabelExpired       Label = "expired"
	LabelAssigned      Label = "assigned"
	LabelRemoved       Label = "removed"
	LabelPlaced        Label = "placed"
	LabelShipped       Label = "shipped"
	LabelDelivered     Label = "delivered"
	LabelPaymentFailed Label = "payment_failed"
	LabelPending       Label = "pending"
	LabelFailed        Label = "failed"
	LabelRefunded      Label = "refunded"
	LabelOutbid        Label = "outbid"
	LabelWon           Label = "won"
	LabelLowStock      Label = "low_stock"
	LabelOutOfStock    Label = "out_of_stock"
	LabelQuestion      Label = "question"
	LabelDocument      Label = "document"
	LabelMaintenance   Label = "maintenance"
	LabelSecurity      Label = "security"
)

// AlarmGlyph marks notifications forced to the urgent priority.
const AlarmGlyph = "🚨"

// FallbackGlyph is used when no table entry applies.
const FallbackGlyph = "🔔"

// DefaultLabels lists every label the default tables reference.
var DefaultLabels = []Label{
	LabelCreated, LabelUpdated, LabelCompleted, LabelCancelled, LabelOverdue,
	LabelDelayed, LabelRescheduled, LabelReminder, LabelApproved, LabelRejected,
	LabelAccepted, LabelDeclined, LabelExpired, LabelAssigned, LabelRemoved,
	LabelPlaced, LabelShipped, LabelDelivered, LabelPaymentFailed, LabelPending,
	LabelFailed, LabelRefunded, LabelOutbid, LabelWon, LabelLowStock,
	LabelOutOfStock, LabelQuestion, LabelDocument, LabelMaintenance, LabelSecurity,
}

// DefaultRules is the default pattern library in evaluation order. Groups
// run from the most to the least specific, so a specific label registered
// earlier beats a generic one of the same weight.
var DefaultRules = []RuleSpec{
	{LabelUrgent, `\b(urgent|asap|emergency|critical|immediately)\b`, 10},

	{LabelPaymentFailed, `\bpayment\s+(has\s+)?(failed|declined|bounced)\b|\bcard\s+(was\s+)?declined\b`, 9},
	{LabelOutOfStock, `\b(out\s+of\s+stock|sold\s+out|no\s+stock)\b`, 9},
	{LabelSecurity, `\b(security|unauthori[sz]ed|suspicious|breach)\b`, 9},

	{LabelOverdue, `\b(overdue|past\s+due)\b`, 8},
	{LabelCancelled, `\b(cancel+ed|cancellation|called\s+off)\b`, 8},

	{LabelDelayed, `\b(delay(ed)?|postponed|behind\s+schedule)\b`, 7},
	{LabelFailed, `\b(failed|failure|unsuccessful)\b`, 7},
	{LabelRejected, `\b(rejected|denied)\b`, 7},
	{LabelDeclined, `\bdeclined\b`, 7},
	{LabelLowStock, `\b(low\s+stock|running\s+low|low\s+inventory|below\s+threshold)\b`, 7},

	{LabelOutbid, `\b(outbid|higher\s+bid)\b`, 6},
	{LabelExpired, `\b(expired|expiring|deadline\s+passed)\b`, 6},
	{LabelRescheduled, `\b(rescheduled|moved\s+to|new\s+date)\b`, 6},
	{LabelRefunded, `\brefund(ed)?\b`, 6},

	{LabelCompleted, `\b(completed?|finished|done|wrapped\s+up)\b`, 5},
	{LabelDelivered, `\b(delivered|arrived)\b`, 5},
	{LabelShipped, `\b(shipped|dispatched|in\s+transit|on\s+the\s+way)\b`, 5},
	{LabelApproved, `\bapproved\b`, 5},
	{LabelAccepted, `\baccepted\b`, 5},
	{LabelWon, `\b(won|awarded|winning\s+bid)\b`, 5},

	{LabelMaintenance, `\b(maintenance|downtime|scheduled\s+outage)\b`, 4},
	{LabelAssigned, `\b(assigned|added\s+to\s+(the\s+)?team|joined)\b`, 4},
	{LabelRemoved, `\b(removed|left\s+the\s+team)\b`, 4},

	{LabelReminder, `\b(reminder|don'?t\s+forget|upcoming|due\s+(soon|today|tomorrow))\b`, 3},
	{LabelPlaced, `\b(order\s+placed|new\s+order|processing)\b`, 3},
	{LabelPending, `\b(pending|awaiting|on\s+hold)\b`, 3},
	{LabelCreated, `\b(new|created|posted|submitted)\b`, 3},

	{LabelUpdated, `\b(updated?|changed|modified|revised)\b`, 2},
	{LabelQuestion, `\?\s*$|\b(question|clarify|could\s+you|can\s+you)\b`, 2},
	{LabelDocument, `\b(documents?|drawings?|blueprints?|invoices?|attachments?)\b`, 2},
}

// DefaultPriorities is the default priority table.
var DefaultPriorities = map[model.NotificationType]map[Label]model.Priority{
	model.TypeProject: {
		LabelDefault:   model.PriorityNormal,
		LabelCreated:   model.PriorityNormal,
		LabelUpdated:   model.PriorityNormal,
		LabelCompleted: model.PriorityHigh,
		LabelCancelled: model.PriorityHigh,
		LabelDelayed:   model.PriorityHigh,
		LabelOverdue:   model.PriorityHigh,
		LabelAssigned:  model.PriorityNormal,
		LabelRemoved:   model.PriorityNormal,
		LabelApproved:  model.PriorityNormal,
		LabelRejected:  model.PriorityHigh,
		LabelReminder:  model.PriorityLow,
		LabelDocument:  model.PriorityInfo,
	},
	model.TypeProjectTeam: {
		LabelDefault:  model.PriorityNormal,
		LabelAssigned: model.PriorityNormal,
		LabelRemoved:  model.PriorityHigh,
		LabelCreated:  model.PriorityNormal,
		LabelQuestion: model.PriorityNormal,
	},
	model.TypeOrder: {
		LabelDefault:       model.PriorityNormal,
		LabelPlaced:        model.PriorityNormal,
		LabelShipped:       model.PriorityNormal,
		LabelDelivered:     model.PriorityHigh,
		LabelCancelled:     model.PriorityHigh,
		LabelDelayed:       model.PriorityHigh,
		LabelPaymentFailed: model.PriorityUrgent,
		LabelRefunded:      model.PriorityNormal,
		LabelOutOfStock:    model.PriorityHigh,
		LabelPending:       model.PriorityLow,
	},
	model.TypeMessage: {
		LabelDefault:  model.PriorityNormal,
		LabelQuestion: model.PriorityNormal,
		LabelDocument: model.PriorityNormal,
		LabelReminder: model.PriorityLow,
	},
	model.TypeServiceRequest: {
		LabelDefault:   model.PriorityNormal,
		LabelCreated:   model.PriorityHigh,
		LabelAccepted:  model.PriorityNormal,
		LabelDeclined:  model.PriorityHigh,
		LabelCompleted: model.PriorityNormal,
		LabelCancelled: model.PriorityHigh,
		LabelPending:   model.PriorityLow,
	},
	model.TypePayment: {
		LabelDefault:       model.PriorityNormal,
		LabelCompleted:     model.PriorityNormal,
		LabelPending:       model.PriorityLow,
		LabelFailed:        model.PriorityUrgent,
		LabelPaymentFailed: model.PriorityUrgent,
		LabelRefunded:      model.PriorityNormal,
		LabelOverdue:       model.PriorityHigh,
		LabelDeclined:      model.PriorityHigh,
	},
	model.TypeBid: {
		LabelDefault:  model.PriorityNormal,
		LabelCreated:  model.PriorityNormal,
		LabelAccepted: model.PriorityHigh,
		LabelRejected: model.PriorityNormal,
		LabelWon:      model.PriorityHigh,
		LabelOutbid:   model.PriorityHigh,
		LabelExpired:  model.PriorityLow,
		LabelUpdated:  model.PriorityLow,
	},
	model.TypeInvitation: {
		LabelDefault:  model.PriorityNormal,
		LabelAccepted: model.PriorityNormal,
		LabelDeclined: model.PriorityLow,
		LabelExpired:  model.PriorityLow,
		LabelReminder: model.PriorityLow,
	},
	model.TypeProjectUpdate: {
		LabelDefault:   model.PriorityNormal,
		LabelCompleted: model.PriorityHigh,
		LabelDelayed:   model.PriorityHigh,
		LabelUpdated:   model.PriorityInfo,
		LabelDocument:  model.PriorityInfo,
	},
	model.TypeScheduleChange: {
		LabelDefault:     model.PriorityHigh,
		LabelRescheduled: model.PriorityHigh,
		LabelCancelled:   model.PriorityHigh,
		LabelDelayed:     model.PriorityHigh,
		LabelReminder:    model.PriorityNormal,
	},
	model.TypeMaterialRequest: {
		LabelDefault:   model.PriorityNormal,
		LabelCreated:   model.PriorityNormal,
		LabelApproved:  model.PriorityNormal,
		LabelRejected:  model.PriorityHigh,
		LabelDelivered: model.PriorityNormal,
		LabelDelayed:   model.PriorityHigh,
		LabelPending:   model.PriorityLow,
	},
	model.TypeInventory: {
		LabelDefault:    model.PriorityHigh,
		LabelLowStock:   model.PriorityHigh,
		LabelOutOfStock: model.PriorityUrgent,
		LabelDelivered:  model.PriorityNormal,
		LabelUpdated:    model.PriorityLow,
	},
	model.TypeSystem: {
		LabelDefault:     model.PriorityInfo,
		LabelMaintenance: model.PriorityNormal,
		LabelSecurity:    model.PriorityUrgent,
		LabelUpdated:     model.PriorityInfo,
		LabelReminder:    model.PriorityLow,
	},
}

// DefaultEmojis is the default emoji table. Keys are labels or priority
// names.
var DefaultEmojis = map[model.NotificationType]map[string]string{
	model.TypeProject: {
		"default":   "📁",
		"created":   "🆕",
		"updated":   "✏️",
		"completed": "✅",
		"cancelled": "❌",
		"delayed":   "⏳",
		"overdue":   "⏰",
		"assigned":  "👷",
		"document":  "📄",
		"urgent":    AlarmGlyph,
		"high":      "⚠️",
	},
	model.TypeProjectTeam: {
		"default":  "👥",
		"assigned": "🤝",
		"removed":  "👋",
		"urgent":   AlarmGlyph,
	},
	model.TypeOrder: {
		"default":        "📦",
		"placed":         "🛒",
		"shipped":        "🚚",
		"delivered":      "✅",
		"cancelled":      "❌",
		"delayed":        "⏳",
		"payment_failed": "💳",
		"refunded":       "↩️",
		"urgent":         AlarmGlyph,
	},
	model.TypeMessage: {
		"default":  "💬",
		"question": "❓",
		"document": "📎",
		"urgent":   AlarmGlyph,
	},
	model.TypeServiceRequest: {
		"default":   "🛠️",
		"created":   "🆕",
		"accepted":  "👍",
		"declined":  "👎",
		"completed": "✅",
		"urgent":    AlarmGlyph,
	},
	model.TypePayment: {
		"default":        "💰",
		"completed":      "✅",
		"pending":        "⏳",
		"failed":         "💳",
		"payment_failed": "💳",
		"refunded":       "↩️",
		"overdue":        "⏰",
		"urgent":         AlarmGlyph,
	},
	model.TypeBid: {
		"default":  "🏷️",
		"accepted": "🎉",
		"won":      "🏆",
		"rejected": "❌",
		"outbid":   "📉",
		"expired":  "⌛",
		"high":     "⚠️",
	},
	model.TypeInvitation: {
		"default":  "✉️",
		"created":  "📨",
		"accepted": "🤝",
		"declined": "🙅",
		"expired":  "⌛",
	},
	model.TypeProjectUpdate: {
		"default":   "📣",
		"completed": "🏁",
		"delayed":   "⏳",
		"document":  "📄",
		"urgent":    AlarmGlyph,
	},
	model.TypeScheduleChange: {
		"default":     "📅",
		"rescheduled": "🔁",
		"cancelled":   "🚫",
		"reminder":    "⏰",
		"urgent":      AlarmGlyph,
	},
	model.TypeMaterialRequest: {
		"default":   "🧱",
		"approved":  "✅",
		"rejected":  "❌",
		"delivered": "🚚",
		"urgent":    AlarmGlyph,
	},
	model.TypeInventory: {
		"default":      "📉",
		"low_stock":    "⚠️",
		"out_of_stock": "🛑",
		"delivered":    "📦",
		"urgent":       AlarmGlyph,
	},
	model.TypeSystem: {
		"default":     "ℹ️",
		"maintenance": "🔧",
		"security":    "🔒",
		"urgent":      AlarmGlyph,
		"low":         "📝",
	},
}

// NewDefault builds an engine from the default tables.
func NewDefault() (*Engine, error) {
	reg, err := NewRegistry(DefaultLabels...)
	if err != nil {
		return nil, fmt.Errorf("building label registry: %w", err)
	}
	lib, err := NewLibrary(reg, DefaultRules)
	if err != nil {
		return nil, fmt.Errorf("building pattern library: %w", err)
	}
	priorities, err := NewPriorityTable(reg, DefaultPriorities)
	if err != nil {
		return nil, fmt.Errorf("building priority table: %w", err)
	}
	emojis, err := NewEmojiTable(reg, DefaultEmojis, FallbackGlyph)
	if err != nil {
		return nil, fmt.Errorf("building emoji table: %w", err)
	}
	return New(lib, priorities, emojis), nil
}
