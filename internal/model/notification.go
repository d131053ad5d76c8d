package model

import "time"

// NotificationType identifies the domain event category a notification
// belongs to.
type NotificationType string

const (
	TypeProject         NotificationType = "project"
	TypeProjectTeam     NotificationType = "project_team"
	TypeOrder           NotificationType = "order"
	TypeMessage         NotificationType = "message"
	TypeServiceRequest  NotificationType = "service_request"
	TypePayment         NotificationType = "payment"
	TypeBid             NotificationType = "bid"
	TypeInvitation      NotificationType = "invitation"
	TypeProjectUpdate   NotificationType = "project_update"
	TypeScheduleChange  NotificationType = "schedule_change"
	TypeMaterialRequest NotificationType = "material_request"
	TypeInventory       NotificationType = "inventory"
	TypeSystem          NotificationType = "system"
)

// NotificationTypes lists every notification type in declaration order.
var NotificationTypes = []NotificationType{
	TypeProject,
	TypeProjectTeam,
	TypeOrder,
	TypeMessage,
	TypeServiceRequest,
	TypePayment,
	TypeBid,
	TypeInvitation,
	TypeProjectUpdate,
	TypeScheduleChange,
	TypeMaterialRequest,
	TypeInventory,
	TypeSystem,
}

// Valid reports whether t is one of the declared notification types.
func (t NotificationType) Valid() bool {
	for _, known := range NotificationTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Priority is the severity attached to a notification.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
	PriorityInfo   Priority = "info"
)

// Priorities lists every priority from most to least severe.
var Priorities = []Priority{
	PriorityUrgent,
	PriorityHigh,
	PriorityNormal,
	PriorityLow,
	PriorityInfo,
}

// Valid reports whether p is one of the declared priorities.
func (p Priority) Valid() bool {
	for _, known := range Priorities {
		if p == known {
			return true
		}
	}
	return false
}

// Rank returns the sort position of p (0 is most severe). Unknown
// priorities sort last.
func (p Priority) Rank() int {
	for i, known := range Priorities {
		if p == known {
			return i
		}
	}
	return len(Priorities)
}

// Notification is a recipient-addressed alert carrying a priority and a
// display glyph.
type Notification struct {
	// ID is assigned by the store when the notification is persisted.
	ID string `json:"id" db:"id"`

	// UserID is the recipient.
	UserID int64 `json:"user_id" db:"user_id"`

	Title   string `json:"title" db:"title"`
	Message string `json:"message" db:"message"`

	Type     NotificationType `json:"type" db:"type"`
	Priority Priority         `json:"priority" db:"priority"`

	// Emoji is the display glyph; never empty.
	Emoji string `json:"emoji" db:"emoji"`

	// RelatedItemID and RelatedItemType cross-reference the subject entity
	// (a project, an order, a material...).
	RelatedItemID   *int64  `json:"related_item_id,omitempty" db:"related_item_id"`
	RelatedItemType *string `json:"related_item_type,omitempty" db:"related_item_type"`

	// ActionURL is an optional deep link.
	ActionURL *string `json:"action_url,omitempty" db:"action_url"`

	// CreatedAt is assigned by the store.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// IsRead is owned by the recipient's read/unread action.
	IsRead bool `json:"is_read" db:"is_read"`
}
