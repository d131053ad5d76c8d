package notify

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize/english"

	"github.com/nhle/sitehub-notify/internal/classify"
	"github.com/nhle/sitehub-notify/internal/model"
)

// urgencyKeywords flags a chat message as urgent.
var urgencyKeywords = regexp.MustCompile(`(?i)\b(urgent|asap|emergency|critical|immediately)\b`)

// CreateUrgent forces the urgent priority and the alarm glyph.
func (s *Service) CreateUrgent(ctx context.Context, p Params) (*model.Notification, error) {
	return s.Create(ctx, p, Overrides{
		Priority: model.PriorityUrgent,
		Emoji:    classify.AlarmGlyph,
	})
}

// ProjectParams describes a project event.
type ProjectParams struct {
	UserID    int64
	ProjectID int64
	Title     string
	Message   string
	ActionURL *string
}

// CreateProjectNotification notifies about a project. The caller names the
// context (e.g. classify.LabelCreated); it is not extracted from text.
func (s *Service) CreateProjectNotification(
	ctx context.Context,
	p ProjectParams,
	label classify.Label,
) (*model.Notification, error) {
	if label == "" {
		return nil, fmt.Errorf("project notification: %w", ErrContextRequired)
	}
	return s.Create(ctx, Params{
		UserID:          p.UserID,
		Title:           p.Title,
		Message:         p.Message,
		Type:            model.TypeProject,
		RelatedItemID:   ptr(p.ProjectID),
		RelatedItemType: ptr("project"),
		ActionURL:       p.ActionURL,
	}, Overrides{Context: label})
}

// MessageParams describes a new chat message.
type MessageParams struct {
	UserID         int64
	SenderName     string
	MessageContent string
	MessageID      int64

	// ProjectName, when set, is appended to the title.
	ProjectName string
	ActionURL   *string
}

// CreateMessageNotification notifies a user of a new chat message. Urgency
// keywords in the content select the urgent context; the stored body is a
// preview truncated to the configured length.
func (s *Service) CreateMessageNotification(ctx context.Context, p MessageParams) (*model.Notification, error) {
	label := classify.LabelDefault
	if urgencyKeywords.MatchString(p.MessageContent) {
		label = classify.LabelUrgent
	}

	title := "New message from " + p.SenderName
	if p.ProjectName != "" {
		title += " in " + p.ProjectName
	}

	return s.Create(ctx, Params{
		UserID:          p.UserID,
		Title:           title,
		Message:         truncate(p.MessageContent, s.cfg.PreviewLength),
		Type:            model.TypeMessage,
		RelatedItemID:   ptr(p.MessageID),
		RelatedItemType: ptr("message"),
		ActionURL:       p.ActionURL,
	}, Overrides{Context: label})
}

// OrderStatus is a step of the order lifecycle.
type OrderStatus string

const (
	OrderProcessing    OrderStatus = "processing"
	OrderInTransit     OrderStatus = "in_transit"
	OrderDelivered     OrderStatus = "delivered"
	OrderCancelled     OrderStatus = "cancelled"
	OrderDelayed       OrderStatus = "delayed"
	OrderPaymentFailed OrderStatus = "payment_failed"
)

var orderStatusLabels = map[OrderStatus]classify.Label{
	OrderProcessing:    classify.LabelPlaced,
	OrderInTransit:     classify.LabelShipped,
	OrderDelivered:     classify.LabelDelivered,
	OrderCancelled:     classify.LabelCancelled,
	OrderDelayed:       classify.LabelDelayed,
	OrderPaymentFailed: classify.LabelPaymentFailed,
}

var orderStatusText = map[OrderStatus]string{
	OrderProcessing:    "is being processed",
	OrderInTransit:     "is on its way",
	OrderDelivered:     "has been delivered",
	OrderCancelled:     "has been cancelled",
	OrderDelayed:       "has been delayed",
	OrderPaymentFailed: "could not be paid",
}

// Label returns the context label for the status.
func (st OrderStatus) Label() (classify.Label, bool) {
	l, ok := orderStatusLabels[st]
	return l, ok
}

// OrderParams describes an order status change. Title and Message default
// to a sentence built from OrderNumber and Status.
type OrderParams struct {
	UserID      int64
	OrderID     int64
	OrderNumber string
	Status      OrderStatus
	Title       string
	Message     string
	ActionURL   *string
}

// CreateOrderStatusNotification translates the order status into its
// context label before delegating to Create.
func (s *Service) CreateOrderStatusNotification(ctx context.Context, p OrderParams) (*model.Notification, error) {
	label, ok := p.Status.Label()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOrderStatus, p.Status)
	}

	title := p.Title
	if title == "" {
		title = "Order Update"
	}
	message := p.Message
	if message == "" {
		message = fmt.Sprintf("Your order %s %s.", orderRef(p), orderStatusText[p.Status])
	}

	return s.Create(ctx, Params{
		UserID:          p.UserID,
		Title:           title,
		Message:         message,
		Type:            model.TypeOrder,
		RelatedItemID:   ptr(p.OrderID),
		RelatedItemType: ptr("order"),
		ActionURL:       p.ActionURL,
	}, Overrides{Context: label})
}

func orderRef(p OrderParams) string {
	if p.OrderNumber != "" {
		return "#" + strings.TrimPrefix(p.OrderNumber, "#")
	}
	return fmt.Sprintf("#%d", p.OrderID)
}

// PaymentParams describes a payment event. Status is used verbatim as the
// context label (e.g. "completed", "failed", "pending").
type PaymentParams struct {
	UserID    int64
	PaymentID int64
	Status    string
	Title     string
	Message   string
	ActionURL *string
}

// CreatePaymentNotification notifies about a payment, passing the status
// through as the context label. An empty status is rejected.
func (s *Service) CreatePaymentNotification(ctx context.Context, p PaymentParams) (*model.Notification, error) {
	if strings.TrimSpace(p.Status) == "" {
		return nil, fmt.Errorf("payment notification: %w", ErrContextRequired)
	}
	return s.Create(ctx, Params{
		UserID:          p.UserID,
		Title:           p.Title,
		Message:         p.Message,
		Type:            model.TypePayment,
		RelatedItemID:   ptr(p.PaymentID),
		RelatedItemType: ptr("payment"),
		ActionURL:       p.ActionURL,
	}, Overrides{Context: classify.Label(p.Status)})
}

// InventoryParams describes a stock level that crossed its low threshold.
type InventoryParams struct {
	UserID          int64
	MaterialName    string
	MaterialID      int64
	CurrentQuantity int
	LowThreshold    int

	// Unit is the singular unit name; defaults to "unit".
	Unit      string
	ActionURL *string
}

// CreateLowInventoryNotification raises an inventory alert. At or below
// CriticalRatio of the threshold the alert is critical (urgent context),
// otherwise it is a low-stock alert using the type's default.
func (s *Service) CreateLowInventoryNotification(ctx context.Context, p InventoryParams) (*model.Notification, error) {
	critical := float64(p.CurrentQuantity) <= s.cfg.CriticalRatio*float64(p.LowThreshold)

	label := classify.LabelDefault
	title := "Low Inventory Alert"
	if critical {
		label = classify.LabelUrgent
		title = "Critical Inventory Alert"
	}

	unit := p.Unit
	if unit == "" {
		unit = "unit"
	}
	message := fmt.Sprintf("%s is running low: %s remaining (threshold: %s).",
		p.MaterialName,
		english.Plural(p.CurrentQuantity, unit, ""),
		english.Plural(p.LowThreshold, unit, ""),
	)

	return s.Create(ctx, Params{
		UserID:          p.UserID,
		Title:           title,
		Message:         message,
		Type:            model.TypeInventory,
		RelatedItemID:   ptr(p.MaterialID),
		RelatedItemType: ptr("material"),
		ActionURL:       p.ActionURL,
	}, Overrides{Context: label})
}

// truncate shortens s to n runes followed by an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func ptr[T any](v T) *T { return &v }
