package notify

import (
	"context"
	"fmt"

	"github.com/nhle/sitehub-notify/internal/classify"
	"github.com/nhle/sitehub-notify/internal/logx"
	"github.com/nhle/sitehub-notify/internal/model"
	"github.com/nhle/sitehub-notify/internal/store"
)

// Publisher receives every notification after it has been stored.
type Publisher interface {
	Publish(ctx context.Context, n *model.Notification) error
}

// Config tunes the specialized constructors and the batch notifier.
type Config struct {
	// PreviewLength is how many characters of a chat message are kept.
	PreviewLength int

	// CriticalRatio is the fraction of the low-stock threshold at or below
	// which an inventory alert is critical.
	CriticalRatio float64

	// BatchPolicy is model.BatchPolicyAbort or model.BatchPolicyContinue.
	BatchPolicy string
}

// ConfigFrom converts the application engine settings.
func ConfigFrom(c model.EngineConfig) Config {
	return Config{
		PreviewLength: c.PreviewLength,
		CriticalRatio: c.CriticalRatio,
		BatchPolicy:   c.BatchPolicy,
	}
}

// Params is the notification body supplied by the caller.
type Params struct {
	UserID          int64
	Title           string
	Message         string
	Type            model.NotificationType
	RelatedItemID   *int64
	RelatedItemType *string
	ActionURL       *string
}

// Overrides replace a computed value when non-zero.
type Overrides struct {
	Context  classify.Label
	Priority model.Priority
	Emoji    string
}

// Service annotates and persists notifications.
//
// It is safe for concurrent use as long as the store and publisher are.
type Service struct {
	engine    *classify.Engine
	store     store.NotificationStore
	publisher Publisher
	log       logx.Logger
	cfg       Config
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets a best-effort publisher called after each persist.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithLogger sets the service logger.
func WithLogger(l logx.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(s *Service) { s.cfg = cfg }
}

// New creates a Service over the given engine and store.
func New(engine *classify.Engine, st store.NotificationStore, opts ...Option) *Service {
	defaults := model.DefaultAppConfig().Engine
	s := &Service{
		engine: engine,
		store:  st,
		log:    logx.Nop(),
		cfg:    ConfigFrom(defaults),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log.IsZero() {
		s.log = logx.Nop()
	}
	if s.cfg.PreviewLength <= 0 {
		s.cfg.PreviewLength = defaults.PreviewLength
	}
	if s.cfg.CriticalRatio <= 0 {
		s.cfg.CriticalRatio = defaults.CriticalRatio
	}
	if s.cfg.BatchPolicy == "" {
		s.cfg.BatchPolicy = defaults.BatchPolicy
	}
	s.log = s.log.With(logx.String("comp", "notify"))
	return s
}

// Create annotates p and persists exactly one notification.
//
// The context label comes from o.Context or is extracted from p.Message;
// priority and emoji are resolved from it unless overridden. Store errors
// are returned unchanged.
func (s *Service) Create(ctx context.Context, p Params, o Overrides) (*model.Notification, error) {
	if !p.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNotificationType, p.Type)
	}
	if o.Priority != "" && !o.Priority.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPriority, o.Priority)
	}

	label := o.Context
	if label == "" {
		label = s.engine.Extract(p.Type, p.Message)
	}
	priority := o.Priority
	if priority == "" {
		priority = s.engine.Priority(p.Type, label)
	}
	emoji := o.Emoji
	if emoji == "" {
		emoji = s.engine.Emoji(p.Type, label, priority)
	}

	log := s.log.With(
		logx.Int64("user_id", p.UserID),
		logx.String("type", string(p.Type)),
		logx.String("context", string(label)),
		logx.String("priority", string(priority)),
	)
	log.Debug("notification annotated", logx.String("emoji", emoji))

	stored, err := s.store.CreateNotification(ctx, model.Notification{
		UserID:          p.UserID,
		Title:           p.Title,
		Message:         p.Message,
		Type:            p.Type,
		Priority:        priority,
		Emoji:           emoji,
		RelatedItemID:   p.RelatedItemID,
		RelatedItemType: p.RelatedItemType,
		ActionURL:       p.ActionURL,
	})
	if err != nil {
		log.Warn("persisting notification failed", logx.Err(err))
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, stored); err != nil {
			log.Warn("publishing notification failed",
				logx.String("id", stored.ID), logx.Err(err))
		}
	}

	return stored, nil
}
