// Package setup runs the interactive configuration form of notifyctl.
package setup

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/nhle/sitehub-notify/internal/keys"
	"github.com/nhle/sitehub-notify/internal/model"
)

// ErrAborted is returned when the user quits the form.
var ErrAborted = errors.New("setup aborted")

// Answers holds the raw form values. Numeric fields stay strings until
// Apply so the form can validate them as typed.
type Answers struct {
	StoragePath   string
	LogLevel      string
	PreviewLength string
	CriticalRatio string
	BatchPolicy   string
	RedisEnabled  bool
	RedisAddr     string
	RedisPassword string
}

// AnswersFrom pre-fills the form from cfg.
func AnswersFrom(cfg *model.AppConfig) *Answers {
	return &Answers{
		StoragePath:   cfg.Storage.Path,
		LogLevel:      cfg.Log.Level,
		PreviewLength: strconv.Itoa(cfg.Engine.PreviewLength),
		CriticalRatio: strconv.FormatFloat(cfg.Engine.CriticalRatio, 'f', -1, 64),
		BatchPolicy:   cfg.Engine.BatchPolicy,
		RedisEnabled:  cfg.Redis.Enabled,
		RedisAddr:     cfg.Redis.Addr,
	}
}

// Apply returns a copy of cfg updated with the answers.
func (a *Answers) Apply(cfg *model.AppConfig) (*model.AppConfig, error) {
	out := *cfg

	preview, err := strconv.Atoi(strings.TrimSpace(a.PreviewLength))
	if err != nil {
		return nil, fmt.Errorf("preview length: %w", err)
	}
	ratio, err := strconv.ParseFloat(strings.TrimSpace(a.CriticalRatio), 64)
	if err != nil {
		return nil, fmt.Errorf("critical ratio: %w", err)
	}

	out.Storage.Path = strings.TrimSpace(a.StoragePath)
	out.Log.Level = a.LogLevel
	out.Engine.PreviewLength = preview
	out.Engine.CriticalRatio = ratio
	out.Engine.BatchPolicy = a.BatchPolicy
	out.Redis.Enabled = a.RedisEnabled
	if a.RedisEnabled {
		out.Redis.Addr = strings.TrimSpace(a.RedisAddr)
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

// NewForm builds the configuration form bound to a.
func NewForm(a *Answers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Database path").
				Description("SQLite file holding delivered notifications").
				Value(&a.StoragePath).
				Validate(validateRequired("Database path")),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&a.LogLevel),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Message preview length").
				Description("Characters of a chat message kept in the notification").
				Value(&a.PreviewLength).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Critical inventory ratio").
				Description("Fraction of the low-stock threshold that makes an alert critical").
				Value(&a.CriticalRatio).
				Validate(validateRatio),
			huh.NewSelect[string]().
				Title("Batch failure policy").
				Options(
					huh.NewOption("Abort - stop at the first failed recipient", model.BatchPolicyAbort),
					huh.NewOption("Continue - notify everyone, report failures", model.BatchPolicyContinue),
				).
				Value(&a.BatchPolicy),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Publish to Redis?").
				Description("Fan stored notifications out to real-time subscribers").
				Value(&a.RedisEnabled),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Redis address").
				Placeholder("localhost:6379").
				Value(&a.RedisAddr).
				Validate(validateHostPort),
			huh.NewInput().
				Title("Redis password").
				Description("Stored in the system keyring; leave empty to keep the current one").
				EchoMode(huh.EchoModePassword).
				Value(&a.RedisPassword),
		).WithHideFunc(func() bool { return !a.RedisEnabled }),
	).WithKeyMap(keys.FormKeyMap())
}

// Run shows the form on stderr and returns the updated configuration and
// the Redis password entered, if any.
func Run(cfg *model.AppConfig) (*model.AppConfig, string, error) {
	a := AnswersFrom(cfg)
	if err := run(NewForm(a)); err != nil {
		return nil, "", err
	}
	updated, err := a.Apply(cfg)
	if err != nil {
		return nil, "", err
	}
	return updated, a.RedisPassword, nil
}

// PromptPassword asks for a secret without echoing it.
func PromptPassword(title string) (string, error) {
	var secret string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				EchoMode(huh.EchoModePassword).
				Value(&secret).
				Validate(validateRequired(title)),
		),
	).WithKeyMap(keys.FormKeyMap())

	if err := run(form); err != nil {
		return "", err
	}
	return secret, nil
}

func run(form *huh.Form) error {
	err := form.WithProgramOptions(tea.WithOutput(os.Stderr)).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a whole number")
	}
	if n <= 0 {
		return fmt.Errorf("must be greater than zero")
	}
	return nil
}

func validateRatio(s string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if f <= 0 || f > 1 {
		return fmt.Errorf("must be greater than 0 and at most 1")
	}
	return nil
}

func validateHostPort(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("address is required")
	}
	_, port, err := net.SplitHostPort(s)
	if err != nil {
		return fmt.Errorf("address must be host:port")
	}
	if _, err := strconv.Atoi(port); err != nil {
		return fmt.Errorf("port must be a number")
	}
	return nil
}
