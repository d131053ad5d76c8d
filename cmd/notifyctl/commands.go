package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/nhle/sitehub-notify/internal/classify"
	"github.com/nhle/sitehub-notify/internal/credential"
	"github.com/nhle/sitehub-notify/internal/model"
	"github.com/nhle/sitehub-notify/internal/notify"
	"github.com/nhle/sitehub-notify/internal/store"
	"github.com/nhle/sitehub-notify/internal/theme"
	"github.com/nhle/sitehub-notify/internal/ui/setup"
	"github.com/nhle/sitehub-notify/internal/watch"
)

func runClassify(args []string) error {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)
	typ := fs.String("type", string(model.TypeSystem), "notification type")
	msg := fs.String("message", "", "message text")
	fs.Parse(args)

	t := model.NotificationType(*typ)
	if !t.Valid() {
		return fmt.Errorf("%w: %q", notify.ErrInvalidNotificationType, *typ)
	}

	engine, err := classify.NewDefault()
	if err != nil {
		return err
	}
	label, priority, emoji := engine.Annotate(t, *msg)
	fmt.Printf("context:  %s\npriority: %s\nemoji:    %s\n", label, priority, emoji)
	return nil
}

func runSend(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	users := fs.String("users", "", "comma separated recipient ids")
	typ := fs.String("type", string(model.TypeSystem), "notification type")
	title := fs.String("title", "", "notification title")
	msg := fs.String("message", "", "notification message")
	label := fs.String("context", "", "context label (extracted from the message when empty)")
	priority := fs.String("priority", "", "priority override")
	emoji := fs.String("emoji", "", "emoji override")
	urgent := fs.Bool("urgent", false, "force urgent priority and the alarm glyph")
	actionURL := fs.String("url", "", "deep link")
	fs.Parse(args)

	ids, err := parseIDs(*users)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return errors.New("send: -users is required")
	}

	p := notify.Params{
		Title:   *title,
		Message: *msg,
		Type:    model.NotificationType(*typ),
	}
	if *actionURL != "" {
		p.ActionURL = actionURL
	}

	if len(ids) > 1 && !*urgent && *priority == "" && *emoji == "" {
		created, err := a.svc.NotifyMultipleUsers(ctx, ids, p, classify.Label(*label))
		printNotifications(os.Stdout, created)
		return err
	}

	var created []*model.Notification
	for _, id := range ids {
		p.UserID = id
		var n *model.Notification
		if *urgent {
			n, err = a.svc.CreateUrgent(ctx, p)
		} else {
			n, err = a.svc.Create(ctx, p, notify.Overrides{
				Context:  classify.Label(*label),
				Priority: model.Priority(*priority),
				Emoji:    *emoji,
			})
		}
		if err != nil {
			printNotifications(os.Stdout, created)
			return err
		}
		created = append(created, n)
	}
	printNotifications(os.Stdout, created)
	return nil
}

func runUnread(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("unread", flag.ExitOnError)
	user := fs.Int64("user", 0, "recipient id")
	typ := fs.String("type", "", "only this notification type")
	limit := fs.Int("limit", 20, "maximum rows")
	fs.Parse(args)

	filter := store.NotificationFilter{UserID: *user, UnreadOnly: true, Limit: *limit}
	if *typ != "" {
		t := model.NotificationType(*typ)
		filter.Type = &t
	}

	list, err := a.store.GetNotifications(ctx, filter)
	if err != nil {
		return err
	}
	total, err := a.store.CountUnread(ctx, *user)
	if err != nil {
		return err
	}

	ptrs := make([]*model.Notification, len(list))
	for i := range list {
		ptrs[i] = &list[i]
	}
	sortByPriority(ptrs)
	printNotifications(os.Stdout, ptrs)
	printUnread(os.Stdout, total)
	return nil
}

func runRead(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	id := fs.String("id", "", "notification id")
	all := fs.Int64("all", 0, "mark every notification of this user as read")
	fs.Parse(args)

	switch {
	case *id != "":
		return a.store.MarkNotificationRead(ctx, *id)
	case *all != 0:
		n, err := a.store.MarkAllRead(ctx, *all)
		if err != nil {
			return err
		}
		fmt.Printf("marked %s as read\n", humanize.Comma(n))
		return nil
	default:
		return errors.New("read: -id or -all is required")
	}
}

func runWatch(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	user := fs.Int64("user", 0, "recipient id")
	interval := fs.Duration("interval", 10*time.Second, "poll interval")
	fs.Parse(args)

	p := watch.New(a.store, watch.Options{UserID: *user, Interval: *interval, Log: a.log})
	p.Start(ctx)
	defer p.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case r := <-p.Results():
			printWatchResult(os.Stdout, os.Stderr, r)
		}
	}
}

// printWatchResult prints new notifications even when the poll also
// failed; the unread total is only shown when it is known.
func printWatchResult(w, errw io.Writer, r watch.Result) {
	if len(r.New) > 0 {
		list := make([]*model.Notification, len(r.New))
		for i := range r.New {
			list[i] = &r.New[i]
		}
		printNotifications(w, list)
		if r.Error == nil {
			printUnread(w, r.Unread)
		}
	}
	if r.Error != nil {
		fmt.Fprintln(errw, "poll:", r.Error)
	}
}

func runSetup(cfgPath string) error {
	if cfgPath == "" {
		cfgPath = model.DefaultConfigPath()
	}
	cfg, err := model.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	updated, password, err := setup.Run(cfg)
	if err != nil {
		return err
	}
	if err := model.SaveConfig(cfgPath, updated); err != nil {
		return err
	}
	if password != "" {
		if err := credential.Set(credential.RedisPasswordKey, password); err != nil {
			return err
		}
	}
	fmt.Fprintln(os.Stderr, "saved", cfgPath)
	return nil
}

func runSecret(args []string) error {
	if len(args) == 0 {
		return errors.New("secret: expected set or delete")
	}
	switch args[0] {
	case "set":
		secret, err := setup.PromptPassword("Redis password")
		if err != nil {
			return err
		}
		return credential.Set(credential.RedisPasswordKey, secret)
	case "delete":
		return credential.Delete(credential.RedisPasswordKey)
	default:
		return fmt.Errorf("secret: unknown action %q", args[0])
	}
}

func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func printNotifications(w io.Writer, list []*model.Notification) {
	if len(list) == 0 {
		return
	}
	// Styled text shares the last cell so escape codes do not skew column
	// widths. Priorities are padded to the header width before styling.
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSER\tTYPE\t\tTITLE\tPRIORITY  CREATED")
	for _, n := range list {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s  %s\n",
			n.ID, n.UserID, n.Type, n.Emoji, n.Title,
			theme.PriorityStyle(n.Priority).Render(fmt.Sprintf("%-8s", n.Priority)),
			theme.DimmedStyle.Render(humanize.Time(n.CreatedAt)))
	}
	tw.Flush()
}

// sortByPriority orders list most severe first, keeping the existing
// order within a priority.
func sortByPriority(list []*model.Notification) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Priority.Rank() < list[j].Priority.Rank()
	})
}

func printUnread(w io.Writer, n int) {
	fmt.Fprintln(w, theme.HeaderStyle.Render(humanize.Comma(int64(n))+" unread"))
}
