// Package notify posts the problems of a reconciliation run to a Discord channel webhook.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/bcdxn/f1timetable/internal/domain"
	"github.com/bwmarrin/discordgo"
)

// Discord caps embed descriptions at 4096 characters.
const maxDescription = 4096

var ErrInvalidWebhook = errors.New("invalid discord webhook url")

type executor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type Notifier struct {
	id      string
	token   string
	session executor
	logger  *slog.Logger
}

type Option = func(n *Notifier)

// WithLogger configures the logger to use within the notifier.
func WithLogger(l *slog.Logger) Option {
	return func(n *Notifier) { n.logger = l }
}

// New parses a webhook url of the form https://discord.com/api/webhooks/{id}/{token}.
func New(webhookURL string, opts ...Option) (*Notifier, error) {
	id, token, err := ParseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	// webhooks authenticate with their token, the session needs none
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	n := &Notifier{
		id:      id,
		token:   token,
		session: session,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// ParseWebhookURL extracts the webhook id and token.
func ParseWebhookURL(raw string) (id, token string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidWebhook, err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("%w: %q", ErrInvalidWebhook, raw)
}

// Notify posts a summary when the run left something for a human to look at. Clean runs post
// nothing.
func (n *Notifier) Notify(ctx context.Context, rep domain.Report) error {
	embed := Embed(rep)
	if embed == nil {
		n.logger.Debug("nothing to notify")
		return nil
	}
	_, err := n.session.WebhookExecute(n.id, n.token, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord webhook: %w", err)
	}
	n.logger.Info("posted run summary to discord", "unmatched", len(rep.Unmatched), "ambiguous", len(rep.Ambiguous))
	return nil
}

// Embed builds the message for a run, or nil when there is nothing to report.
func Embed(rep domain.Report) *discordgo.MessageEmbed {
	aborted := rep.Aborted()
	if len(aborted) == 0 && len(rep.Unmatched) == 0 && len(rep.Ambiguous) == 0 {
		return nil
	}

	var b strings.Builder
	if len(rep.Unmatched) > 0 {
		b.WriteString("**Couldn't find weekend in DB**\n")
		for _, u := range rep.Unmatched {
			fmt.Fprintf(&b, "- %s %s (Saturday %s)\n", u.Series, u.Event, u.Saturday)
		}
	}
	if len(rep.Ambiguous) > 0 {
		b.WriteString("**Several races on the same weekend**\n")
		for _, a := range rep.Ambiguous {
			fmt.Fprintf(&b, "- %s %s (Saturday %s), races %v\n", a.Series, a.Event, a.Saturday, a.Candidates)
		}
	}
	if len(aborted) > 0 {
		b.WriteString("**Skipped events**\n")
		for _, ev := range aborted {
			fmt.Fprintf(&b, "- %s: %v\n", ev.Slug, ev.Err)
		}
	}

	description := b.String()
	if len(description) > maxDescription {
		description = description[:maxDescription-3] + "..."
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("F1 timetable %d", rep.Year),
		Description: description,
		Color:       0xCF040E,
	}
}
