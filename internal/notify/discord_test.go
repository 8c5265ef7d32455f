package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/bcdxn/f1timetable/internal/domain"
	"github.com/bwmarrin/discordgo"
	"github.com/golang-sql/civil"
)

type fakeExecutor struct {
	id, token string
	params    *discordgo.WebhookParams
	err       error
}

func (f *fakeExecutor) WebhookExecute(webhookID, token string, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.id, f.token, f.params = webhookID, token, data
	return nil, f.err
}

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestNotifier(t *testing.T, exec executor) *Notifier {
	n, err := New("https://discord.com/api/webhooks/1234/s3cr3t", WithLogger(testLogger(t)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n.session = exec
	return n
}

func problemReport() domain.Report {
	saturday := civil.Date{Year: 2021, Month: time.March, Day: 27}
	return domain.Report{
		Year: 2021,
		Events: []domain.EventReport{
			{Slug: "Bahrain", Updated: []string{"f1"}},
			{Slug: "Portugal", Err: domain.ErrUnresolvedLocation},
		},
		Unmatched: []domain.Unmatched{{Series: "f2", Event: "Bahrain", Saturday: saturday}},
	}
}

func TestParseWebhookURL(t *testing.T) {
	id, token, err := ParseWebhookURL("https://discord.com/api/webhooks/1234/s3cr3t")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "1234" || token != "s3cr3t" {
		t.Errorf("expected id '1234' and token 's3cr3t' but found '%s' and '%s'", id, token)
	}

	for _, raw := range []string{"https://discord.com/api/webhooks/1234", "https://example.com/", "::"} {
		if _, _, err := ParseWebhookURL(raw); !errors.Is(err, ErrInvalidWebhook) {
			t.Errorf("expected ErrInvalidWebhook for '%s' but found %v", raw, err)
		}
	}
}

func TestNotify(t *testing.T) {
	exec := &fakeExecutor{}
	if err := newTestNotifier(t, exec).Notify(context.Background(), problemReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exec.id != "1234" || exec.token != "s3cr3t" {
		t.Errorf("expected webhook 1234/s3cr3t but found %s/%s", exec.id, exec.token)
	}
	if exec.params == nil || len(exec.params.Embeds) != 1 {
		t.Fatalf("expected one embed but found %+v", exec.params)
	}
	desc := exec.params.Embeds[0].Description
	for _, want := range []string{"- f2 Bahrain (Saturday 2021-03-27)", "- Portugal: "} {
		if !strings.Contains(desc, want) {
			t.Errorf("expected description to contain '%s' but found\n%s", want, desc)
		}
	}
}

func TestNotifyCleanRun(t *testing.T) {
	exec := &fakeExecutor{}
	rep := domain.Report{Year: 2021, Events: []domain.EventReport{{Slug: "Bahrain"}}}
	if err := newTestNotifier(t, exec).Notify(context.Background(), rep); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exec.params != nil {
		t.Errorf("expected nothing to be posted but found %+v", exec.params)
	}
}

func TestNotifyError(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("429 too many requests")}
	if err := newTestNotifier(t, exec).Notify(context.Background(), problemReport()); err == nil {
		t.Errorf("expected an error but found none")
	}
}

func TestEmbedTruncates(t *testing.T) {
	rep := domain.Report{Year: 2021}
	for i := 0; i < 200; i++ {
		rep.Unmatched = append(rep.Unmatched, domain.Unmatched{Series: "wseries", Event: strings.Repeat("x", 40)})
	}
	if d := Embed(rep).Description; len(d) != maxDescription || !strings.HasSuffix(d, "...") {
		t.Errorf("expected a truncated description of %d characters but found %d", maxDescription, len(d))
	}
}
