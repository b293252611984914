package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/octobees/webdone/internal/campaign"
	"github.com/octobees/webdone/internal/entity"
	"github.com/octobees/webdone/internal/notify"
)

const operatorID int64 = 99

type fakeSender struct {
	sent []string
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m.Text)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) last() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

type fakeGen struct {
	meta      entity.SiteMeta
	err       error
	gotLead   entity.Lead
	enriched  []string
	enrichErr error
}

func (f *fakeGen) Generate(ctx context.Context, lead entity.Lead) (entity.SiteMeta, string, error) {
	f.gotLead = lead
	if f.err != nil {
		return entity.SiteMeta{}, "", f.err
	}
	return f.meta, "<html></html>", nil
}

func (f *fakeGen) EnrichWithLinks(ctx context.Context, siteID, extraInfo string) (string, error) {
	f.enriched = append(f.enriched, siteID+"|"+extraInfo)
	return "<html></html>", f.enrichErr
}

type fakeVerifier struct {
	sendErr  error
	accepted string
	sentTo   []string
}

func (f *fakeVerifier) SendCode(email string) (string, error) {
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.sentTo = append(f.sentTo, email)
	return "123456", nil
}

func (f *fakeVerifier) CheckCode(email, code string) bool {
	return code == f.accepted
}

type fakeCampaigns struct {
	err      error
	gotQuery string
	gotLoc   string
	gotLimit int
}

func (f *fakeCampaigns) Start(ctx context.Context, query, location string, limit int, report func(string)) (*campaign.Campaign, error) {
	f.gotQuery, f.gotLoc, f.gotLimit = query, location, limit
	if f.err != nil {
		return nil, f.err
	}
	return &campaign.Campaign{ID: "CAMP0001"}, nil
}

func newTestBot() (*Bot, *fakeSender, *fakeGen, *fakeVerifier, *fakeCampaigns) {
	sender := &fakeSender{}
	gen := &fakeGen{meta: entity.SiteMeta{ID: "AB12CD34", BizName: "Trattoria Bella", Filename: "bella_AB12CD34.html"}}
	verifier := &fakeVerifier{accepted: "123456"}
	campaigns := &fakeCampaigns{}
	b := New(sender, gen, verifier, campaigns, nil, "https://webdone.example/", operatorID)
	return b, sender, gen, verifier, campaigns
}

func text(chatID int64, body string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: chatID},
		Text: body,
	}}
}

func command(chatID int64, body string) tgbotapi.Update {
	cmdLen := len(body)
	if i := strings.IndexByte(body, ' '); i >= 0 {
		cmdLen = i
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: chatID},
		Text:     body,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
	}}
}

func photo(chatID int64) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:  &tgbotapi.Chat{ID: chatID},
		Photo: []tgbotapi.PhotoSize{{FileID: "f1"}},
	}}
}

func TestFullFlowWithVerification(t *testing.T) {
	b, sender, gen, verifier, _ := newTestBot()
	ctx := context.Background()
	const chat int64 = 1

	b.HandleUpdate(ctx, command(chat, "/start"))
	b.HandleUpdate(ctx, text(chat, "Trattoria Bella"))
	b.HandleUpdate(ctx, text(chat, "Restaurant Italian"))
	b.HandleUpdate(ctx, photo(chat))
	b.HandleUpdate(ctx, text(chat, "facebook.com/bella"))

	if got := sender.last(); !strings.Contains(got, "email") {
		t.Fatalf("expected email prompt, got %q", got)
	}
	b.HandleUpdate(ctx, text(chat, "ana@example.com"))
	if len(verifier.sentTo) != 1 || verifier.sentTo[0] != "ana@example.com" {
		t.Fatalf("sentTo = %v", verifier.sentTo)
	}

	b.HandleUpdate(ctx, text(chat, "000000"))
	if got := sender.last(); !strings.Contains(got, "Codul nu e bun") {
		t.Fatalf("wrong code not rejected: %q", got)
	}

	b.HandleUpdate(ctx, text(chat, "123456"))
	if gen.gotLead.Name != "Trattoria Bella" || gen.gotLead.Category != "Restaurant Italian" {
		t.Fatalf("lead = %+v", gen.gotLead)
	}
	if gen.gotLead.ExtraInfo != "facebook.com/bella" {
		t.Fatalf("ExtraInfo = %q", gen.gotLead.ExtraInfo)
	}
	out := sender.last()
	if !strings.Contains(out, "https://webdone.example/demos/bella_AB12CD34.html") || !strings.Contains(out, "AB12CD34") {
		t.Fatalf("success message = %q", out)
	}

	sess, _ := b.sessions.Get(chat)
	if sess.State != StateIdle || sess.LastSiteID != "AB12CD34" {
		t.Fatalf("session after success = %+v", sess)
	}
}

func TestOperatorSkipsVerification(t *testing.T) {
	b, _, gen, verifier, _ := newTestBot()
	ctx := context.Background()

	b.HandleUpdate(ctx, command(operatorID, "/start"))
	b.HandleUpdate(ctx, text(operatorID, "Service Rapid"))
	b.HandleUpdate(ctx, text(operatorID, "Service Auto"))
	b.HandleUpdate(ctx, command(operatorID, "/skip"))
	b.HandleUpdate(ctx, command(operatorID, "/skip"))

	if len(verifier.sentTo) != 0 {
		t.Fatalf("operator asked for verification: %v", verifier.sentTo)
	}
	if gen.gotLead.Name != "Service Rapid" {
		t.Fatalf("lead = %+v", gen.gotLead)
	}
}

func TestGenerationNotifiesOperator(t *testing.T) {
	userSender := &fakeSender{}
	opSender := &fakeSender{}
	gen := &fakeGen{meta: entity.SiteMeta{ID: "AB12CD34", BizName: "Service Rapid", Filename: "service_rapid_AB12CD34.html"}}
	b := New(userSender, gen, &fakeVerifier{accepted: "123456"}, &fakeCampaigns{},
		notify.NewTelegram(opSender, operatorID), "https://webdone.example", operatorID)
	ctx := context.Background()

	b.HandleUpdate(ctx, command(operatorID, "/start"))
	b.HandleUpdate(ctx, text(operatorID, "Service Rapid"))
	b.HandleUpdate(ctx, text(operatorID, "Service Auto"))
	b.HandleUpdate(ctx, command(operatorID, "/skip"))
	b.HandleUpdate(ctx, command(operatorID, "/skip"))

	joined := strings.Join(opSender.sent, "\n")
	if !strings.Contains(joined, "Site nou generat") || !strings.Contains(joined, "AB12CD34") {
		t.Fatalf("operator not notified of new site:\n%s", joined)
	}
	if !strings.Contains(joined, "https://webdone.example/demos/service_rapid_AB12CD34.html") {
		t.Fatalf("operator message missing demo link:\n%s", joined)
	}
}

func TestNameStateIgnoresPhotos(t *testing.T) {
	b, sender, _, _, _ := newTestBot()
	ctx := context.Background()

	b.HandleUpdate(ctx, command(1, "/start"))
	b.HandleUpdate(ctx, photo(1))

	if got := sender.last(); !strings.Contains(got, "numele afacerii in text") {
		t.Fatalf("expected re-prompt, got %q", got)
	}
	sess, _ := b.sessions.Get(1)
	if sess.State != StateName || sess.BizName != "" {
		t.Fatalf("session advanced on photo: %+v", sess)
	}

	b.HandleUpdate(ctx, text(1, "Bella"))
	b.HandleUpdate(ctx, photo(1))
	sess, _ = b.sessions.Get(1)
	if sess.State != StateCategory || sess.Category != "" {
		t.Fatalf("category state advanced on photo: %+v", sess)
	}
}

func TestMediaStateRejectsText(t *testing.T) {
	b, sender, _, _, _ := newTestBot()
	ctx := context.Background()

	b.HandleUpdate(ctx, command(1, "/start"))
	b.HandleUpdate(ctx, text(1, "Bella"))
	b.HandleUpdate(ctx, text(1, "Restaurant"))
	b.HandleUpdate(ctx, text(1, "nu am poza"))

	if got := sender.last(); !strings.Contains(got, "/skip") {
		t.Fatalf("expected re-prompt, got %q", got)
	}
	sess, _ := b.sessions.Get(1)
	if sess.State != StateMedia {
		t.Fatalf("State = %q, want media", sess.State)
	}
}

func TestCancelClearsSession(t *testing.T) {
	b, _, _, _, _ := newTestBot()
	ctx := context.Background()

	b.HandleUpdate(ctx, command(1, "/start"))
	b.HandleUpdate(ctx, text(1, "Bella"))
	b.HandleUpdate(ctx, command(1, "/cancel"))

	if _, ok := b.sessions.Get(1); ok {
		t.Fatal("session survived /cancel")
	}
}

func TestInvalidEmailStaysInState(t *testing.T) {
	b, sender, _, verifier, _ := newTestBot()
	verifier.sendErr = errors.New("invalid email address")
	ctx := context.Background()

	b.HandleUpdate(ctx, command(1, "/start"))
	b.HandleUpdate(ctx, text(1, "Bella"))
	b.HandleUpdate(ctx, text(1, "Restaurant"))
	b.HandleUpdate(ctx, command(1, "/skip"))
	b.HandleUpdate(ctx, command(1, "/skip"))
	b.HandleUpdate(ctx, text(1, "not-an-email"))

	if got := sender.last(); !strings.Contains(got, "nu pare valida") {
		t.Fatalf("expected invalid-email message, got %q", got)
	}
	sess, _ := b.sessions.Get(1)
	if sess.State != StateVerifyEmail {
		t.Fatalf("State = %q, want verify_email", sess.State)
	}
}

func TestGenerationFailureKeepsSession(t *testing.T) {
	b, sender, gen, _, _ := newTestBot()
	gen.err = errors.New("model unavailable")
	ctx := context.Background()

	b.HandleUpdate(ctx, command(operatorID, "/start"))
	b.HandleUpdate(ctx, text(operatorID, "Bella"))
	b.HandleUpdate(ctx, text(operatorID, "Restaurant"))
	b.HandleUpdate(ctx, command(operatorID, "/skip"))
	b.HandleUpdate(ctx, command(operatorID, "/skip"))

	if got := sender.last(); !strings.Contains(got, "eroare la generare") {
		t.Fatalf("expected failure message, got %q", got)
	}
	if sess, ok := b.sessions.Get(operatorID); !ok || sess.BizName != "Bella" {
		t.Fatalf("session not retained for retry: %+v ok=%v", sess, ok)
	}
}

func TestEditFlow(t *testing.T) {
	b, sender, gen, _, _ := newTestBot()
	ctx := context.Background()

	b.HandleUpdate(ctx, command(1, "/edit"))
	if got := sender.last(); !strings.Contains(got, "Nu ai un site generat recent") {
		t.Fatalf("expected no-site message, got %q", got)
	}

	b.sessions.Finish(1, "AB12CD34")
	b.HandleUpdate(ctx, command(1, "/edit"))
	b.HandleUpdate(ctx, text(1, "instagram.com/bella"))

	if len(gen.enriched) != 1 || gen.enriched[0] != "AB12CD34|instagram.com/bella" {
		t.Fatalf("enriched = %v", gen.enriched)
	}
	if got := sender.last(); !strings.Contains(got, "Am actualizat site-ul") {
		t.Fatalf("expected edit confirmation, got %q", got)
	}
}

func TestCampaignCommand(t *testing.T) {
	b, sender, _, _, campaigns := newTestBot()
	ctx := context.Background()

	b.HandleUpdate(ctx, command(1, "/campaign service auto, Cluj"))
	if got := sender.last(); !strings.Contains(got, "doar pentru operator") {
		t.Fatalf("non-operator not rejected: %q", got)
	}

	b.HandleUpdate(ctx, command(operatorID, "/campaign service auto Cluj"))
	if got := sender.last(); !strings.Contains(got, "Format:") {
		t.Fatalf("missing comma not rejected: %q", got)
	}

	b.HandleUpdate(ctx, command(operatorID, "/campaign service auto, Cluj"))
	if campaigns.gotQuery != "service auto" || campaigns.gotLoc != "Cluj" || campaigns.gotLimit != defaultCampaignLimit {
		t.Fatalf("campaign args = (%q, %q, %d)", campaigns.gotQuery, campaigns.gotLoc, campaigns.gotLimit)
	}
	if got := sender.last(); !strings.Contains(got, "CAMP0001") {
		t.Fatalf("expected start confirmation, got %q", got)
	}

	campaigns.err = campaign.ErrBusy
	b.HandleUpdate(ctx, command(operatorID, "/campaign frizerie, Iasi"))
	if got := sender.last(); !strings.Contains(got, "Nu pot porni campania") {
		t.Fatalf("busy not reported: %q", got)
	}
}

func TestSplitCampaignArgs(t *testing.T) {
	cases := []struct {
		in       string
		query    string
		location string
		ok       bool
	}{
		{"service auto, Cluj", "service auto", "Cluj", true},
		{`"frizerie, Iasi"`, "frizerie", "Iasi", true},
		{"service auto Cluj", "", "", false},
		{", Cluj", "", "", false},
		{"service auto,", "", "", false},
		{"", "", "", false},
	}
	for _, tc := range cases {
		q, l, ok := splitCampaignArgs(tc.in)
		if q != tc.query || l != tc.location || ok != tc.ok {
			t.Errorf("splitCampaignArgs(%q) = (%q, %q, %v)", tc.in, q, l, ok)
		}
	}
}
