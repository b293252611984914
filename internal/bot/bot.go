package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/octobees/webdone/internal/campaign"
	"github.com/octobees/webdone/internal/entity"
	"github.com/octobees/webdone/internal/notify"
)

// Sender sends messages back to Telegram. *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// SiteGenerator is the slice of the page generator the bot needs.
type SiteGenerator interface {
	Generate(ctx context.Context, lead entity.Lead) (entity.SiteMeta, string, error)
	EnrichWithLinks(ctx context.Context, siteID, extraInfo string) (string, error)
}

// Verifier issues and checks email verification codes.
type Verifier interface {
	SendCode(email string) (string, error)
	CheckCode(email, code string) bool
}

// CampaignStarter launches outreach campaigns.
type CampaignStarter interface {
	Start(ctx context.Context, query, location string, limit int, report func(string)) (*campaign.Campaign, error)
}

const defaultCampaignLimit = 5

// Bot drives the Telegram conversation that collects business details
// and hands them to the page generator.
type Bot struct {
	sender         Sender
	sessions       *SessionStore
	generator      SiteGenerator
	verifier       Verifier
	campaigns      CampaignStarter
	notifier       *notify.Telegram
	publicURL      string
	operatorChatID int64
}

// New wires the bot. notifier may be nil when no operator channel is
// configured.
func New(sender Sender, generator SiteGenerator, verifier Verifier, campaigns CampaignStarter, notifier *notify.Telegram, publicURL string, operatorChatID int64) *Bot {
	return &Bot{
		sender:         sender,
		sessions:       NewSessionStore(),
		generator:      generator,
		verifier:       verifier,
		campaigns:      campaigns,
		notifier:       notifier,
		publicURL:      strings.TrimRight(publicURL, "/"),
		operatorChatID: operatorChatID,
	}
}

// Run consumes the update channel until it closes or ctx is cancelled.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate processes a single incoming update.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		b.handleCommand(ctx, chatID, msg)
		return
	}

	sess, ok := b.sessions.Get(chatID)
	if !ok || sess.State == StateIdle {
		b.send(chatID, "Scrie /start ca sa incepem un site nou.")
		return
	}

	// Photos and stickers arrive with empty text; the answer states
	// only advance on an actual answer.
	answer := strings.TrimSpace(msg.Text)

	switch sess.State {
	case StateName:
		if answer == "" {
			b.send(chatID, "Scrie-mi numele afacerii in text, te rog.")
			return
		}
		b.sessions.Update(chatID, func(s *Session) {
			s.BizName = answer
			s.State = StateCategory
		})
		b.send(chatID, fmt.Sprintf("Super, %s!\n\nCare este nisa sau categoria afacerii? (ex: Restaurant Italian, Service Auto, Salon de Infrumusetare)", answer))
	case StateCategory:
		if answer == "" {
			b.send(chatID, "Scrie-mi categoria in text, te rog.")
			return
		}
		b.sessions.Update(chatID, func(s *Session) {
			s.Category = answer
			s.State = StateMedia
		})
		b.sendWithKeyboard(chatID, "Excelent!\n\nTrimite-mi acum un logo sau o poza reprezentativa (sau scrie /skip daca vrei sa folosim poze AI).")
	case StateMedia:
		if len(msg.Photo) == 0 && msg.Document == nil {
			b.send(chatID, "Astept o poza sau un document. Daca nu ai, scrie /skip.")
			return
		}
		b.sessions.Update(chatID, func(s *Session) { s.State = StateSocial })
		b.send(chatID, "Am primit media! Va arata super pe site.\n\nUltimul pas: ai link-uri de Facebook, Instagram sau alte info de inclus? Scrie-le aici sau trimite /skip.")
	case StateSocial:
		if answer == "" {
			b.send(chatID, "Scrie-mi link-urile in text, sau trimite /skip.")
			return
		}
		b.sessions.Update(chatID, func(s *Session) { s.ExtraInfo = answer })
		b.advancePastSocial(ctx, chatID)
	case StateVerifyEmail:
		if _, err := b.verifier.SendCode(msg.Text); err != nil {
			b.send(chatID, "Adresa de email nu pare valida. Mai incearca o data.")
			return
		}
		b.sessions.Update(chatID, func(s *Session) {
			s.Email = msg.Text
			s.State = StateVerifyCode
		})
		b.send(chatID, "Ti-am trimis un cod de 6 cifre pe email. Scrie-l aici.")
	case StateVerifyCode:
		if !b.verifier.CheckCode(sess.Email, strings.TrimSpace(msg.Text)) {
			b.send(chatID, "Codul nu e bun sau a expirat. Mai incearca, sau scrie /cancel.")
			return
		}
		b.generate(ctx, chatID)
	case StateEditInfo:
		b.edit(ctx, chatID, sess.LastSiteID, msg.Text)
	}
}

func (b *Bot) handleCommand(ctx context.Context, chatID int64, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start", "help":
		b.sessions.Begin(chatID)
		b.send(chatID, "Salut! Sunt asistentul tau WEB? DONE!\n\nVrei un site profesionist generat instant de AI? Hai sa incepem!\n\nCum se numeste afacerea ta?")
	case "cancel":
		b.sessions.Clear(chatID)
		b.send(chatID, "Am anulat tot. Scrie /start cand vrei sa reluam.")
	case "skip":
		b.handleSkip(ctx, chatID)
	case "edit":
		sess, _ := b.sessions.Get(chatID)
		if sess.LastSiteID == "" {
			b.send(chatID, "Nu ai un site generat recent. Fa unul cu /start, apoi revino cu /edit.")
			return
		}
		b.sessions.Update(chatID, func(s *Session) { s.State = StateEditInfo })
		b.send(chatID, "Trimite-mi link-urile sau informatiile noi si le adaug pe site.")
	case "campaign":
		b.handleCampaign(ctx, chatID, msg.CommandArguments())
	default:
		b.send(chatID, "Nu cunosc comanda asta. Incearca /start sau /help.")
	}
}

func (b *Bot) handleSkip(ctx context.Context, chatID int64) {
	sess, ok := b.sessions.Get(chatID)
	if !ok {
		return
	}
	switch sess.State {
	case StateMedia:
		b.sessions.Update(chatID, func(s *Session) { s.State = StateSocial })
		b.send(chatID, "Nicio problema, folosim imagini premium AI!\n\nAi link-uri de social media (FB/Insta) sau info extra? Scrie-le aici sau /skip.")
	case StateSocial:
		b.advancePastSocial(ctx, chatID)
	}
}

// advancePastSocial moves to email verification for regular users and
// straight to generation for the operator.
func (b *Bot) advancePastSocial(ctx context.Context, chatID int64) {
	if chatID == b.operatorChatID {
		b.generate(ctx, chatID)
		return
	}
	b.sessions.Update(chatID, func(s *Session) { s.State = StateVerifyEmail })
	b.send(chatID, "Ca sa-ti trimit site-ul, am nevoie de adresa ta de email. Care e?")
}

func (b *Bot) generate(ctx context.Context, chatID int64) {
	sess, ok := b.sessions.Get(chatID)
	if !ok {
		return
	}
	b.send(chatID, "BAM! Pornim motoarele AI pentru tine.\n\nConstruim design-ul, scriem textele si optimizam totul. Te anunt imediat ce e gata!")

	lead := entity.Lead{
		Name:      sess.BizName,
		Category:  sess.Category,
		Address:   "Din Telegram",
		Phone:     "Contact rapid",
		ExtraInfo: sess.ExtraInfo,
	}
	if lead.Name == "" {
		lead.Name = "Afacere"
	}
	if lead.Category == "" {
		lead.Category = "General"
	}

	meta, _, err := b.generator.Generate(ctx, lead)
	if err != nil {
		log.Printf("bot: generation failed chat=%d err=%v", chatID, err)
		b.send(chatID, fmt.Sprintf("Oops! A aparut o eroare la generare: %v\n\nIncearca din nou.", err))
		return
	}

	b.sessions.Finish(chatID, meta.ID)
	url := fmt.Sprintf("%s/demos/%s", b.publicURL, meta.Filename)
	b.notifier.SiteCreated(meta.BizName, meta.ID, url)
	b.send(chatID, fmt.Sprintf("Gata! Site-ul tau e live.\n\nLink: %s\nCod unic: %s\n\nN-ai site? Ai acum.", url, meta.ID))
}

func (b *Bot) edit(ctx context.Context, chatID int64, siteID, extraInfo string) {
	if _, err := b.generator.EnrichWithLinks(ctx, siteID, extraInfo); err != nil {
		log.Printf("bot: enrich failed chat=%d site=%s err=%v", chatID, siteID, err)
		b.send(chatID, "Nu am gasit site-ul sau actualizarea a esuat. Incearca din nou sau scrie /cancel.")
		return
	}
	b.sessions.Update(chatID, func(s *Session) { s.State = StateIdle })
	b.send(chatID, "Am actualizat site-ul cu noile informatii. Acelasi link, acelasi cod.")
}

func (b *Bot) handleCampaign(ctx context.Context, chatID int64, args string) {
	if chatID != b.operatorChatID {
		b.send(chatID, "Comanda asta e doar pentru operator.")
		return
	}
	query, location, ok := splitCampaignArgs(args)
	if !ok {
		b.send(chatID, "Format: /campaign categorie, locatie (ex: /campaign service auto, Cluj)")
		return
	}
	report := func(text string) { b.send(chatID, text) }
	c, err := b.campaigns.Start(ctx, query, location, defaultCampaignLimit, report)
	if err != nil {
		b.send(chatID, fmt.Sprintf("Nu pot porni campania: %v", err))
		return
	}
	b.send(chatID, fmt.Sprintf("Campania %s a pornit pentru %q in %s.", c.ID, query, location))
}

// splitCampaignArgs parses "category, location" and requires the comma.
func splitCampaignArgs(args string) (query, location string, ok bool) {
	args = strings.Trim(strings.TrimSpace(args), `"`)
	query, location, found := strings.Cut(args, ",")
	query = strings.TrimSpace(query)
	location = strings.TrimSpace(location)
	if !found || query == "" || location == "" {
		return "", "", false
	}
	return query, location, true
}

func (b *Bot) send(chatID int64, text string) {
	if _, err := b.sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("bot: send failed chat=%d err=%v", chatID, err)
	}
}

func (b *Bot) sendWithKeyboard(chatID int64, text string) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = tgbotapi.NewOneTimeReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton("/skip")),
	)
	if _, err := b.sender.Send(m); err != nil {
		log.Printf("bot: send failed chat=%d err=%v", chatID, err)
	}
}
