package telegram

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	auditDomain "github.com/reshetovitsme/posbon/internal/modules/audit/domain"
	groupDomain "github.com/reshetovitsme/posbon/internal/modules/group/domain"
	"github.com/reshetovitsme/posbon/internal/modules/moderation/domain"
	"github.com/reshetovitsme/posbon/internal/modules/rules"
	"github.com/reshetovitsme/posbon/internal/platform"
	"github.com/reshetovitsme/posbon/internal/shared/config"
	"github.com/samber/lo"
)

type EventHandler interface {
	Handle(ctx context.Context, ev domain.Event)
}

type StatsProvider interface {
	Stats(ctx context.Context) (auditDomain.Stats, error)
}

type UserRegistry interface {
	RememberUser(ctx context.Context, u groupDomain.User) error
}

type Localizer interface {
	Render(lang, key string, params map[string]any) string
}

// groupCommands are the commands turned into CommandEvent, everything else
// starting with a slash is moderated as plain text
var groupCommands = []string{"ban", "unban", "mute", "unmute", "warn", "warns", "resetwarns", "settings"}

// Handler handles Telegram bot interactions
type Handler struct {
	cfg       *config.Config
	events    EventHandler
	stats     StatsProvider
	users     UserRegistry
	localizer Localizer
}

// New creates a new Telegram handler
func New(cfg *config.Config, events EventHandler, stats StatsProvider, users UserRegistry, localizer Localizer) *Handler {
	return &Handler{
		cfg:       cfg,
		events:    events,
		stats:     stats,
		users:     users,
		localizer: localizer,
	}
}

// RegisterCommands registers the private chat commands
func (h *Handler) RegisterCommands(b *bot.Bot) {
	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypePrefix, h.handleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/stats", bot.MatchTypePrefix, h.handleStats)
}

// HandleUpdate processes incoming updates
func (h *Handler) HandleUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	ev, ok := ToEvent(update)
	if !ok {
		return
	}
	h.events.Handle(ctx, ev)
}

// ToEvent converts a group update into a moderation event. Private chats,
// channels and service messages other than joins are not events.
func ToEvent(update *models.Update) (domain.Event, bool) {
	if update == nil {
		return nil, false
	}

	if cq := update.CallbackQuery; cq != nil {
		msg := cq.Message.Message
		if msg == nil || !isGroup(msg.Chat) {
			return nil, false
		}
		return domain.CallbackEvent{
			GroupID:    msg.Chat.ID,
			MessageID:  msg.ID,
			From:       toUser(cq.From),
			CallbackID: cq.ID,
			Data:       cq.Data,
		}, true
	}

	msg := update.Message
	if msg == nil || !isGroup(msg.Chat) {
		return nil, false
	}

	if len(msg.NewChatMembers) > 0 {
		ev := domain.JoinEvent{
			GroupID:   msg.Chat.ID,
			MessageID: msg.ID,
			Title:     msg.Chat.Title,
			Members:   lo.Map(msg.NewChatMembers, func(u models.User, _ int) platform.User { return toUser(u) }),
		}
		if from := msg.From; from != nil && !lo.ContainsBy(msg.NewChatMembers, func(u models.User) bool { return u.ID == from.ID }) {
			adder := toUser(*from)
			ev.AddedBy = &adder
		}
		return ev, true
	}

	// anonymous admins and channel posts carry no sender to moderate
	if msg.From == nil || msg.SenderChat != nil {
		return nil, false
	}

	base := toMessageEvent(msg)
	if base.Text == nil && base.Media == rules.MediaKindNone && !base.IsForward {
		return nil, false
	}

	if command, args, ok := parseCommand(msg.Text); ok {
		ev := domain.CommandEvent{MessageEvent: base, Command: command, Args: args}
		if reply := msg.ReplyToMessage; reply != nil && reply.From != nil {
			target := toUser(*reply.From)
			ev.Target = &target
		}
		return ev, true
	}
	return base, true
}

func toMessageEvent(msg *models.Message) domain.MessageEvent {
	ev := domain.MessageEvent{
		GroupID:   msg.Chat.ID,
		MessageID: msg.ID,
		Sender:    toUser(*msg.From),
		IsForward: msg.ForwardOrigin != nil,
		Media:     mediaKind(msg),
	}

	entities := msg.Entities
	switch {
	case msg.Text != "":
		text := msg.Text
		ev.Text = &text
	case msg.Caption != "":
		caption := msg.Caption
		ev.Text = &caption
		entities = msg.CaptionEntities
	}
	ev.Entities = lo.Map(entities, func(e models.MessageEntity, _ int) rules.Entity {
		return rules.Entity{Kind: entityKind(e.Type)}
	})
	return ev
}

func entityKind(t models.MessageEntityType) rules.EntityKind {
	kind, err := rules.ParseEntityKind(string(t))
	if err != nil {
		return rules.EntityKindOther
	}
	return kind
}

func mediaKind(msg *models.Message) rules.MediaKind {
	switch {
	case len(msg.Photo) > 0:
		return rules.MediaKindPhoto
	case msg.Video != nil, msg.VideoNote != nil:
		return rules.MediaKindVideo
	case msg.Sticker != nil:
		return rules.MediaKindSticker
	// animations also carry a Document, so they are checked first
	case msg.Animation != nil:
		return rules.MediaKindGif
	case msg.Document != nil, msg.Audio != nil, msg.Voice != nil:
		return rules.MediaKindOther
	}
	return rules.MediaKindNone
}

// parseCommand splits "/mute@posbon_bot 10" into "mute" and "10"
func parseCommand(text string) (command, args string, ok bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	head, rest, _ := strings.Cut(text[1:], " ")
	head, _, _ = strings.Cut(head, "@")
	head = strings.ToLower(head)
	if !lo.Contains(groupCommands, head) {
		return "", "", false
	}
	return head, strings.TrimSpace(rest), true
}

func isGroup(chat models.Chat) bool {
	return chat.Type == models.ChatTypeGroup || chat.Type == models.ChatTypeSupergroup
}

func toUser(u models.User) platform.User {
	return platform.User{
		ID:        u.ID,
		IsBot:     u.IsBot,
		FirstName: u.FirstName,
		Username:  u.Username,
	}
}

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg.Chat.Type != models.ChatTypePrivate {
		h.HandleUpdate(ctx, b, update)
		return
	}

	h.rememberUser(ctx, msg.From)
	h.reply(ctx, b, msg.Chat.ID, h.localizer.Render(senderLanguage(msg), "welcome", nil))
}

func (h *Handler) rememberUser(ctx context.Context, from *models.User) {
	if from == nil {
		return
	}
	user := groupDomain.User{
		ID:       from.ID,
		Username: from.Username,
		FullName: strings.TrimSpace(from.FirstName + " " + from.LastName),
		Language: from.LanguageCode,
	}
	if err := h.users.RememberUser(ctx, user); err != nil {
		slog.Warn("Failed to save user", "user_id", from.ID, "error", err)
	}
}

func (h *Handler) handleStats(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg.Chat.Type != models.ChatTypePrivate {
		h.HandleUpdate(ctx, b, update)
		return
	}

	lang := senderLanguage(msg)
	if msg.From == nil || !h.cfg.IsOwner(msg.From.ID) {
		h.reply(ctx, b, msg.Chat.ID, h.localizer.Render(lang, "error_no_permission", nil))
		return
	}

	stats, err := h.stats.Stats(ctx)
	if err != nil {
		slog.Error("Failed to read stats", "error", err)
		h.reply(ctx, b, msg.Chat.ID, h.localizer.Render(lang, "action_failed", nil))
		return
	}
	h.reply(ctx, b, msg.Chat.ID, h.localizer.Render(lang, "stats", map[string]any{
		"groups": stats.Groups,
		"events": stats.Events,
	}))
}

func (h *Handler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}); err != nil {
		slog.Warn("Failed to send private reply", "chat_id", chatID, "error", err)
	}
}

func senderLanguage(msg *models.Message) string {
	if msg.From == nil {
		return ""
	}
	return msg.From.LanguageCode
}
