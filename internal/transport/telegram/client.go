package telegram

import (
	"context"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/reshetovitsme/posbon/internal/platform"
	"github.com/reshetovitsme/posbon/internal/shared/errors"
	"github.com/samber/oops"
)

// api is the part of *bot.Bot the client calls
type api interface {
	DeleteMessage(ctx context.Context, params *bot.DeleteMessageParams) (bool, error)
	RestrictChatMember(ctx context.Context, params *bot.RestrictChatMemberParams) (bool, error)
	BanChatMember(ctx context.Context, params *bot.BanChatMemberParams) (bool, error)
	UnbanChatMember(ctx context.Context, params *bot.UnbanChatMemberParams) (bool, error)
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	GetChatMember(ctx context.Context, params *bot.GetChatMemberParams) (*models.ChatMember, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

// Client implements platform.Client on top of the Telegram Bot API
type Client struct {
	mu  sync.RWMutex
	api api
}

func NewClient() *Client {
	return &Client{}
}

// SetBot sets the Telegram bot instance. The bot is created after the
// handlers it dispatches to, so the client is wired in two steps.
func (c *Client) SetBot(b *bot.Bot) {
	c.setAPI(b)
}

func (c *Client) setAPI(a api) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.api = a
}

func (c *Client) bot() (api, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.api == nil {
		return nil, errors.ErrBotNotInitialized
	}
	return c.api, nil
}

func (c *Client) DeleteMessage(ctx context.Context, groupID int64, messageID int) error {
	b, err := c.bot()
	if err != nil {
		return err
	}
	ok, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: groupID, MessageID: messageID})
	return result(ok, err, oops.With("group_id", groupID, "message_id", messageID, "method", "deleteMessage"))
}

func (c *Client) RestrictMember(ctx context.Context, groupID, userID int64, perms platform.Permissions, until time.Time) error {
	b, err := c.bot()
	if err != nil {
		return err
	}
	ok, err := b.RestrictChatMember(ctx, &bot.RestrictChatMemberParams{
		ChatID:      groupID,
		UserID:      userID,
		Permissions: toChatPermissions(perms),
		UntilDate:   untilDate(until),
	})
	return result(ok, err, oops.With("group_id", groupID, "user_id", userID, "method", "restrictChatMember"))
}

func (c *Client) BanMember(ctx context.Context, groupID, userID int64) error {
	b, err := c.bot()
	if err != nil {
		return err
	}
	ok, err := b.BanChatMember(ctx, &bot.BanChatMemberParams{ChatID: groupID, UserID: userID})
	return result(ok, err, oops.With("group_id", groupID, "user_id", userID, "method", "banChatMember"))
}

func (c *Client) UnbanMember(ctx context.Context, groupID, userID int64) error {
	b, err := c.bot()
	if err != nil {
		return err
	}
	ok, err := b.UnbanChatMember(ctx, &bot.UnbanChatMemberParams{ChatID: groupID, UserID: userID, OnlyIfBanned: true})
	return result(ok, err, oops.With("group_id", groupID, "user_id", userID, "method", "unbanChatMember"))
}

func (c *Client) SendMessage(ctx context.Context, groupID int64, text string, button *platform.Button) (int, error) {
	b, err := c.bot()
	if err != nil {
		return 0, err
	}
	params := &bot.SendMessageParams{
		ChatID:    groupID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if button != nil {
		params.ReplyMarkup = &models.InlineKeyboardMarkup{
			InlineKeyboard: [][]models.InlineKeyboardButton{
				{{Text: button.Text, CallbackData: button.Data}},
			},
		}
	}

	msg, err := b.SendMessage(ctx, params)
	if err != nil {
		return 0, oops.With("group_id", groupID, "method", "sendMessage").Wrap(err)
	}
	if msg == nil {
		return 0, oops.With("group_id", groupID, "method", "sendMessage").Wrap(errors.ErrPlatformRejected)
	}
	return msg.ID, nil
}

func (c *Client) GetMember(ctx context.Context, groupID, userID int64) (platform.Member, error) {
	b, err := c.bot()
	if err != nil {
		return platform.Member{}, err
	}
	m, err := b.GetChatMember(ctx, &bot.GetChatMemberParams{ChatID: groupID, UserID: userID})
	if err != nil {
		return platform.Member{}, oops.With("group_id", groupID, "user_id", userID, "method", "getChatMember").Wrap(err)
	}
	if m == nil {
		return platform.Member{}, oops.With("group_id", groupID, "user_id", userID, "method", "getChatMember").Wrap(errors.ErrPlatformRejected)
	}
	return toMember(userID, m)
}

func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error {
	if callbackID == "" {
		return nil
	}
	b, err := c.bot()
	if err != nil {
		return err
	}
	ok, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       alert,
	})
	return result(ok, err, oops.With("callback_id", callbackID, "method", "answerCallbackQuery"))
}

func result(ok bool, err error, b oops.OopsErrorBuilder) error {
	if err != nil {
		return b.Wrap(err)
	}
	if !ok {
		return b.Wrap(errors.ErrPlatformRejected)
	}
	return nil
}

func toChatPermissions(p platform.Permissions) *models.ChatPermissions {
	return &models.ChatPermissions{
		CanSendMessages:       p.CanSendMessages,
		CanSendAudios:         p.CanSendMedia,
		CanSendDocuments:      p.CanSendMedia,
		CanSendPhotos:         p.CanSendMedia,
		CanSendVideos:         p.CanSendMedia,
		CanSendVideoNotes:     p.CanSendMedia,
		CanSendVoiceNotes:     p.CanSendMedia,
		CanSendPolls:          p.CanSendPolls,
		CanSendOtherMessages:  p.CanSendOther,
		CanAddWebPagePreviews: p.CanAddWebPagePreviews,
		CanInviteUsers:        p.CanInviteUsers,
	}
}

// untilDate converts a deadline to the API form, where 0 means forever
func untilDate(until time.Time) int {
	if until.IsZero() {
		return 0
	}
	return int(until.Unix())
}

func toMember(userID int64, m *models.ChatMember) (platform.Member, error) {
	status, err := platform.ParseMemberStatus(string(m.Type))
	if err != nil {
		return platform.Member{}, oops.With("user_id", userID, "status", m.Type).Wrap(err)
	}

	member := platform.Member{UserID: userID, Status: status, CanSendMessages: true}
	switch status {
	case platform.MemberStatusRestricted:
		member.CanSendMessages = m.Restricted != nil && m.Restricted.CanSendMessages
	case platform.MemberStatusLeft, platform.MemberStatusKicked:
		member.CanSendMessages = false
	}
	return member, nil
}
