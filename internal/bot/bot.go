package bot

import (
	"context"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"kursbot/internal/domain"
	"kursbot/internal/infra"
	"kursbot/internal/infra/storage"
	"kursbot/internal/service"
)

const (
	infoButton     = "Get Info ℹ️"
	settingsButton = "Settings ⚙️"
	togglePrefix   = "toggle:"

	welcomeText     = "Welcome 🚀"
	settingsText    = "Pick the currencies you want reported:"
	unavailableText = "Rates are temporarily unavailable, try again in a minute 🙈"
	somethingWrong  = "Something went wrong, try /start first"
	noDataText      = "no data"
	pollTimeoutSec  = 30
)

// Bot routes Telegram updates to the aggregation engine and the
// preference store. Every update is handled in its own goroutine; all
// failures are recovered at the per-update boundary.
type Bot struct {
	api     *tgbotapi.BotAPI
	storage *storage.Storage
	agg     *service.Aggregation
	log     *slog.Logger
}

// New authorizes against the Telegram API with the given token.
func New(token string, st *storage.Storage, agg *service.Aggregation, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{api: api, storage: st, agg: agg, log: log}, nil
}

// Run polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeoutSec
	updates := b.api.GetUpdatesChan(cfg)

	b.log.Info("Bot polling started", slog.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			infra.GlobalMetrics.RecordError()
			b.log.Error("Update handler panic recovered", slog.Any("panic", r))
		}
	}()

	infra.GlobalMetrics.RecordUpdate()

	switch {
	case update.CallbackQuery != nil:
		b.handleToggle(update.CallbackQuery)
	case update.Message != nil:
		msg := update.Message
		switch {
		case msg.IsCommand() && msg.Command() == "start":
			b.handleStart(msg)
		case msg.Text == infoButton:
			b.handleInfo(ctx, msg)
		case msg.Text == settingsButton:
			b.handleSettings(msg)
		}
	}
}

// handleStart upserts the user and shows the main keyboard. Re-running
// /start never resets an existing user's currency set.
func (b *Bot) handleStart(msg *tgbotapi.Message) {
	user := &domain.User{ID: msg.Chat.ID}
	if msg.From != nil {
		user.FirstName = msg.From.FirstName
		user.LastName = msg.From.LastName
		user.Username = msg.From.UserName
	}

	if _, err := b.storage.UpsertUser(user); err != nil {
		b.log.Error("Upsert user failed", slog.Int64("user_id", user.ID), slog.Any("error", err))
		b.reply(msg.Chat.ID, somethingWrong)
		return
	}

	out := tgbotapi.NewMessage(msg.Chat.ID, welcomeText)
	out.ReplyMarkup = tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(infoButton),
			tgbotapi.NewKeyboardButton(settingsButton),
		),
	)
	b.send(out)
}

// handleInfo renders one block per active currency and sends them as a
// single Markdown message.
func (b *Bot) handleInfo(ctx context.Context, msg *tgbotapi.Message) {
	currencies, err := b.storage.CurrenciesForUser(msg.Chat.ID)
	if err != nil {
		// Should not happen: /start always upserts first
		b.log.Error("Currencies lookup failed", slog.Int64("user_id", msg.Chat.ID), slog.Any("error", err))
		b.reply(msg.Chat.ID, somethingWrong)
		return
	}

	summaries, err := b.agg.Aggregate(ctx, currencies)
	if err != nil {
		b.log.Warn("Aggregation failed", slog.Any("error", err))
		b.reply(msg.Chat.ID, unavailableText)
		return
	}

	builder := service.NewResponseBuilder()
	for i, summary := range summaries {
		if i > 0 {
			builder.AddEmptyLine()
		}
		if summary == nil {
			builder.AddBoldLine(currencies[i].WithFlag() + ":")
			builder.AddLine(noDataText)
			continue
		}
		builder.AddLine(summary.Text)
	}

	out := tgbotapi.NewMessage(msg.Chat.ID, builder.Response())
	out.ParseMode = tgbotapi.ModeMarkdown
	b.send(out)
}

// handleSettings shows the inline toggle keyboard.
func (b *Bot) handleSettings(msg *tgbotapi.Message) {
	currencies, err := b.storage.CurrenciesForUser(msg.Chat.ID)
	if err != nil {
		b.log.Error("Currencies lookup failed", slog.Int64("user_id", msg.Chat.ID), slog.Any("error", err))
		b.reply(msg.Chat.ID, somethingWrong)
		return
	}

	out := tgbotapi.NewMessage(msg.Chat.ID, settingsText)
	out.ReplyMarkup = settingsKeyboard(currencies)
	b.send(out)
}

// handleToggle flips one currency for the user and refreshes the keyboard
// in place.
func (b *Bot) handleToggle(cb *tgbotapi.CallbackQuery) {
	data, ok := strings.CutPrefix(cb.Data, togglePrefix)
	if !ok {
		b.log.Warn("Unexpected callback data", slog.String("data", cb.Data))
		return
	}

	currency, err := domain.ParseCurrency(data)
	if err != nil {
		// Enumeration drift between keyboard and parser
		b.log.Error("Callback carries unknown currency", slog.String("data", cb.Data), slog.Any("error", err))
		return
	}

	chatID := cb.Message.Chat.ID
	user, err := b.storage.ToggleCurrency(chatID, currency)
	if err != nil {
		b.log.Error("Toggle failed", slog.Int64("user_id", chatID), slog.Any("error", err))
		b.answerCallback(cb.ID, somethingWrong)
		return
	}

	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, cb.Message.MessageID, settingsKeyboard(user.CurrencyList()))
	b.send(edit)
	b.answerCallback(cb.ID, "")
}

// settingsKeyboard renders one toggle button per enum currency, check
// marked when active, two per row.
func settingsKeyboard(active []domain.Currency) tgbotapi.InlineKeyboardMarkup {
	activeSet := make(map[domain.Currency]bool, len(active))
	for _, c := range active {
		activeSet[c] = true
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, c := range domain.Currencies {
		label := c.WithFlag()
		if activeSet[c] {
			label = "✅ " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, togglePrefix+string(c)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		infra.GlobalMetrics.RecordError()
		b.log.Warn("Send failed", slog.Any("error", err))
	}
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		b.log.Warn("Answer callback failed", slog.Any("error", err))
	}
}
