package bot

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"notoc/events"
	"notoc/ratelimit"
	"notoc/service"
)

// Config holds bot configuration
type Config struct {
	Token        string
	HistoryLimit int
}

type Bot struct {
	config          Config
	api             *tgbotapi.BotAPI
	userService     service.UserService
	resolverService service.ResolverService
	ledgerService   service.LedgerService
	deadlineService service.DeadlineService
	pending         *service.PendingStore
	limiter         *ratelimit.Limiter
	eventBus        *events.Bus

	wg sync.WaitGroup
}

func New(config Config, userService service.UserService, resolverService service.ResolverService, ledgerService service.LedgerService, deadlineService service.DeadlineService, pending *service.PendingStore, limiter *ratelimit.Limiter, eventBus *events.Bus) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating telegram session: %w", err)
	}

	bot := &Bot{
		config:          config,
		api:             api,
		userService:     userService,
		resolverService: resolverService,
		ledgerService:   ledgerService,
		deadlineService: deadlineService,
		pending:         pending,
		limiter:         limiter,
		eventBus:        eventBus,
	}

	log.WithField("username", api.Self.UserName).Info("Telegram session authorized")
	return bot, nil
}

// Start runs the update loop until the context is cancelled. Each update is
// handled on its own goroutine; Close waits for in-flight handlers.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func(update tgbotapi.Update) {
				defer b.wg.Done()
				defer func() {
					if r := recover(); r != nil {
						log.Errorf("Recovered from panic in update handler: %v", r)
					}
				}()
				b.handleUpdate(ctx, update)
			}(update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.Message != nil && update.Message.Text != "":
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) Close() {
	b.api.StopReceivingUpdates()
	b.wg.Wait()
}

// reply sends a plain text answer into the chat the message came from.
func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Errorf("Failed to send message: %v", err)
	}
}

// senderName builds a display name from the Telegram profile.
func senderName(from *tgbotapi.User) string {
	name := from.FirstName
	if from.LastName != "" {
		name += " " + from.LastName
	}
	if name == "" {
		name = from.UserName
	}
	return name
}
