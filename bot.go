package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"gorm.io/gorm"
)

type Bot struct {
	tgBot          TelegramClient
	db             *gorm.DB
	help           *HelpCatalog
	noaa           *noaaClient
	config         Config
	clock          Clock
	userLimiters   map[int64]*userLimiter
	userLimitersMu sync.Mutex
}

func NewBot(db *gorm.DB, config Config, clock Clock, tgClient TelegramClient) (*Bot, error) {
	// A broken catalog or resource table is a deployment defect; refuse
	// to start rather than serve a partial command set.
	help, err := NewHelpCatalog(helpData)
	if err != nil {
		return nil, err
	}
	if err := validateResources(); err != nil {
		return nil, err
	}

	b := &Bot{
		tgBot:        tgClient,
		db:           db,
		help:         help,
		noaa:         newNOAAClient(config.CacheDir, clock),
		config:       config,
		clock:        clock,
		userLimiters: make(map[int64]*userLimiter),
	}
	return b, nil
}

func (b *Bot) Start(ctx context.Context) {
	b.tgBot.Start(ctx)
}

func initTelegramBot(token string, handleUpdate func(ctx context.Context, tgBot *bot.Bot, update *models.Update)) (TelegramClient, error) {
	opts := []bot.Option{
		bot.WithDefaultHandler(handleUpdate),
	}

	tgBot, err := bot.New(token, opts...)
	if err != nil {
		return nil, err
	}

	return tgBot, nil
}

func (b *Bot) getOrCreateUser(telegramID int64, username, firstName string) (User, error) {
	var user User
	err := b.db.Where("telegram_id = ?", telegramID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = User{
			TelegramID: telegramID,
			Username:   username,
			FirstName:  firstName,
		}
		if err := b.db.Create(&user).Error; err != nil {
			return User{}, fmt.Errorf("failed to create user: %w", err)
		}
		return user, nil
	} else if err != nil {
		return User{}, err
	}

	// Keep the stored username current; people rename themselves.
	if user.Username != username || user.FirstName != firstName {
		user.Username = username
		user.FirstName = firstName
		if err := b.db.Save(&user).Error; err != nil {
			log.Printf("Error updating user %d: %v", telegramID, err)
		}
	}
	return user, nil
}

func (b *Bot) logCommand(user User, chatID int64, command, argument string) {
	entry := CommandLog{
		UserID:    user.ID,
		ChatID:    chatID,
		Command:   command,
		Argument:  argument,
		Timestamp: b.clock.Now(),
	}
	if err := b.db.Create(&entry).Error; err != nil {
		log.Printf("Error logging command %s: %v", command, err)
	}
}

// getStats retrieves the total number of users and served commands.
func (b *Bot) getStats() (int64, int64, error) {
	var totalUsers int64
	if err := b.db.Model(&User{}).Count(&totalUsers).Error; err != nil {
		return 0, 0, err
	}

	var totalCommands int64
	if err := b.db.Model(&CommandLog{}).Count(&totalCommands).Error; err != nil {
		return 0, 0, err
	}

	return totalUsers, totalCommands, nil
}

func (b *Bot) sendResponse(ctx context.Context, chatID int64, text string) error {
	_, err := b.tgBot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		log.Printf("Error sending message to chat %d: %v", chatID, err)
		return err
	}
	return nil
}

// sendGraph delivers a resource as a photo or a video with its caption.
func (b *Bot) sendGraph(ctx context.Context, chatID int64, res Resource) {
	url := res.freshURL(b.clock)
	var err error
	if res.isVideo() {
		_, err = b.tgBot.SendVideo(ctx, &bot.SendVideoParams{
			ChatID:  chatID,
			Video:   &models.InputFileString{Data: url},
			Caption: res.caption(),
		})
	} else {
		_, err = b.tgBot.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:  chatID,
			Photo:   &models.InputFileString{Data: url},
			Caption: res.caption(),
		})
	}
	if err != nil {
		log.Printf("Error sending %s to chat %d: %v", res.Command, chatID, err)
		b.notifyDeveloper(ctx, fmt.Sprintf("sending %s failed: %v", res.Command, err))
	}
}

func (b *Bot) sendStart(ctx context.Context, chatID int64, firstName string) {
	response := fmt.Sprintf(
		"Hi %s and welcome.\n"+
			"Use /help to see the list of commands.\n"+
			"SunFluxBot developed by W6BSD, https://0x9900.com/",
		firstName,
	)
	if err := b.sendResponse(ctx, chatID, response); err != nil {
		log.Printf("Error sending start message: %v", err)
	}
}

// sendHelp sends the command summary: every graph command plus the
// built-in ones, sorted by command name.
func (b *Bot) sendHelp(ctx context.Context, chatID int64) {
	commands := map[string]string{
		"/help":       "This message.",
		"/bands":      "Propagation by band and continent.",
		"/alerts":     "Solar activity alerts.",
		"/prediction": "Forecast discussion.",
		"/info":       "Definition of space weather terms.",
		"/stats":      "Bot usage statistics.",
	}
	for _, res := range resourceTable {
		commands[res.Command] = res.Description
	}

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := []string{"Group commands:", ""}
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("%s : %s", name, commands[name]))
	}
	if err := b.sendResponse(ctx, chatID, strings.Join(lines, "\n")); err != nil {
		log.Printf("Error sending help message: %v", err)
	}
}

// sendStats sends the bot usage statistics to the specified chat.
func (b *Bot) sendStats(ctx context.Context, chatID int64) {
	totalUsers, totalCommands, err := b.getStats()
	if err != nil {
		log.Printf("Error fetching stats: %v", err)
		b.sendResponse(ctx, chatID, "Sorry, I couldn't retrieve the stats at this time.")
		return
	}

	statsMessage := fmt.Sprintf(
		"Bot statistics:\n\n"+
			"- Total users: %d\n"+
			"- Commands served: %d",
		totalUsers,
		totalCommands,
	)
	if err := b.sendResponse(ctx, chatID, statsMessage); err != nil {
		log.Printf("Error sending stats message: %v", err)
	}
}

func (b *Bot) sendAlerts(ctx context.Context, chatID int64) {
	report, err := b.noaa.Alerts(ctx)
	if err != nil {
		log.Printf("Error fetching alerts: %v", err)
		b.sendResponse(ctx, chatID, "Sorry, the solar activity alerts are not available right now.")
		b.notifyDeveloper(ctx, fmt.Sprintf("alerts failed: %v", err))
		return
	}
	if err := b.sendResponse(ctx, chatID, report); err != nil {
		log.Printf("Error sending alerts: %v", err)
	}
}

func (b *Bot) sendForecast(ctx context.Context, chatID int64) {
	forecast, err := b.noaa.Forecast(ctx)
	if err != nil {
		log.Printf("Error fetching forecast: %v", err)
		b.sendResponse(ctx, chatID, "Sorry, the forecast discussion is not available right now.")
		b.notifyDeveloper(ctx, fmt.Sprintf("forecast failed: %v", err))
		return
	}
	if err := b.sendResponse(ctx, chatID, forecast); err != nil {
		log.Printf("Error sending forecast: %v", err)
	}
}

// notifyDeveloper reports a handler failure to the configured developer
// chat. A zero developer_id disables the notifications.
func (b *Bot) notifyDeveloper(ctx context.Context, report string) {
	if b.config.DeveloperID == 0 {
		return
	}
	_, err := b.tgBot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: b.config.DeveloperID,
		Text:   "SunFluxBot error: " + report,
	})
	if err != nil {
		log.Printf("Error notifying developer: %v", err)
	}
}
