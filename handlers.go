package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var topicCaser = cases.Title(language.English)

// continentLabels maps the /bands callback codes to their captions.
var continentLabels = map[string]string{
	"NA": "North America\n73 and good DXing",
	"EU": "Europe\n73 and good DXing",
}

func (b *Bot) handleUpdate(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	if update.CallbackQuery != nil {
		b.handleCallbackQuery(ctx, update.CallbackQuery)
		return
	}

	message := update.Message
	if message == nil || message.From == nil {
		return
	}

	chatID := message.Chat.ID
	command, argument := parseCommand(message)
	if command == "" {
		// Not a command; this bot only answers commands.
		return
	}

	user, err := b.getOrCreateUser(message.From.ID, message.From.Username, message.From.FirstName)
	if err != nil {
		log.Printf("Error getting or creating user: %v", err)
		return
	}

	if !b.checkRateLimits(message.From.ID) {
		b.sendResponse(ctx, chatID, "Rate limit exceeded. Please try again later.")
		return
	}

	InfoLogger.Printf("User %s command %s", message.From.FirstName, command)
	b.logCommand(user, chatID, command, argument)

	switch command {
	case "/start":
		b.sendStart(ctx, chatID, message.From.FirstName)
	case "/help", "/command", "/commands":
		b.sendHelp(ctx, chatID)
	case "/info":
		b.sendInfo(ctx, chatID, argument)
	case "/alert", "/alerts":
		b.sendAlerts(ctx, chatID)
	case "/prediction", "/predictions":
		b.sendForecast(ctx, chatID)
	case "/band", "/bands":
		b.sendBandsMenu(ctx, chatID)
	case "/stats":
		b.sendStats(ctx, chatID)
	default:
		if res, ok := findResource(command); ok {
			b.sendGraph(ctx, chatID, res)
			return
		}
		b.sendResponse(ctx, chatID, "Unknown command. Use /help to see the list of commands.")
	}
}

// parseCommand extracts a leading bot command and its argument from the
// message. Returns an empty command when the message is not a command.
func parseCommand(message *models.Message) (string, string) {
	for _, entity := range message.Entities {
		if entity.Type != "bot_command" || entity.Offset != 0 {
			continue
		}
		command := message.Text[entity.Offset : entity.Offset+entity.Length]
		// In groups commands arrive as /command@BotName.
		if at := strings.Index(command, "@"); at != -1 {
			command = command[:at]
		}
		argument := strings.TrimSpace(message.Text[entity.Offset+entity.Length:])
		return strings.ToLower(command), argument
	}
	return "", ""
}

// sendInfo answers /info. With an argument it replies with the topic
// definition; without one it offers the topic list as an inline keyboard.
func (b *Bot) sendInfo(ctx context.Context, chatID int64, topic string) {
	if topic != "" {
		b.sendDefinition(ctx, chatID, topic)
		return
	}

	_, err := b.tgBot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        "Choose a keyword",
		ReplyMarkup: b.topicKeyboard(),
	})
	if err != nil {
		log.Printf("Error sending topic keyboard: %v", err)
	}
}

func (b *Bot) sendDefinition(ctx context.Context, chatID int64, topic string) {
	entry, err := b.help.Get(topic)
	if errors.Is(err, ErrTopicNotFound) {
		reply := fmt.Sprintf("No definition for %q.\nAvailable topics: %s",
			topic, strings.Join(b.help.Topics(), ", "))
		b.sendResponse(ctx, chatID, reply)
		return
	}
	text := fmt.Sprintf("Information about %s:\n%s", displayTopic(entry.Title), entry.render())
	if err := b.sendResponse(ctx, chatID, text); err != nil {
		log.Printf("Error sending definition: %v", err)
	}
}

// topicKeyboard lays the catalog topics out two per row.
func (b *Bot) topicKeyboard() models.ReplyMarkup {
	var keyboard [][]models.InlineKeyboardButton
	var row []models.InlineKeyboardButton
	for _, topic := range b.help.Topics() {
		row = append(row, models.InlineKeyboardButton{
			Text:         displayTopic(topic),
			CallbackData: strings.ToLower(topic),
		})
		if len(row) == 2 {
			keyboard = append(keyboard, row)
			row = nil
		}
	}
	if len(row) > 0 {
		keyboard = append(keyboard, row)
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: keyboard}
}

// displayTopic returns the label shown on buttons and headers. Authored
// mixed-case names (MUF, SunSpot) are kept; all-lowercase ones are
// title-cased.
func displayTopic(title string) string {
	if title == strings.ToLower(title) {
		return topicCaser.String(title)
	}
	return title
}

// sendBandsMenu starts the /bands flow with the continent choice.
func (b *Bot) sendBandsMenu(ctx context.Context, chatID int64) {
	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "North America", CallbackData: "NA"},
				{Text: "Europe", CallbackData: "EU"},
			},
		},
	}
	_, err := b.tgBot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        "Propagation: Choose a continent",
		ReplyMarkup: keyboard,
	})
	if err != nil {
		log.Printf("Error sending bands menu: %v", err)
	}
}

// handleCallbackQuery routes button presses by the shape of their data:
// a continent code opens the zone menu, @continent and digit codes
// deliver propagation graphs, anything else is a help topic.
func (b *Bot) handleCallbackQuery(ctx context.Context, query *models.CallbackQuery) {
	if _, err := b.tgBot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: query.ID,
	}); err != nil {
		log.Printf("Error answering callback query: %v", err)
	}

	message := query.Message.Message
	if message == nil {
		return
	}
	chatID := message.Chat.ID
	data := query.Data

	switch {
	case data == "NA" || data == "EU":
		b.sendZoneMenu(ctx, chatID, message.ID, data)
	case strings.HasPrefix(data, "@"):
		b.sendContinentGraph(ctx, chatID, message.ID, strings.TrimPrefix(data, "@"))
	case isDigits(data):
		b.sendZoneGraph(ctx, chatID, message.ID, data)
	default:
		b.sendTopicCallback(ctx, chatID, message.ID, data)
	}
}

// sendTopicCallback replaces the keyword keyboard with the definition.
func (b *Bot) sendTopicCallback(ctx context.Context, chatID int64, messageID int, topic string) {
	title, body := topic, "No definition found"
	if entry, err := b.help.Get(topic); err == nil {
		title, body = entry.Title, entry.render()
	}
	_, err := b.tgBot.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      fmt.Sprintf("Information about %s:\n%s", displayTopic(title), body),
	})
	if err != nil {
		log.Printf("Error sending topic definition: %v", err)
	}
}

// sendZoneMenu replaces the continent choice with the CQ zone choice.
func (b *Bot) sendZoneMenu(ctx context.Context, chatID int64, messageID int, continent string) {
	var keyboard [][]models.InlineKeyboardButton
	switch continent {
	case "NA":
		keyboard = [][]models.InlineKeyboardButton{
			{
				{Text: "CQZone 3", CallbackData: "3"},
				{Text: "CQZone 4", CallbackData: "4"},
				{Text: "CQZone 5", CallbackData: "5"},
			},
			{
				{Text: "North America, all Zones", CallbackData: "@NA"},
			},
		}
	case "EU":
		keyboard = [][]models.InlineKeyboardButton{
			{
				{Text: "CQZone 14", CallbackData: "14"},
				{Text: "CQZone 15", CallbackData: "15"},
				{Text: "CQZone 16", CallbackData: "16"},
				{Text: "CQZone 21", CallbackData: "21"},
			},
			{
				{Text: "Europe, all Zones", CallbackData: "@EU"},
			},
		}
	default:
		return
	}

	_, err := b.tgBot.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        "Choose a CQZone",
		ReplyMarkup: &models.InlineKeyboardMarkup{InlineKeyboard: keyboard},
	})
	if err != nil {
		log.Printf("Error sending zone menu: %v", err)
	}
}

func (b *Bot) sendZoneGraph(ctx context.Context, chatID int64, messageID int, zone string) {
	url := fmt.Sprintf("https://bsdworld.org/DXCC/cqzone/%s/latest.webp?s=%s",
		zone, cacheBuster(b.clock, imageRefresh))
	_, err := b.tgBot.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileString{Data: url},
		Caption: fmt.Sprintf("Propagation for CQZone %s%s", zone, sourceNote),
	})
	if err != nil {
		log.Printf("Error sending zone graph: %v", err)
		b.notifyDeveloper(ctx, fmt.Sprintf("zone graph %s failed: %v", zone, err))
		return
	}
	b.clearKeyboard(ctx, chatID, messageID)
}

func (b *Bot) sendContinentGraph(ctx context.Context, chatID int64, messageID int, continent string) {
	label, ok := continentLabels[continent]
	if !ok {
		return
	}
	url := fmt.Sprintf("https://bsdworld.org/DXCC/continent/%s/latest.webp?s=%s",
		continent, cacheBuster(b.clock, imageRefresh))
	_, err := b.tgBot.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileString{Data: url},
		Caption: label + sourceNote,
	})
	if err != nil {
		log.Printf("Error sending continent graph: %v", err)
		b.notifyDeveloper(ctx, fmt.Sprintf("continent graph %s failed: %v", continent, err))
		return
	}
	b.clearKeyboard(ctx, chatID, messageID)
}

// clearKeyboard removes the inline keyboard once a choice is made.
func (b *Bot) clearKeyboard(ctx context.Context, chatID int64, messageID int) {
	_, err := b.tgBot.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	if err != nil {
		log.Printf("Error clearing keyboard: %v", err)
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
