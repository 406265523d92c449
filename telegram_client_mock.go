package main

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/mock"
)

// MockTelegramClient is a mock implementation of TelegramClient for testing.
type MockTelegramClient struct {
	mock.Mock
	SendMessageFunc            func(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendPhotoFunc              func(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
	SendVideoFunc              func(ctx context.Context, params *bot.SendVideoParams) (*models.Message, error)
	AnswerCallbackQueryFunc    func(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
	EditMessageTextFunc        func(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error)
	EditMessageReplyMarkupFunc func(ctx context.Context, params *bot.EditMessageReplyMarkupParams) (*models.Message, error)
	StartFunc                  func(ctx context.Context)
}

// SendMessage mocks sending a text message.
func (m *MockTelegramClient) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, params)
	}
	args := m.Called(ctx, params)
	if msg, ok := args.Get(0).(*models.Message); ok {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}

// SendPhoto mocks sending a photo.
func (m *MockTelegramClient) SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error) {
	if m.SendPhotoFunc != nil {
		return m.SendPhotoFunc(ctx, params)
	}
	args := m.Called(ctx, params)
	if msg, ok := args.Get(0).(*models.Message); ok {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}

// SendVideo mocks sending a video.
func (m *MockTelegramClient) SendVideo(ctx context.Context, params *bot.SendVideoParams) (*models.Message, error) {
	if m.SendVideoFunc != nil {
		return m.SendVideoFunc(ctx, params)
	}
	args := m.Called(ctx, params)
	if msg, ok := args.Get(0).(*models.Message); ok {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}

// AnswerCallbackQuery mocks acknowledging a callback query.
func (m *MockTelegramClient) AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error) {
	if m.AnswerCallbackQueryFunc != nil {
		return m.AnswerCallbackQueryFunc(ctx, params)
	}
	args := m.Called(ctx, params)
	return args.Bool(0), args.Error(1)
}

// EditMessageText mocks editing a message's text.
func (m *MockTelegramClient) EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*models.Message, error) {
	if m.EditMessageTextFunc != nil {
		return m.EditMessageTextFunc(ctx, params)
	}
	args := m.Called(ctx, params)
	if msg, ok := args.Get(0).(*models.Message); ok {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}

// EditMessageReplyMarkup mocks editing a message's inline keyboard.
func (m *MockTelegramClient) EditMessageReplyMarkup(ctx context.Context, params *bot.EditMessageReplyMarkupParams) (*models.Message, error) {
	if m.EditMessageReplyMarkupFunc != nil {
		return m.EditMessageReplyMarkupFunc(ctx, params)
	}
	args := m.Called(ctx, params)
	if msg, ok := args.Get(0).(*models.Message); ok {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}

// Start mocks starting the Telegram client.
func (m *MockTelegramClient) Start(ctx context.Context) {
	if m.StartFunc != nil {
		m.StartFunc(ctx)
		return
	}
	m.Called(ctx)
}
