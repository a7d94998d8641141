package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"mcq-generator/internal/adapter/transcriber"
	"mcq-generator/internal/domain"
	"mcq-generator/internal/logger"
	"mcq-generator/internal/service"
	"mcq-generator/internal/validation"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	maxMessageLen   = 4096
	maxDownloadSize = 10 << 20
	defaultNumber   = 5
	defaultSubject  = "General"
)

const helpText = `Send me a PDF or text document, or a voice message, and I will turn it into a multiple-choice quiz.

Settings for this chat:
/subject <name>  quiz subject (default General)
/tone <level>    complexity level (default Simple)
/number <n>      number of questions (3-50, default 5)
/settings        show the current settings`

// API is the subset of tgbotapi.BotAPI the bot uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
}

type chatSettings struct {
	subject string
	tone    string
	number  int
}

// Bot turns Telegram documents and voice messages into quizzes.
type Bot struct {
	api         API
	mcq         service.MCQService
	httpClient  *http.Client
	maxDuration time.Duration

	mu       sync.Mutex
	settings map[int64]chatSettings
}

// NewBot creates a bot. Voice and audio messages longer than maxDuration are
// refused before download; zero disables the limit.
func NewBot(api API, mcq service.MCQService, maxDuration time.Duration) *Bot {
	return &Bot{
		api:         api,
		mcq:         mcq,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		maxDuration: maxDuration,
		settings:    make(map[int64]chatSettings),
	}
}

// Run consumes updates until ctx is cancelled or the channel closes. Each
// update is handled in its own goroutine so one slow generation does not
// block other chats.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.HandleUpdate(ctx, update)
			}()
		}
	}
}

// HandleUpdate processes a single update.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		b.handleCommand(chatID, msg.Command(), strings.TrimSpace(msg.CommandArguments()))
		return
	}

	switch {
	case msg.Document != nil:
		b.handleDocument(ctx, chatID, msg.Document)
	case msg.Voice != nil:
		b.handleAudio(ctx, chatID, audioClip{
			fileID:   msg.Voice.FileID,
			filename: "voice.ogg",
			duration: msg.Voice.Duration,
			size:     int64(msg.Voice.FileSize),
		})
	case msg.Audio != nil:
		name := msg.Audio.FileName
		if name == "" {
			name = "audio.mp3"
		}
		b.handleAudio(ctx, chatID, audioClip{
			fileID:   msg.Audio.FileID,
			filename: name,
			duration: msg.Audio.Duration,
			size:     int64(msg.Audio.FileSize),
		})
	case msg.Text != "":
		b.handleText(ctx, chatID, msg.Text)
	}
}

func (b *Bot) handleCommand(chatID int64, command, args string) {
	s := b.chatSettings(chatID)
	switch command {
	case "start", "help":
		b.sendMessage(chatID, helpText)
		return
	case "settings":
	case "subject":
		if args == "" {
			b.sendMessage(chatID, "Usage: /subject <name>")
			return
		}
		s.subject = args
	case "tone":
		if args == "" {
			b.sendMessage(chatID, "Usage: /tone <level>")
			return
		}
		s.tone = args
	case "number":
		n, err := strconv.Atoi(args)
		if err != nil {
			b.sendMessage(chatID, "Usage: /number <3-50>")
			return
		}
		s.number = n
	default:
		b.sendMessage(chatID, "Unknown command. Send /help for the list of commands.")
		return
	}

	b.mu.Lock()
	b.settings[chatID] = s
	b.mu.Unlock()
	b.sendMessage(chatID, fmt.Sprintf("Subject: %s\nComplexity: %s\nQuestions: %d", s.subject, s.tone, s.number))
}

func (b *Bot) chatSettings(chatID int64) chatSettings {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.settings[chatID]
	if !ok {
		s = chatSettings{subject: defaultSubject, tone: validation.DefaultTone, number: defaultNumber}
	}
	return s
}

func (b *Bot) params(chatID int64) validation.Params {
	s := b.chatSettings(chatID)
	return validation.Params{Number: s.number, Subject: s.subject, Tone: s.tone}
}

func (b *Bot) handleDocument(ctx context.Context, chatID int64, doc *tgbotapi.Document) {
	if int64(doc.FileSize) > maxDownloadSize {
		b.sendMessage(chatID, "The file is too large.")
		return
	}
	data, err := b.download(ctx, doc.FileID)
	if err != nil {
		b.fail(chatID, "download document", err)
		return
	}
	b.sendMessage(chatID, "Generating your quiz...")
	res, err := b.mcq.GenerateFromFile(ctx, service.FileInput{
		Filename:    doc.FileName,
		ContentType: doc.MimeType,
		Data:        data,
	}, b.params(chatID))
	if err != nil {
		b.fail(chatID, "generate from document", err)
		return
	}
	b.sendQuiz(chatID, res)
}

// audioClip is a voice or audio message as reported by Telegram. Duration
// is in seconds.
type audioClip struct {
	fileID   string
	filename string
	duration int
	size     int64
}

func (b *Bot) handleAudio(ctx context.Context, chatID int64, clip audioClip) {
	if err := transcriber.CheckDuration(time.Duration(clip.duration)*time.Second, b.maxDuration); err != nil {
		b.fail(chatID, "check audio", err)
		return
	}
	if clip.size > maxDownloadSize {
		b.sendMessage(chatID, "The file is too large.")
		return
	}
	data, err := b.download(ctx, clip.fileID)
	if err != nil {
		b.fail(chatID, "download audio", err)
		return
	}
	b.sendMessage(chatID, "Listening...")
	res, err := b.mcq.GenerateFromAudio(ctx, service.AudioInput{Filename: clip.filename, Data: data}, b.params(chatID))
	if err != nil {
		b.fail(chatID, "generate from audio", err)
		return
	}
	b.sendQuiz(chatID, res)
}

func (b *Bot) handleText(ctx context.Context, chatID int64, text string) {
	b.sendMessage(chatID, "Generating your quiz...")
	res, err := b.mcq.GenerateFromText(ctx, text, b.params(chatID))
	if err != nil {
		b.fail(chatID, "generate from text", err)
		return
	}
	b.sendQuiz(chatID, res)
}

func (b *Bot) download(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolve file url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed with status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDownloadSize {
		return nil, domain.NewInvalidInputError("The file is too large.")
	}
	return data, nil
}

// fail logs the cause and replies with a short message. Validation and
// input problems are shown to the user, anything else is a generic "Error".
func (b *Bot) fail(chatID int64, op string, err error) {
	logger.Get().Error("Telegram request failed", zap.Int64("chatID", chatID), zap.String("op", op), zap.Error(err))

	var verrs domain.ValidationErrors
	var de *domain.DomainError
	switch {
	case errors.As(err, &verrs):
		msgs := make([]string, 0, len(verrs))
		for _, v := range verrs {
			msgs = append(msgs, v.Message)
		}
		b.sendMessage(chatID, "Error: "+strings.Join(msgs, "; "))
	case errors.As(err, &de) && de.Code != domain.CodeInternal:
		b.sendMessage(chatID, "Error: "+de.Message)
	default:
		b.sendMessage(chatID, "Error")
	}
}

func (b *Bot) sendQuiz(chatID int64, res *domain.GenerationResult) {
	for _, chunk := range splitMessage(FormatQuiz(res), maxMessageLen) {
		b.sendMessage(chatID, chunk)
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		logger.Get().Warn("Error sending telegram message", zap.Int64("chatID", chatID), zap.Error(err))
	}
}

// FormatQuiz renders a quiz as numbered plain text followed by the review.
func FormatQuiz(res *domain.GenerationResult) string {
	var sb strings.Builder
	for i, key := range res.Quiz.Keys() {
		q := res.Quiz[key]
		fmt.Fprintf(&sb, "%d. %s\n", i+1, q.MCQ)
		for _, opt := range q.OptionKeys() {
			fmt.Fprintf(&sb, "   %s) %s\n", opt, q.Options[opt])
		}
		fmt.Fprintf(&sb, "Correct: %s\n\n", q.Correct)
	}
	if res.Review != "" {
		sb.WriteString("Review:\n")
		sb.WriteString(res.Review)
	}
	return strings.TrimSpace(sb.String())
}

// splitMessage breaks text into chunks of at most limit runes, preferring
// line boundaries.
func splitMessage(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}
	var chunks []string
	var cur strings.Builder
	curLen := 0
	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, strings.TrimRight(cur.String(), "\n"))
			cur.Reset()
			curLen = 0
		}
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		n := utf8.RuneCountInString(line)
		if curLen+n > limit {
			flush()
		}
		for n > limit {
			r := []rune(line)
			chunks = append(chunks, string(r[:limit]))
			line = string(r[limit:])
			n -= limit
		}
		cur.WriteString(line)
		curLen += n
	}
	flush()
	return chunks
}
