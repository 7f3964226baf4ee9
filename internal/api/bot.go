package telegram

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "pipeline-inspector/internal/application"
	"pipeline-inspector/internal/container"
	"pipeline-inspector/internal/domain/entity"
	"pipeline-inspector/internal/infrastructure/display"
)

const (
	msgStart = `👋 Привет! Я показываю результаты стадий конвейера обработки изображений.

📸 Отправьте фото, я прогоню его через конвейер и покажу первую стадию.

📋 Команды:
/stages — список стадий
/help — справка`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото
2️⃣ Листайте стадии кнопками под картинкой
3️⃣ 📌 закрепляет стадию: кнопки двигают закреплённую, выбор остаётся

📋 Команды:
/stages — список стадий
/select N — выбрать стадию по номеру
/first /prev /next /last — навигация
/pin — закрепить или открепить
/colors — истинные цвета вкл/выкл
/show — показать текущую стадию
/at X Y — что находится в пикселе`

	msgSendPhoto       = "📸 Пожалуйста, отправьте фото для обработки конвейером."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте другое фото."
	msgNoStage         = "Нет выбранной стадии. Отправьте фото."
	msgNoResult        = "Для этой стадии нет результата. Отправьте фото."
	msgDisabled        = "⛔ Команда сейчас недоступна."
	msgBadSelect       = "Укажите номер стадии из /stages."
	msgBadPoint        = "Укажите координаты пикселя: /at X Y"
	msgPinned          = "📌 Стадия закреплена."
	msgUnpinned        = "Закрепление снято."
	msgTrueColors      = "🎨 Истинные цвета."
	msgRawColors       = "Изображения показываются как BGR, цвета могут выглядеть неверно."

	// maxCaption ограничение Telegram на подпись к фото
	maxCaption = 1024
)

// Bot представляет Telegram-бота
type Bot struct {
	api        *tgbotapi.BotAPI
	inspection *app.InspectionService
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:        api,
		inspection: c.InspectionService,
	}, nil
}

// Run запускает основной цикл обработки сообщений.
// Обновления обрабатываются строго по одному, просмотр не требует блокировок.
func (b *Bot) Run() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	ctx := context.Background()

	for update := range updates {
		if update.CallbackQuery != nil {
			b.handleCallback(update.CallbackQuery)
			continue
		}
		if update.Message == nil {
			continue
		}

		b.handleMessage(ctx, update.Message)
	}

	return nil
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}

	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	view := b.inspection.Session(chatID).View

	switch msg.Command() {
	case "start":
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "stages":
		b.sendMessage(chatID, stageList(view))

	case "select":
		n, err := strconv.Atoi(strings.TrimSpace(msg.CommandArguments()))
		stages := view.Stages()
		if err != nil || n < 1 || n > len(stages) {
			b.sendMessage(chatID, msgBadSelect)
			return
		}
		view.SetSelectedStage(stages[n-1])
		b.sendView(chatID, view)

	case "first", "prev", "next", "last", "pin", "colors":
		b.runAction(chatID, view, msg.Command())

	case "show":
		b.sendView(chatID, view)

	case "at":
		p, err := parsePoint(msg.CommandArguments())
		if err != nil {
			b.sendMessage(chatID, msgBadPoint)
			return
		}
		sampler := display.NewImageSampler(view.View().Image)
		b.sendMessage(chatID, view.StatusLine(p, sampler))

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handleCallback обрабатывает нажатия кнопок под картинкой
func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("Error answering callback: %v", err)
	}

	chatID := cb.Message.Chat.ID
	b.runAction(chatID, b.inspection.Session(chatID).View, cb.Data)
}

func (b *Bot) runAction(chatID int64, view *app.ResultView, action string) {
	notice, err := applyAction(view, action)
	switch {
	case errors.Is(err, entity.ErrNavigationDisabled), errors.Is(err, entity.ErrNoStages):
		b.sendMessage(chatID, msgDisabled)
		return
	case err != nil:
		log.Printf("Error applying %q: %v", action, err)
		b.sendMessage(chatID, msgUnknownCommand)
		return
	}
	if notice != "" {
		b.sendMessage(chatID, notice)
	}
	b.sendView(chatID, view)
}

// handlePhoto прогоняет фото через конвейер
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	b.sendMessage(msg.Chat.ID, msgProcessing)

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(photo.FileID)
	if err != nil {
		log.Printf("Error downloading photo: %v", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	session, err := b.inspection.ProcessPhoto(ctx, msg.Chat.ID, imageData)
	if err != nil {
		log.Printf("Error processing photo: %v", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	b.sendView(msg.Chat.ID, session.View)
}

// sendView отправляет текущую стадию: картинку, заголовок, модель и кнопки
func (b *Bot) sendView(chatID int64, view *app.ResultView) {
	v := view.View()
	if v.Stage == nil {
		b.sendMessage(chatID, msgNoStage)
		return
	}

	markup := keyboard(v)
	text := caption(v)

	if v.Image != nil {
		data, err := display.EncodePNG(v.Image)
		if err == nil {
			photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: v.Stage.Name + ".png", Bytes: data})
			photo.Caption = text
			photo.ReplyMarkup = markup
			if _, err := b.api.Send(photo); err != nil {
				log.Printf("Error sending photo: %v", err)
			}
			return
		}
		log.Printf("Error encoding stage image: %v", err)
	}

	if text == "" {
		text = v.Stage.Name + "\n" + msgNoResult
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

// applyAction выполняет команду навигации, закрепления или цвета.
// Возвращает уведомление для пользователя, если оно нужно.
func applyAction(view *app.ResultView, action string) (string, error) {
	switch action {
	case "first":
		return "", view.First()
	case "prev":
		return "", view.Previous()
	case "next":
		return "", view.Next()
	case "last":
		return "", view.Last()
	case "pin":
		if view.TogglePin() {
			return msgPinned, nil
		}
		return msgUnpinned, nil
	case "colors":
		view.SetDisplayTrueColors(!view.DisplayTrueColors())
		if view.DisplayTrueColors() {
			return msgTrueColors, nil
		}
		return msgRawColors, nil
	}
	return "", fmt.Errorf("unknown action %q", action)
}

// keyboard кнопки только для доступных команд
func keyboard(v app.View) tgbotapi.InlineKeyboardMarkup {
	var nav []tgbotapi.InlineKeyboardButton
	if v.Commands.First {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⏮", "first"))
	}
	if v.Commands.Previous {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("◀️", "prev"))
	}
	if v.Commands.Next {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("▶️", "next"))
	}
	if v.Commands.Last {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⏭", "last"))
	}

	pin := "📌 Закрепить"
	if v.Pinned {
		pin = "📍 Открепить"
	}
	colors := "🎨 Как BGR"
	if !v.TrueColors {
		colors = "🎨 Истинные цвета"
	}
	toggles := tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(pin, "pin"),
		tgbotapi.NewInlineKeyboardButtonData(colors, "colors"),
	)

	if len(nav) == 0 {
		return tgbotapi.NewInlineKeyboardMarkup(toggles)
	}
	return tgbotapi.NewInlineKeyboardMarkup(nav, toggles)
}

// caption заголовок стадии и текст модели, обрезанные под лимит Telegram
func caption(v app.View) string {
	text := v.Title
	if v.ModelText != "" {
		text += "\n\n" + v.ModelText
	}
	text = strings.TrimRight(text, "\n")

	runes := []rune(text)
	if len(runes) > maxCaption {
		return string(runes[:maxCaption-1]) + "…"
	}
	return text
}

// stageList нумерованный список стадий, показываемая отмечена стрелкой
func stageList(view *app.ResultView) string {
	stages := view.Stages()
	if len(stages) == 0 {
		return msgNoStage
	}

	nav := view.Navigation()
	var sb strings.Builder
	for i, stage := range stages {
		marker := "  "
		if stage == nav.Display() {
			marker = "➡️"
		}
		pin := ""
		if stage == nav.Pinned {
			pin = " 📌"
		}
		fmt.Fprintf(&sb, "%s %d. %s%s\n", marker, i+1, stage.Name, pin)
	}
	return sb.String()
}

// parsePoint разбирает "X Y"
func parsePoint(args string) (image.Point, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return image.Point{}, errors.New("expected two coordinates")
	}
	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return image.Point{}, err
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return image.Point{}, err
	}
	return image.Pt(x, y), nil
}
