package telegram

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"go-workua-scraper/internal/scraper"
	"go-workua-scraper/internal/scraper/workua"
	"go-workua-scraper/internal/session"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/singleflight"
)

const (
	textHelp = "Привіт! Я шукаю та стисло описую вакансії з Work.ua.\n\n" +
		"Команди:\n" +
		"• <code>/job python django</code> — знайти за запитом і показати список\n" +
		"• <code>/pars site</code> — надішли конкретний URL вакансії для парсу\n\n" +
		"Підтримую ключові слова <i>remote/віддалено/дистанційно</i>.\n" +
		"У пошуку використовую фільтр «Шукати не тільки у заголовку»."
	textJobUsage    = "Напиши так: <code>/job remote python django</code>\n або просто надішли текст після /job."
	textQueryHint   = "Введи запит у форматі: <code>/job python django</code>\nНаприклад: <code>/job remote python junior</code>"
	textSearching   = "Шукаю вакансії…"
	textNothing     = "Нічого не знайшов 😕. Спробуй інший запит."
	textSearchError = "Сталася помилка під час пошуку."
	textMenuHidden  = "Ок, приховав меню."
	textParsUsage   = "Використання: <code>/pars site</code> — далі надішли URL вакансії Work.ua"
	textAskURL      = "Надішли повний URL вакансії Work.ua (https://www.work.ua/jobs/&lt;id&gt;/)."
	textBadFormat   = "Невірний формат. Або /pars site, або /job &lt;запит&gt;."
	textNotJobURL   = "Це не схоже на URL вакансії Work.ua. Приклад:\nhttps://www.work.ua/jobs/7208953/"
	textJobFailed   = "Не вдалося отримати вакансію. Перевір посилання або спробуй пізніше."
	textProcessing  = "⏳ Обробляю вакансію..."
	textStaleList   = "Список застарів. Зроби новий пошук /job."
	textOpenFailed  = "Не вдалось завантажити вакансію."
	textRefreshed   = "Оновлено ✅"
	textRefreshFail = "Помилка оновлення"
)

// requestTimeout bounds the work done for one update.
const requestTimeout = 3 * time.Minute

// sender is the part of tgbotapi.BotAPI the handlers use.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Bot struct {
	api   *tgbotapi.BotAPI
	out   sender
	src   scraper.Source
	store *session.Store
	limit int
	jobs  singleflight.Group
}

func NewBot(token string, src scraper.Source, store *session.Store, limit int) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Printf("🤖 Authorized on account %s", api.Self.UserName)
	b := newBot(api, src, store, limit)
	b.api = api
	return b, nil
}

func newBot(out sender, src scraper.Source, store *session.Store, limit int) *Bot {
	return &Bot{out: out, src: src, store: store, limit: limit}
}

// Run polls for updates until ctx is done. Each update is handled in its own
// goroutine so a slow scrape never blocks other chats.
func (b *Bot) Run(ctx context.Context) error {
	if b.api == nil {
		return errors.New("telegram: bot has no API client")
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	prune := time.NewTicker(10 * time.Minute)
	defer prune.Stop()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case <-prune.C:
			b.store.Prune()
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			go b.HandleUpdate(ctx, upd)
		}
	}
}

// HandleUpdate dispatches one update. Panics are contained to the update.
func (b *Bot) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Update %d panicked: %v", upd.UpdateID, r)
		}
	}()
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	switch {
	case upd.CallbackQuery != nil:
		b.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil:
		b.handleMessage(ctx, upd.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if msg.IsCommand() {
		args := strings.TrimSpace(msg.CommandArguments())
		switch msg.Command() {
		case "start", "help":
			b.reply(chatID, textHelp, replyMenu())
		case "job":
			b.search(ctx, chatID, userID(msg.From), args)
		case "pars":
			b.pars(ctx, msg, args)
		}
		return
	}

	text := strings.TrimSpace(msg.Text)
	switch text {
	case buttonGetJobs:
		b.reply(chatID, textQueryHint, nil)
		return
	case buttonHideMenu:
		b.reply(chatID, textMenuHidden, tgbotapi.NewRemoveKeyboard(false))
		return
	}

	uid := userID(msg.From)
	if b.store.TakeAwaitingURL(uid) {
		if !workua.IsJobURL(text) {
			b.store.SetAwaitingURL(uid)
			b.reply(chatID, textNotJobURL, nil)
			return
		}
		b.sendJob(ctx, chatID, text)
	}
}

func (b *Bot) search(ctx context.Context, chatID, uid int64, query string) {
	if query == "" {
		b.reply(chatID, textJobUsage, nil)
		return
	}
	b.reply(chatID, textSearching, nil)

	rows, err := b.src.Search(ctx, query, b.limit)
	if err != nil && !errors.Is(err, scraper.ErrNoResults) {
		log.Printf("❌ /job search error: %v", err)
		b.reply(chatID, textSearchError, nil)
		return
	}
	if len(rows) == 0 {
		b.reply(chatID, textNothing, nil)
		return
	}

	b.store.SaveResults(uid, rows)
	b.reply(chatID, FormatResults(rows, query), IndexKeyboard(len(rows)))
}

func (b *Bot) pars(ctx context.Context, msg *tgbotapi.Message, arg string) {
	chatID := msg.Chat.ID
	switch {
	case arg == "":
		b.reply(chatID, textParsUsage, nil)
	case strings.EqualFold(arg, "site"):
		b.store.SetAwaitingURL(userID(msg.From))
		b.reply(chatID, textAskURL, nil)
	case workua.IsJobURL(arg):
		b.sendJob(ctx, chatID, arg)
	default:
		b.reply(chatID, textBadFormat, nil)
	}
}

func (b *Bot) sendJob(ctx context.Context, chatID int64, url string) {
	job, err := b.job(ctx, url)
	if err != nil {
		log.Printf("❌ job %s: %v", url, err)
		b.reply(chatID, textJobFailed, nil)
		return
	}
	b.sendCard(chatID, job)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	action, arg := parseCallback(cb.Data)
	switch action {
	case "open":
		b.open(ctx, cb, arg)
	case "refresh":
		b.refresh(ctx, cb, arg)
	default:
		b.answer(cb.ID, "")
	}
}

func (b *Bot) open(ctx context.Context, cb *tgbotapi.CallbackQuery, arg string) {
	idx, err := strconv.Atoi(arg)
	row, ok := b.store.Row(userID(cb.From), idx)
	if err != nil || !ok || cb.Message == nil {
		b.answer(cb.ID, textStaleList)
		return
	}
	chatID := cb.Message.Chat.ID

	processing, sendErr := b.out.Send(tgbotapi.NewMessage(chatID, textProcessing))
	job, err := b.job(ctx, row.URL)
	if sendErr == nil {
		if _, err := b.out.Request(tgbotapi.NewDeleteMessage(chatID, processing.MessageID)); err != nil {
			log.Printf("⚠️ Failed to delete progress message: %v", err)
		}
	}
	if err != nil {
		log.Printf("❌ open job error: %v", err)
		b.answer(cb.ID, textOpenFailed)
		return
	}

	b.sendCard(chatID, job)
	b.answer(cb.ID, "")
}

func (b *Bot) refresh(ctx context.Context, cb *tgbotapi.CallbackQuery, url string) {
	if cb.Message == nil {
		b.answer(cb.ID, textRefreshFail)
		return
	}
	job, err := b.job(ctx, url)
	if err != nil {
		log.Printf("❌ inline refresh error: %v", err)
		b.answer(cb.ID, textRefreshFail)
		return
	}

	edit := tgbotapi.NewEditMessageTextAndMarkup(cb.Message.Chat.ID, cb.Message.MessageID, FormatJobCard(job), JobKeyboard(job.URL))
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := b.out.Send(edit); err != nil {
		log.Printf("⚠️ Failed to edit job card: %v", err)
		b.answer(cb.ID, textRefreshFail)
		return
	}
	b.answer(cb.ID, textRefreshed)
}

// job collapses concurrent requests for the same URL into one scrape.
func (b *Bot) job(ctx context.Context, url string) (scraper.JobDetail, error) {
	v, err, shared := b.jobs.Do(url, func() (any, error) {
		return b.src.Job(ctx, url)
	})
	if shared {
		log.Printf("    🔁 Shared scrape for %s", url)
	}
	if err != nil {
		return scraper.JobDetail{}, err
	}
	return v.(scraper.JobDetail), nil
}

func (b *Bot) sendCard(chatID int64, job scraper.JobDetail) {
	b.reply(chatID, FormatJobCard(job), JobKeyboard(job.URL))
}

func (b *Bot) reply(chatID int64, text string, markup any) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := b.out.Send(msg); err != nil {
		log.Printf("⚠️ Failed to send message to Telegram: %v", err)
	}
}

func (b *Bot) answer(callbackID, text string) {
	if _, err := b.out.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		log.Printf("⚠️ Failed to answer callback: %v", err)
	}
}

func userID(u *tgbotapi.User) int64 {
	if u == nil {
		return 0
	}
	return u.ID
}
