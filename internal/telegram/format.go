package telegram

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"unicode/utf8"

	"go-workua-scraper/internal/scraper"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	// maxMessageRunes is Telegram's limit for one text message.
	maxMessageRunes = 4096
	indexRowSize    = 5

	callbackOpen    = "open:"
	callbackRefresh = "refresh|"

	buttonGetJobs  = "📰 Отримати вакансії"
	buttonHideMenu = "🧹 Прибрати меню"
)

// FormatJobCard renders a job as Telegram HTML. The description is dropped
// when it would push the message over Telegram's size limit.
func FormatJobCard(job scraper.JobDetail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📌 <b>%s</b>\n", html.EscapeString(job.Title))
	fmt.Fprintf(&b, "🏢 Компанія: <b>%s</b>\n", html.EscapeString(job.Company))
	fmt.Fprintf(&b, "💼 Зайнятість: %s\n", html.EscapeString(job.Employment))
	fmt.Fprintf(&b, "💰 Зарплата: %s\n", html.EscapeString(job.Salary))
	fmt.Fprintf(&b, "📅 Опубліковано: %s\n\n", html.EscapeString(job.Posted))

	if len(job.Expectations) > 0 {
		fmt.Fprintf(&b, "🧩 <b>Що ми очікуємо:</b>\n%s\n\n", html.EscapeString(bullets(job.Expectations)))
	}
	tasks := scraper.Sentinel
	if len(job.Tasks) > 0 {
		tasks = bullets(job.Tasks)
	}
	fmt.Fprintf(&b, "🔹 <b>Твої задачі:</b>\n%s\n\n", html.EscapeString(tasks))
	fmt.Fprintf(&b, "🔗 <a href=\"%s\">Деталі на Work.ua</a>", html.EscapeString(job.URL))

	if len(job.Description) > 0 {
		desc := fmt.Sprintf("\n\n📝 <b>Коротко:</b>\n%s", html.EscapeString(strings.Join(job.Description, "\n\n")))
		if utf8.RuneCountInString(b.String())+utf8.RuneCountInString(desc) <= maxMessageRunes {
			b.WriteString(desc)
		}
	}
	return b.String()
}

func bullets(items []string) string {
	return "• " + strings.Join(items, "\n• ")
}

// FormatResults renders the numbered result list. Sentinel extras are left
// out of each line.
func FormatResults(rows []scraper.JobSummary, query string) string {
	lines := []string{
		fmt.Sprintf("Знайшов %d вакансій за запитом: <b>%s</b>\nНатисни номер, щоб отримати деталі 👇", len(rows), html.EscapeString(query)),
		"",
	}
	for i, r := range rows {
		var extras []string
		for _, x := range []string{r.Company, r.Salary, r.Employment} {
			if x != "" && x != scraper.Sentinel {
				extras = append(extras, html.EscapeString(x))
			}
		}
		line := fmt.Sprintf("<b>%d.</b> %s", i+1, html.EscapeString(scraper.OrSentinel(r.Title)))
		if len(extras) > 0 {
			line += " — " + strings.Join(extras, " · ")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// IndexKeyboard has one button per result, five to a row.
func IndexKeyboard(n int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for i := 1; i <= n; i++ {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(strconv.Itoa(i), callbackOpen+strconv.Itoa(i-1)))
		if i%indexRowSize == 0 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// JobKeyboard sits under a job card.
func JobKeyboard(url string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🔗 Відкрити Work.ua", url),
			tgbotapi.NewInlineKeyboardButtonData("🔄 Оновити", callbackRefresh+url),
		),
	)
}

func replyMenu() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonGetJobs),
			tgbotapi.NewKeyboardButton(buttonHideMenu),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// parseCallback splits callback data into an action and its argument.
func parseCallback(data string) (action, arg string) {
	switch {
	case strings.HasPrefix(data, callbackOpen):
		return "open", strings.TrimPrefix(data, callbackOpen)
	case strings.HasPrefix(data, callbackRefresh):
		return "refresh", strings.TrimPrefix(data, callbackRefresh)
	}
	return "", data
}
