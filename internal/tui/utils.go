package tui

import (
	"html"
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/microcosm-cc/bluemonday"
)

//nolint:gochecknoglobals // Политика неизменяема и безопасна для конкурентного использования
var stripPolicy = bluemonday.StrictPolicy()

// sanitize удаляет разметку и управляющие символы из текста, пришедшего с сервера.
// Переводы строк и табуляция сохраняются.
func sanitize(s string) string {
	if s == "" {
		return ""
	}
	clean := html.UnescapeString(stripPolicy.Sanitize(s))
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, clean)
}

// relativeTime возвращает время в виде "3 hours ago".
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

// formatDate форматирует дату поста.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "unknown date"
	}
	return t.Local().Format("January 2, 2006")
}

// formatDateTime форматирует дату комментария.
func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return "unknown date"
	}
	return t.Local().Format("Jan 2, 2006 15:04")
}

// clamp ограничивает i диапазоном [0, n-1]. Для пустого диапазона возвращает 0.
func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
