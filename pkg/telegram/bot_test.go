package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFormatNews(t *testing.T) {
	got := FormatNews("  День <открытых> дверей ", "Ждем всех & каждого")
	want := "📰 <b>День &lt;открытых&gt; дверей</b>\n\nЖдем всех &amp; каждого"
	if got != want {
		t.Errorf("FormatNews() = %q, ожидалось %q", got, want)
	}

	if got := FormatNews("Заголовок", "   "); got != "📰 <b>Заголовок</b>" {
		t.Errorf("пустой анонс не должен добавлять абзац: %q", got)
	}
}

func TestFormatNews_TruncatesSummary(t *testing.T) {
	got := FormatNews("Т", strings.Repeat("я", maxSummaryRunes+50))
	if !strings.HasSuffix(got, "…") {
		t.Error("длинный анонс не обрезан")
	}
	if n := utf8.RuneCountInString(got); n > maxSummaryRunes+20 {
		t.Errorf("слишком длинное сообщение: %d символов", n)
	}
}

func TestLink(t *testing.T) {
	b := &Bot{siteURL: "https://college.example"}
	if got := b.link("/news/den-otkrytyh-dverey"); got != "https://college.example/news/den-otkrytyh-dverey" {
		t.Errorf("link() = %q", got)
	}

	b = &Bot{}
	if got := b.link("/news/x"); got != "" {
		t.Errorf("без адреса сайта ссылка должна быть пустой, получено %q", got)
	}
}
