package storage

import (
	"errors"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// MaxBaseNameLength ограничивает длину имени файла без расширения (в символах)
const MaxBaseNameLength = 100

// ErrNoExtension — у загруженного файла нет расширения
var ErrNoExtension = errors.New("file has no extension")

// RecoverFilename восстанавливает UTF-8 имя, которое клиент или multipart-парсер
// передал как Latin-1: каждый байт UTF-8 превратился в отдельную руну U+0000..U+00FF.
// Если восстановить не удается, имя возвращается без изменений.
func RecoverFilename(name string) string {
	highSeen := false
	for _, r := range name {
		if r > 0xFF {
			return name
		}
		if r >= 0x80 {
			highSeen = true
		}
	}
	if !highSeen {
		return name
	}

	raw, err := charmap.ISO8859_1.NewEncoder().String(name)
	if err != nil || !utf8.ValidString(raw) {
		return name
	}
	return raw
}

// SanitizeFilename разбирает исходное имя на безопасное основание и расширение.
// Расширение приводится к нижнему регистру и возвращается с точкой.
func SanitizeFilename(name string) (base, ext string, err error) {
	name = RecoverFilename(name)
	// Старые браузеры присылают полный путь
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))

	rawExt := filepath.Ext(name)
	ext = cleanExtension(rawExt)
	if ext == "" {
		return "", "", ErrNoExtension
	}

	base = cleanBase(strings.TrimSuffix(name, rawExt))
	return base, ext, nil
}

func cleanExtension(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	var b strings.Builder
	for _, r := range ext {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "." + b.String()
}

func cleanBase(s string) string {
	var b strings.Builder
	prevSep := false
	for _, r := range s {
		if !allowedRune(r) {
			r = '-'
		}
		if isSeparator(r) {
			if prevSep {
				continue
			}
			prevSep = true
		} else {
			prevSep = false
		}
		b.WriteRune(r)
	}

	out := strings.TrimFunc(b.String(), isSeparator)
	if utf8.RuneCountInString(out) > MaxBaseNameLength {
		out = strings.TrimRightFunc(string([]rune(out)[:MaxBaseNameLength]), isSeparator)
	}
	if out == "" {
		return "file"
	}
	return out
}

func allowedRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case unicode.Is(unicode.Cyrillic, r):
		return true
	}
	return isSeparator(r)
}

func isSeparator(r rune) bool {
	return r == '-' || r == '_' || r == '.'
}
