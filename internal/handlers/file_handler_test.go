package handlers

import (
	"bytes"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

type uploadResponse struct {
	Files []struct {
		URL          string `json:"url"`
		OriginalName string `json:"originalName"`
		ThumbnailURL string `json:"thumbnailUrl"`
	} `json:"files"`
}

func TestUploadAndServe_CyrillicName(t *testing.T) {
	s := newTestServer(t).login()
	data := []byte("%PDF-1.4 приказ о зачислении")

	rec := s.upload("documents", testFile{name: "Приказ о зачислении.pdf", contentType: "application/pdf", data: data})
	wantStatus(t, rec, http.StatusCreated)

	var res uploadResponse
	decode(t, rec, &res)
	if len(res.Files) != 1 {
		t.Fatalf("ожидался 1 файл, получено %d", len(res.Files))
	}
	f := res.Files[0]
	if f.OriginalName != "Приказ о зачислении.pdf" {
		t.Errorf("исходное имя: %q", f.OriginalName)
	}
	if !strings.HasPrefix(f.URL, "/uploads/documents/") {
		t.Fatalf("неожиданный адрес файла: %q", f.URL)
	}

	s.token = ""
	rec = s.do(http.MethodGet, escapePath(f.URL), nil)
	wantStatus(t, rec, http.StatusOK)
	if !bytes.Equal(rec.Body.Bytes(), data) {
		t.Error("содержимое файла отличается от загруженного")
	}

	disposition := rec.Header().Get("Content-Disposition")
	if !strings.Contains(strings.ToLower(disposition), "filename*=utf-8''") {
		t.Errorf("имя файла не закодировано по RFC 2231: %q", disposition)
	}
	kind, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		t.Fatalf("ошибка разбора Content-Disposition: %v", err)
	}
	if kind != "inline" || params["filename"] != "Приказ о зачислении.pdf" {
		t.Errorf("Content-Disposition: %s %v", kind, params)
	}
}

func TestUpload_ImageWithThumbnail(t *testing.T) {
	s := newTestServer(t).login()

	rec := s.upload("images", testFile{name: "фото.png", contentType: "image/png", data: pngBytes(t, 600, 400)})
	wantStatus(t, rec, http.StatusCreated)

	var res uploadResponse
	decode(t, rec, &res)
	if res.Files[0].ThumbnailURL == "" {
		t.Fatal("ожидалась миниатюра")
	}
	rec = s.do(http.MethodGet, escapePath(res.Files[0].ThumbnailURL), nil)
	wantStatus(t, rec, http.StatusOK)

	rec = s.do(http.MethodGet, escapePath(res.Files[0].URL), nil)
	wantStatus(t, rec, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("неожиданный Content-Type: %q", ct)
	}
}

func TestUpload_RejectsWholeBatch(t *testing.T) {
	s := newTestServer(t).login()
	png := pngBytes(t, 10, 10)

	tests := []struct {
		name     string
		category string
		files    []testFile
	}{
		{
			name:     "слишком большой файл",
			category: "documents",
			files: []testFile{
				{name: "a.pdf", contentType: "application/pdf", data: []byte("%PDF small")},
				{name: "big.pdf", contentType: "application/pdf", data: bytes.Repeat([]byte("x"), 2<<20)},
			},
		},
		{
			name:     "слишком много файлов",
			category: "images",
			files: []testFile{
				{name: "1.png", contentType: "image/png", data: png},
				{name: "2.png", contentType: "image/png", data: png},
				{name: "3.png", contentType: "image/png", data: png},
				{name: "4.png", contentType: "image/png", data: png},
			},
		},
		{
			name:     "недопустимый тип",
			category: "documents",
			files:    []testFile{{name: "run.exe", contentType: "application/x-msdownload", data: []byte("MZ")}},
		},
		{
			name:     "расширение не совпадает с типом",
			category: "images",
			files:    []testFile{{name: "page.html", contentType: "image/png", data: []byte("<script></script>")}},
		},
		{
			name:     "неизвестная категория",
			category: "videos",
			files:    []testFile{{name: "a.pdf", contentType: "application/pdf", data: []byte("%PDF")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.upload(tt.category, tt.files...)
			wantStatus(t, rec, http.StatusBadRequest)
			if n := s.countStored(); n != 0 {
				t.Errorf("после отказа на диске осталось %d файлов", n)
			}
		})
	}
}

func TestUpload_RequiresAuth(t *testing.T) {
	s := newTestServer(t)
	rec := s.upload("documents", testFile{name: "a.pdf", contentType: "application/pdf", data: []byte("%PDF")})
	wantStatus(t, rec, http.StatusUnauthorized)
	if s.countStored() != 0 {
		t.Error("файл записан без авторизации")
	}
}

func TestDeleteFile_InUse(t *testing.T) {
	s := newTestServer(t).login()

	rec := s.upload("images", testFile{name: "director.png", contentType: "image/png", data: pngBytes(t, 20, 20)})
	wantStatus(t, rec, http.StatusCreated)
	var up uploadResponse
	decode(t, rec, &up)
	photo := up.Files[0].URL

	rec = s.do(http.MethodPost, "/api/managers", map[string]any{"fullName": "Иванов Иван", "photo": photo})
	wantStatus(t, rec, http.StatusCreated)
	var manager struct {
		ID string `json:"id"`
	}
	decode(t, rec, &manager)

	query := "?path=" + url.QueryEscape(photo)
	rec = s.do(http.MethodGet, "/api/files/usage"+query, nil)
	wantStatus(t, rec, http.StatusOK)
	var usage struct {
		Total int64 `json:"total"`
	}
	decode(t, rec, &usage)
	if usage.Total != 1 {
		t.Errorf("ожидалась 1 ссылка, получено %d", usage.Total)
	}

	rec = s.do(http.MethodDelete, "/api/files"+query, nil)
	wantStatus(t, rec, http.StatusBadRequest)
	var refused struct {
		Error string           `json:"error"`
		Usage map[string]int64 `json:"usage"`
		Total int64            `json:"total"`
	}
	decode(t, rec, &refused)
	if refused.Total != 1 || refused.Usage["managers"] != 1 {
		t.Errorf("неожиданный ответ об использовании: %+v", refused)
	}
	if s.countStored() == 0 {
		t.Fatal("используемый файл удален")
	}

	// После удаления руководителя файл освобождается автоматически
	rec = s.do(http.MethodDelete, "/api/managers/"+manager.ID, nil)
	wantStatus(t, rec, http.StatusOK)
	if n := s.countStored(); n != 0 {
		t.Errorf("после удаления записи осталось %d файлов", n)
	}
}

func TestDeleteFile_Unused(t *testing.T) {
	s := newTestServer(t).login()

	rec := s.upload("documents", testFile{name: "отчет.pdf", contentType: "application/pdf", data: []byte("%PDF")})
	wantStatus(t, rec, http.StatusCreated)
	var up uploadResponse
	decode(t, rec, &up)
	query := "?path=" + url.QueryEscape(up.Files[0].URL)

	rec = s.do(http.MethodDelete, "/api/files"+query, nil)
	wantStatus(t, rec, http.StatusOK)
	if s.countStored() != 0 {
		t.Error("файл не удален с диска")
	}

	rec = s.do(http.MethodDelete, "/api/files"+query, nil)
	wantStatus(t, rec, http.StatusNotFound)

	rec = s.do(http.MethodGet, escapePath(up.Files[0].URL), nil)
	wantStatus(t, rec, http.StatusNotFound)
}

func TestStatic_NotFoundPage(t *testing.T) {
	s := newTestServer(t).login()
	rec := s.do(http.MethodPut, "/api/settings", map[string]string{"siteName": "Колледж связи"})
	wantStatus(t, rec, http.StatusOK)

	for _, target := range []string{
		"/uploads/documents/missing.pdf",
		"/uploads/../test.db",
		"/uploads/",
	} {
		rec := s.do(http.MethodGet, target, nil)
		wantStatus(t, rec, http.StatusNotFound)
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("%s: ожидалась HTML-страница, получено %q", target, ct)
		}
		if !strings.Contains(rec.Body.String(), "Колледж связи") {
			t.Errorf("%s: на странице нет названия сайта", target)
		}
	}
}

func TestListFiles(t *testing.T) {
	s := newTestServer(t).login()
	s.upload("documents", testFile{name: "a.pdf", contentType: "application/pdf", data: []byte("%PDF")})
	s.upload("images", testFile{name: "b.png", contentType: "image/png", data: pngBytes(t, 5, 5)})

	rec := s.do(http.MethodGet, "/api/files?category=documents", nil)
	wantStatus(t, rec, http.StatusOK)
	var files []map[string]any
	decode(t, rec, &files)
	if len(files) != 1 {
		t.Errorf("ожидался 1 документ, получено %d", len(files))
	}

	rec = s.do(http.MethodGet, "/api/files?category=videos", nil)
	wantStatus(t, rec, http.StatusBadRequest)
}
