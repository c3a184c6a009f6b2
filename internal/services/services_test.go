package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"testing"
	"time"

	"collegesite/internal/apperr"
	"collegesite/internal/models"
	"collegesite/internal/repository"
	"collegesite/pkg/database"
	"collegesite/pkg/storage"
)

type testEnv struct {
	db       *database.Database
	store    *storage.Storage
	fileRepo repository.FileRepository
	files    FileService
	catalog  *Catalog
	news     *NewsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	db, err := database.NewDatabase(database.Options{Path: filepath.Join(dir, "test.db")})
	if err != nil {
		t.Fatalf("ошибка открытия базы: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := storage.NewStorage(filepath.Join(dir, "uploads"), 300)
	if err != nil {
		t.Fatalf("ошибка создания хранилища: %v", err)
	}

	fileRepo := repository.NewFileRepository(db.DB, repository.FileOwners(), repository.TextOwners())
	files := NewFileService(store, fileRepo, FileLimits{
		MaxImageSize:      1 << 20,
		MaxDocumentSize:   1 << 20,
		MaxImagesCount:    3,
		MaxDocumentsCount: 3,
	}, 16, time.Minute)

	return &testEnv{
		db:       db,
		store:    store,
		fileRepo: fileRepo,
		files:    files,
		catalog:  NewCatalog(db.DB, files),
		news: NewNewsService(
			repository.NewResourceRepository[models.NewsArticle](db.DB, repository.NewsSchema),
			repository.NewNewsRepository(db.DB),
			files,
		),
	}
}

type testFile struct {
	name        string
	contentType string
	data        []byte
}

// multipartFiles собирает настоящую multipart-форму и возвращает ее файлы
func multipartFiles(t *testing.T, files ...testFile) []*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, f.name))
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		part.Write(f.data)
	}
	w.Close()

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("ошибка разбора формы: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["files"]
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func pdfFile(name string) testFile {
	return testFile{name: name, contentType: "application/pdf", data: []byte("%PDF-1.4 test")}
}

func countStored(t *testing.T, store *storage.Storage) int {
	t.Helper()
	n := 0
	if err := store.Walk(func(storage.FileInfo) error { n++; return nil }); err != nil {
		t.Fatal(err)
	}
	return n
}

func wantKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("ожидалась ошибка вида %d, получено nil", kind)
	}
	if got := apperr.KindOf(err); got != kind {
		t.Fatalf("ожидалась ошибка вида %d, получено %d (%v)", kind, got, err)
	}
}

var bg = context.Background()
