package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// URLPrefix — префикс публичных адресов загруженных файлов
const URLPrefix = "/uploads/"

const (
	thumbSuffix = "_thumb.jpg"
	tempPrefix  = ".upload-"
)

var (
	// ErrInvalidPath — путь выходит за пределы хранилища
	ErrInvalidPath = errors.New("invalid storage path")
	// Категории хранилища; других каталогов нет
	Categories = []string{"images", "documents"}
)

// Storage представляет файловое хранилище загрузок
type Storage struct {
	basePath   string
	thumbWidth int
}

// SaveResult — результат записи файла
type SaveResult struct {
	StoredName string
	// RelPath относительно корня: images/photo-<uuid>.png
	RelPath  string
	FullPath string
	Size     int64
}

// FileInfo описывает файл при обходе хранилища
type FileInfo struct {
	RelPath     string
	Size        int64
	ModTime     time.Time
	IsThumbnail bool
}

// NewStorage создает хранилище и каталоги категорий
func NewStorage(basePath string, thumbWidth int) (*Storage, error) {
	for _, c := range Categories {
		if err := os.MkdirAll(filepath.Join(basePath, c), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}
	if thumbWidth <= 0 {
		thumbWidth = 300
	}
	return &Storage{basePath: basePath, thumbWidth: thumbWidth}, nil
}

// BasePath возвращает корень хранилища
func (s *Storage) BasePath() string {
	return s.basePath
}

// Save записывает содержимое под именем base-<uuid>ext.
// Данные сначала пишутся во временный файл, затем он жестко связывается
// с итоговым именем: существующий файл никогда не перезаписывается.
func (s *Storage) Save(category, base, ext string, r io.Reader) (*SaveResult, error) {
	dir := filepath.Join(s.basePath, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create file directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to copy file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}

	for attempt := 0; attempt < 3; attempt++ {
		name := base + "-" + uuid.NewString() + ext
		full := filepath.Join(dir, name)
		err := os.Link(tmpPath, full)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to store file: %w", err)
		}
		return &SaveResult{
			StoredName: name,
			RelPath:    path.Join(category, name),
			FullPath:   full,
			Size:       size,
		}, nil
	}
	return nil, fmt.Errorf("failed to store file: name collision")
}

// Thumbnail создает миниатюру изображения рядом с ним
func (s *Storage) Thumbnail(relPath string) (string, error) {
	full, err := s.Resolve(relPath)
	if err != nil {
		return "", err
	}
	img, err := imaging.Open(full, imaging.AutoOrientation(true))
	if err != nil {
		return "", err
	}

	thumb := imaging.Resize(img, s.thumbWidth, 0, imaging.Lanczos)
	thumbRel := ThumbnailPath(relPath)
	if err := imaging.Save(thumb, filepath.Join(s.basePath, filepath.FromSlash(thumbRel)), imaging.JPEGQuality(85)); err != nil {
		return "", err
	}
	return thumbRel, nil
}

// Resolve переводит относительный путь в путь на диске, не выпуская за корень
func (s *Storage) Resolve(relPath string) (string, error) {
	if unescaped, err := url.PathUnescape(relPath); err == nil {
		relPath = unescaped
	}
	clean := path.Clean("/" + strings.ReplaceAll(relPath, `\`, "/"))
	clean = strings.TrimPrefix(clean, "/")
	if clean == "" || clean == "." || strings.HasPrefix(path.Base(clean), tempPrefix) {
		return "", ErrInvalidPath
	}

	full := filepath.Join(s.basePath, filepath.FromSlash(clean))
	rel, err := filepath.Rel(s.basePath, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}
	return full, nil
}

// Exists проверяет, что по пути лежит обычный файл
func (s *Storage) Exists(relPath string) bool {
	full, err := s.Resolve(relPath)
	if err != nil {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && info.Mode().IsRegular()
}

// Delete удаляет файл и его миниатюру; отсутствие файла ошибкой не считается
func (s *Storage) Delete(relPath string) error {
	full, err := s.Resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	if IsThumbnail(relPath) {
		return nil
	}
	thumb := filepath.Join(s.basePath, filepath.FromSlash(ThumbnailPath(relPath)))
	if err := os.Remove(thumb); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete thumbnail: %w", err)
	}
	return nil
}

// Walk обходит сохраненные файлы всех категорий, пропуская временные
func (s *Storage) Walk(fn func(FileInfo) error) error {
	for _, c := range Categories {
		root := filepath.Join(s.basePath, c)
		err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				if os.IsNotExist(err) {
					return nil
				}
				return err
			}
			if d.IsDir() || strings.HasPrefix(d.Name(), tempPrefix) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			rel, err := filepath.Rel(s.basePath, p)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)
			return fn(FileInfo{
				RelPath:     rel,
				Size:        info.Size(),
				ModTime:     info.ModTime(),
				IsThumbnail: IsThumbnail(rel),
			})
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// ThumbnailPath возвращает путь миниатюры для файла
func ThumbnailPath(relPath string) string {
	return strings.TrimSuffix(relPath, path.Ext(relPath)) + thumbSuffix
}

// IsThumbnail проверяет, что путь указывает на миниатюру
func IsThumbnail(relPath string) bool {
	return strings.HasSuffix(relPath, thumbSuffix)
}

// OriginalOfThumbnail возвращает префикс пути исходного файла (без расширения)
func OriginalOfThumbnail(relPath string) string {
	return strings.TrimSuffix(relPath, thumbSuffix)
}

// URL возвращает публичный адрес файла
func URL(relPath string) string {
	return URLPrefix + relPath
}

// RelPathFromRef извлекает путь в хранилище из ссылки записи:
// /uploads/images/a.png, https://host/uploads/images/a.png или images/a.png.
// Для посторонних ссылок возвращает пустую строку.
func RelPathFromRef(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	p := u.Path

	switch {
	case strings.HasPrefix(p, URLPrefix):
		p = strings.TrimPrefix(p, URLPrefix)
	case u.Scheme != "" || u.Host != "":
		return ""
	default:
		p = strings.TrimPrefix(p, "/")
	}

	p = path.Clean(p)
	for _, c := range Categories {
		if strings.HasPrefix(p, c+"/") && !strings.Contains(p, "..") {
			return p
		}
	}
	return ""
}
