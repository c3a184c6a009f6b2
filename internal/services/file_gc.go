package services

import (
	"context"
	"path"
	"sync"
	"time"

	"collegesite/internal/repository"
	"collegesite/pkg/logging"
	"collegesite/pkg/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	gcRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "college_file_gc_runs_total",
		Help: "Количество запусков очистки файлов",
	})
	gcFilesDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "college_file_gc_deleted_total",
		Help: "Количество файлов без ссылок, удаленных очисткой",
	})
	gcDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "college_file_gc_duration_seconds",
		Help:    "Длительность очистки файлов в секундах",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
	})
)

// GCResult — итог одного прохода очистки
type GCResult struct {
	Scanned  int
	Deleted  int
	Orphans  int
	Errors   int
	Duration time.Duration
}

// FileGC периодически удаляет файлы, на которые не ссылается ни одна запись.
// Файл моложе grace не трогается: его могли только что загрузить для новой записи.
type FileGC struct {
	store    *storage.Storage
	repo     repository.FileRepository
	interval time.Duration
	grace    time.Duration
	log      zerolog.Logger
	now      func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewFileGC(store *storage.Storage, repo repository.FileRepository, interval, grace time.Duration) *FileGC {
	return &FileGC{
		store:    store,
		repo:     repo,
		interval: interval,
		grace:    grace,
		log:      logging.Component("file_gc"),
		now:      time.Now,
	}
}

// Start запускает фоновый цикл; нулевой интервал отключает очистку
func (gc *FileGC) Start(ctx context.Context) {
	if gc.interval <= 0 {
		gc.log.Info().Msg("File GC disabled")
		return
	}
	gcCtx, cancel := context.WithCancel(ctx)
	gc.cancel = cancel
	gc.done = make(chan struct{})

	go gc.run(gcCtx)
	gc.log.Info().Dur("interval", gc.interval).Dur("grace", gc.grace).Msg("File GC started")
}

// Stop останавливает цикл и дожидается текущего прохода
func (gc *FileGC) Stop() {
	if gc.cancel == nil {
		return
	}
	gc.cancel()
	<-gc.done
	gc.log.Info().Msg("File GC stopped")
}

func (gc *FileGC) run(ctx context.Context) {
	defer close(gc.done)

	ticker := time.NewTicker(gc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gc.RunOnce(ctx)
		}
	}
}

// RunOnce выполняет один проход: удаляет старые файлы без ссылок
// и миниатюры, у которых не осталось исходного файла
func (gc *FileGC) RunOnce(ctx context.Context) *GCResult {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	start := gc.now()
	cutoff := start.Add(-gc.grace)
	result := &GCResult{}

	var (
		files  []storage.FileInfo
		thumbs []storage.FileInfo
	)
	originals := make(map[string]struct{})
	err := gc.store.Walk(func(fi storage.FileInfo) error {
		if fi.IsThumbnail {
			thumbs = append(thumbs, fi)
			return nil
		}
		files = append(files, fi)
		originals[stem(fi.RelPath)] = struct{}{}
		return nil
	})
	if err != nil {
		gc.log.Error().Err(err).Msg("File GC: failed to walk storage")
		result.Errors++
	}
	result.Scanned = len(files) + len(thumbs)

	for _, fi := range files {
		if ctx.Err() != nil {
			break
		}
		if fi.ModTime.After(cutoff) {
			continue
		}
		deleted, err := gc.repo.DeleteUnreferenced(ctx, fi.RelPath, path.Base(fi.RelPath))
		if err != nil {
			gc.log.Error().Err(err).Str("path", fi.RelPath).Msg("File GC: usage check failed")
			result.Errors++
			continue
		}
		if !deleted {
			continue
		}
		if err := gc.store.Delete(fi.RelPath); err != nil {
			gc.log.Error().Err(err).Str("path", fi.RelPath).Msg("File GC: delete failed")
			result.Errors++
			continue
		}
		result.Deleted++
	}

	for _, fi := range thumbs {
		if _, ok := originals[storage.OriginalOfThumbnail(fi.RelPath)]; ok {
			continue
		}
		if err := gc.store.Delete(fi.RelPath); err != nil {
			result.Errors++
			continue
		}
		result.Orphans++
	}

	result.Duration = gc.now().Sub(start)

	gcRunsTotal.Inc()
	gcFilesDeletedTotal.Add(float64(result.Deleted + result.Orphans))
	gcDurationSeconds.Observe(result.Duration.Seconds())

	gc.log.Info().
		Int("scanned", result.Scanned).
		Int("deleted", result.Deleted).
		Int("orphans", result.Orphans).
		Int("errors", result.Errors).
		Dur("duration", result.Duration).
		Msg("File GC finished")
	return result
}

func stem(relPath string) string {
	return relPath[:len(relPath)-len(path.Ext(relPath))]
}
