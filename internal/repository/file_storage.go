package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"sync"
	"time"

	models "github.com/RoGogDBD/writer-test/internal/model"
	"go.uber.org/zap"
)

const (
	countFile      = "count.json"
	generationFile = "generation.json"
	snapshotsDir   = "snapshots"
	keepFile       = ".keep"
)

// snapshotPattern соответствует именам файлов снимков: snapshot-<epoch-millis>.json.
var snapshotPattern = regexp.MustCompile(`^snapshot-(\d+)\.json$`)

// FileStore реализует интерфейс Store поверх файловой системы.
//
// Раскладка каталога dir:
//   - count.json — текущий CountRecord
//   - generation.json — текущий GenerationRecord
//   - snapshots/snapshot-<epoch-millis>.json — снимки
//
// Ошибки чтения трактуются как отсутствие файла: хранилище подставляет
// значения по умолчанию и пишет предупреждение в лог.
type FileStore struct {
	dir      string
	maxCount int64
	logger   *zap.Logger
	now      func() time.Time

	mu           sync.Mutex
	lastSnapshot int64 // миллисекунды последнего снимка, имена строго возрастают
}

// NewFileStore создаёт хранилище в каталоге dir с верхней границей maxCount.
func NewFileStore(dir string, maxCount int64, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{
		dir:      dir,
		maxCount: maxCount,
		logger:   logger,
		now:      time.Now,
	}
}

// Dir возвращает корневой каталог хранилища.
func (s *FileStore) Dir() string {
	return s.dir
}

// SnapshotsDir возвращает каталог снимков.
func (s *FileStore) SnapshotsDir() string {
	return filepath.Join(s.dir, snapshotsDir)
}

// MaxCount возвращает верхнюю границу счётчика.
func (s *FileStore) MaxCount() int64 {
	return s.maxCount
}

// Bootstrap создаёт каталог снимков вместе с файлом-маркером .keep.
func (s *FileStore) Bootstrap() error {
	if err := os.MkdirAll(s.SnapshotsDir(), 0755); err != nil {
		return fmt.Errorf("failed to create snapshots directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.SnapshotsDir(), keepFile), nil, 0644); err != nil {
		return fmt.Errorf("failed to write marker file: %w", err)
	}
	return nil
}

// LoadCount читает count.json.
//
// Если файла нет или он повреждён, создаёт запись {0, now} и сохраняет её.
// Значение выше максимума ограничивается максимумом без перезаписи файла.
// Ошибка возвращается только если не удалось сохранить начальную запись.
func (s *FileStore) LoadCount() (models.CountRecord, error) {
	path := filepath.Join(s.dir, countFile)

	var rec models.CountRecord
	err := readJSON(path, &rec)
	switch {
	case err == nil && rec.Count > s.maxCount:
		return models.CountRecord{Count: s.maxCount, LastUpdated: s.timestamp()}, nil
	case err == nil && rec.Count >= 0:
		return rec, nil
	case err == nil:
		s.logger.Warn("Negative count in storage, starting over", zap.String("path", path), zap.Int64("count", rec.Count))
	case !errors.Is(err, fs.ErrNotExist):
		s.logger.Warn("Failed to read count record, starting over", zap.String("path", path), zap.Error(err))
	}

	initial := models.CountRecord{Count: 0, LastUpdated: s.timestamp()}
	if err := writeJSON(path, initial); err != nil {
		return initial, fmt.Errorf("failed to initialize count record: %w", err)
	}
	return initial, nil
}

// IncrementCount сохраняет запись со значением rec.Count+1 и свежей меткой времени.
//
// Если rec уже на максимуме, возвращает rec без записи на диск.
// При ошибке записи возвращает исходную запись и ошибку.
func (s *FileStore) IncrementCount(rec models.CountRecord) (models.CountRecord, error) {
	if rec.Count >= s.maxCount {
		return rec, nil
	}
	next := models.CountRecord{Count: rec.Count + 1, LastUpdated: s.timestamp()}
	if err := writeJSON(filepath.Join(s.dir, countFile), next); err != nil {
		return rec, fmt.Errorf("failed to save count: %w", err)
	}
	return next, nil
}

// LoadGeneration читает generation.json. Возвращает 0, если файла нет или он повреждён.
func (s *FileStore) LoadGeneration() int64 {
	path := filepath.Join(s.dir, generationFile)

	var rec models.GenerationRecord
	err := readJSON(path, &rec)
	switch {
	case err == nil && rec.Generation >= 0:
		return rec.Generation
	case err == nil:
		s.logger.Warn("Negative generation in storage, using 0", zap.String("path", path))
	case !errors.Is(err, fs.ErrNotExist):
		s.logger.Warn("Failed to read generation record, using 0", zap.String("path", path), zap.Error(err))
	}
	return 0
}

// IncrementGeneration сохраняет поколение current+1 с новым временем сброса.
func (s *FileStore) IncrementGeneration() (int64, error) {
	next := models.GenerationRecord{
		Generation: s.LoadGeneration() + 1,
		LastReset:  s.timestamp(),
	}
	if err := writeJSON(filepath.Join(s.dir, generationFile), next); err != nil {
		return 0, fmt.Errorf("failed to save generation: %w", err)
	}
	return next.Generation, nil
}

// ClearAll обнуляет count.json и удаляет все файлы снимков.
//
// Ошибки отдельных операций не прерывают проход и возвращаются объединёнными.
func (s *FileStore) ClearAll() error {
	var errs []error

	zero := models.CountRecord{Count: 0, LastUpdated: s.timestamp()}
	if err := writeJSON(filepath.Join(s.dir, countFile), zero); err != nil {
		errs = append(errs, fmt.Errorf("failed to reset count: %w", err))
	}

	paths, err := s.Snapshots()
	if err != nil {
		errs = append(errs, err)
	}
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("failed to remove snapshot: %w", err))
		}
	}

	return errors.Join(errs...)
}

// WriteSnapshot создаёт файл snapshot-<epoch-millis>.json и возвращает путь к нему.
//
// Имена строго возрастают: при совпадении миллисекунд значение сдвигается вперёд.
// Существующие файлы никогда не перезаписываются.
func (s *FileStore) WriteSnapshot(count int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.timestamp()
	data, err := json.MarshalIndent(models.SnapshotRecord{Count: count, Timestamp: ts}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.MkdirAll(s.SnapshotsDir(), 0755); err != nil {
		return "", fmt.Errorf("failed to create snapshots directory: %w", err)
	}

	millis := ts.UnixMilli()
	if millis <= s.lastSnapshot {
		millis = s.lastSnapshot + 1
	}
	for {
		path := filepath.Join(s.SnapshotsDir(), "snapshot-"+strconv.FormatInt(millis, 10)+".json")
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			millis++
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create snapshot: %w", err)
		}
		_, werr := f.Write(data)
		if err := errors.Join(werr, f.Close()); err != nil {
			return "", fmt.Errorf("failed to write snapshot %s: %w", path, err)
		}
		s.lastSnapshot = millis
		return path, nil
	}
}

// Snapshots возвращает пути всех снимков в порядке создания.
func (s *FileStore) Snapshots() ([]string, error) {
	entries, err := os.ReadDir(s.SnapshotsDir())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	type named struct {
		path   string
		millis int64
	}
	var found []named
	for _, e := range entries {
		m := snapshotPattern.FindStringSubmatch(e.Name())
		if m == nil || e.IsDir() {
			continue
		}
		millis, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		found = append(found, named{path: filepath.Join(s.SnapshotsDir(), e.Name()), millis: millis})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].millis < found[j].millis })

	paths := make([]string, len(found))
	for i, n := range found {
		paths[i] = n.path
	}
	return paths, nil
}

// ReadSnapshot читает снимок по пути.
func ReadSnapshot(path string) (models.SnapshotRecord, error) {
	var rec models.SnapshotRecord
	if err := readJSON(path, &rec); err != nil {
		return rec, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	return rec, nil
}

func (s *FileStore) timestamp() models.Timestamp {
	return models.NewTimestamp(s.now())
}

// writeJSON записывает v в файл в виде JSON с отступом в два пробела.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
