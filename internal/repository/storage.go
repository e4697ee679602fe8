package repository

import (
	"fmt"
	"sync"

	models "github.com/RoGogDBD/writer-test/internal/model"
)

// Store определяет интерфейс постоянного хранилища счётчика.
//
// Хранит текущее значение счётчика, номер поколения и снимки.
type Store interface {
	// MaxCount возвращает верхнюю границу счётчика.
	MaxCount() int64
	// LoadCount возвращает сохранённую запись или создаёт новую с нулём.
	LoadCount() (models.CountRecord, error)
	// IncrementCount сохраняет и возвращает запись со значением Count+1.
	// На максимуме возвращает rec без изменений.
	IncrementCount(rec models.CountRecord) (models.CountRecord, error)
	// LoadGeneration возвращает текущее поколение или 0.
	LoadGeneration() int64
	// IncrementGeneration увеличивает поколение на единицу и возвращает новое значение.
	IncrementGeneration() (int64, error)
	// ClearAll обнуляет счётчик и удаляет все снимки.
	ClearAll() error
	// WriteSnapshot создаёт новый снимок и возвращает его имя.
	WriteSnapshot(count int64) (string, error)
}

// MemStore реализует интерфейс Store в памяти.
//
// Используется там, где не нужна запись на диск. Все методы защищены мьютексом.
type MemStore struct {
	maxCount   int64
	count      models.CountRecord
	hasCount   bool
	generation models.GenerationRecord
	snapshots  []models.SnapshotRecord
	mu         sync.RWMutex
}

// NewMemStore создаёт пустое хранилище в памяти с верхней границей maxCount.
func NewMemStore(maxCount int64) *MemStore {
	return &MemStore{maxCount: maxCount}
}

// MaxCount возвращает верхнюю границу счётчика.
func (s *MemStore) MaxCount() int64 {
	return s.maxCount
}

// LoadCount возвращает текущую запись, при первом вызове создаёт нулевую.
func (s *MemStore) LoadCount() (models.CountRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasCount || s.count.Count < 0 {
		s.count = models.CountRecord{LastUpdated: models.Now()}
		s.hasCount = true
	}
	if s.count.Count > s.maxCount {
		return models.CountRecord{Count: s.maxCount, LastUpdated: models.Now()}, nil
	}
	return s.count, nil
}

// IncrementCount сохраняет запись со значением rec.Count+1.
func (s *MemStore) IncrementCount(rec models.CountRecord) (models.CountRecord, error) {
	if rec.Count >= s.maxCount {
		return rec, nil
	}
	next := models.CountRecord{Count: rec.Count + 1, LastUpdated: models.Now()}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count = next
	s.hasCount = true
	return next, nil
}

// LoadGeneration возвращает текущее поколение.
func (s *MemStore) LoadGeneration() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation.Generation
}

// IncrementGeneration увеличивает поколение на единицу.
func (s *MemStore) IncrementGeneration() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation = models.GenerationRecord{
		Generation: s.generation.Generation + 1,
		LastReset:  models.Now(),
	}
	return s.generation.Generation, nil
}

// ClearAll обнуляет счётчик и удаляет все снимки.
func (s *MemStore) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count = models.CountRecord{LastUpdated: models.Now()}
	s.hasCount = true
	s.snapshots = nil
	return nil
}

// WriteSnapshot добавляет снимок и возвращает его порядковое имя.
func (s *MemStore) WriteSnapshot(count int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, models.SnapshotRecord{Count: count, Timestamp: models.Now()})
	return fmt.Sprintf("snapshot-%d", len(s.snapshots)), nil
}

// SnapshotRecords возвращает копию всех снимков в порядке создания.
func (s *MemStore) SnapshotRecords() []models.SnapshotRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SnapshotRecord, len(s.snapshots))
	copy(out, s.snapshots)
	return out
}
