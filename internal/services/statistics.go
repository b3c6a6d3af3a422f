package services

import (
	"os"
	"sync"

	"compresspdf/internal/domain/compression"
)

// AppStats represents session usage statistics
type AppStats struct {
	FilesCompressed int   `json:"files_compressed"`
	FilesFailed     int   `json:"files_failed"`
	DataSaved       int64 `json:"data_saved"`
}

// StatisticsService accumulates per-session compression statistics.
type StatisticsService struct {
	mu    sync.Mutex
	stats AppStats
	stat  func(string) (os.FileInfo, error)
}

// NewStatisticsService creates an empty statistics service.
func NewStatisticsService() *StatisticsService {
	return &StatisticsService{stat: os.Stat}
}

// Record updates the counters for one finished request. Bytes saved are only
// counted when both files can be measured.
func (s *StatisticsService) Record(sourcePath string, outcome compression.Outcome) {
	var saved int64
	if outcome.Success {
		if src, err := s.stat(sourcePath); err == nil {
			if out, err := s.stat(outcome.OutputPath); err == nil {
				saved = src.Size() - out.Size()
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if outcome.Success {
		s.stats.FilesCompressed++
		s.stats.DataSaved += saved
	} else {
		s.stats.FilesFailed++
	}
}

// GetStats returns a snapshot of the statistics.
func (s *StatisticsService) GetStats() AppStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}
