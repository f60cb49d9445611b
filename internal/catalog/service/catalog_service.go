package service

import (
	"context"
	"sort"
	"strings"

	"github.com/karigar-kart/karigar-backend/internal/directory/domain"
	"github.com/karigar-kart/karigar-backend/internal/directory/repository"
)

// Sort orders for worker discovery.
const (
	SortByRating = "rating" // highest first (default)
	SortByRate   = "rate"   // cheapest first
	SortByJobs   = "jobs"   // most jobs done first
)

// Filters narrows worker discovery. Zero values mean "no constraint".
type Filters struct {
	Category  domain.ServiceCategory
	Query     string
	Area      string
	MinRating float64
	SortBy    string
}

// CatalogService answers worker discovery queries: category, free-text
// and rating filters over the directory, applied in-service.
type CatalogService struct {
	directory repository.Directory
}

func NewCatalogService(directory repository.Directory) *CatalogService {
	return &CatalogService{directory: directory}
}

// Search lists workers matching every supplied filter, sorted per
// f.SortBy (rating descending when unset).
func (s *CatalogService) Search(ctx context.Context, f Filters) ([]domain.WorkerRecord, error) {
	workers, err := s.directory.ListWorkers(ctx)
	if err != nil {
		return nil, err
	}

	var out []domain.WorkerRecord
	for _, w := range workers {
		if !matches(w, f) {
			continue
		}
		out = append(out, w)
	}

	sortWorkers(out, f.SortBy)
	return out, nil
}

// Get returns one worker's profile.
func (s *CatalogService) Get(ctx context.Context, workerID string) (*domain.WorkerRecord, error) {
	return s.directory.GetWorker(ctx, workerID)
}

func matches(w domain.WorkerRecord, f Filters) bool {
	if f.Category != "" && !w.HasSkill(f.Category) {
		return false
	}
	if f.Area != "" && !strings.EqualFold(w.Area, f.Area) {
		return false
	}
	if w.Rating < f.MinRating {
		return false
	}
	if f.Query != "" && !matchesQuery(w, f.Query) {
		return false
	}
	return true
}

// matchesQuery does a case-insensitive substring match over name,
// area and skills, the way the dashboard search box behaves.
func matchesQuery(w domain.WorkerRecord, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(w.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(w.Area), q) {
		return true
	}
	for _, skill := range w.Skills {
		if strings.Contains(strings.ToLower(string(skill)), q) {
			return true
		}
	}
	return false
}

func sortWorkers(workers []domain.WorkerRecord, sortBy string) {
	switch sortBy {
	case SortByRate:
		sort.SliceStable(workers, func(i, j int) bool {
			return workers[i].HourlyRate < workers[j].HourlyRate
		})
	case SortByJobs:
		sort.SliceStable(workers, func(i, j int) bool {
			return workers[i].JobsDone > workers[j].JobsDone
		})
	default:
		sort.SliceStable(workers, func(i, j int) bool {
			return workers[i].Rating > workers[j].Rating
		})
	}
}
