package tours

import (
	"context"
	"errors"
	"log/slog"

	"natours/internal/utils/sanitize"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// DefaultRatingsAverage is assigned to tours created without ratings.
const DefaultRatingsAverage = 4.5

// geoJSONPoint is the only supported location geometry.
const geoJSONPoint = "Point"

// Service handles tours business logic
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService creates a new tours service
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Create creates a new tour, applying defaults and sanitizing free text.
func (s *Service) Create(ctx context.Context, req CreateTourRequest) (*Tour, error) {
	tour := &Tour{
		ID:              bson.NewObjectID(),
		Name:            sanitize.Clean(req.Name),
		Duration:        req.Duration,
		Difficulty:      req.Difficulty,
		Price:           req.Price,
		MaxGroupSize:    req.MaxGroupSize,
		Summary:         sanitize.Clean(req.Summary),
		Description:     sanitize.Clean(req.Description),
		ImageCover:      req.ImageCover,
		RatingsAverage:  req.RatingsAverage,
		RatingsQuantity: req.RatingsQuantity,
		Images:          req.Images,
		StartDates:      req.StartDates,
		StartLocation:   normalizeLocation(req.StartLocation),
		Locations:       normalizeLocations(req.Locations),
		Guides:          req.Guides,
	}

	if tour.RatingsAverage == 0 {
		tour.RatingsAverage = DefaultRatingsAverage
	}

	if err := s.repo.Create(ctx, tour); err != nil {
		if errors.Is(err, ErrDuplicateName) {
			return nil, ErrDuplicateName
		}
		s.log.Error(ErrCreateTour.Error(), "error", err, "name", tour.Name)
		return nil, ErrCreateTour
	}

	return tour, nil
}

// GetAll executes one composed query built from the raw request params.
func (s *Service) GetAll(ctx context.Context, params map[string]string) ([]*Tour, error) {
	q := BuildQuery(params)

	list, err := s.repo.Find(ctx, q)
	if err != nil {
		s.log.Error(ErrListTours.Error(), "error", err)
		return nil, ErrListTours
	}
	return list, nil
}

// GetByID fetches a single tour.
func (s *Service) GetByID(ctx context.Context, id bson.ObjectID) (*Tour, error) {
	tour, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTourNotFound) {
			return nil, ErrTourNotFound
		}
		s.log.Error("failed to fetch tour", "error", err, "tour_id", id.Hex())
		return nil, err
	}
	return tour, nil
}

// Update applies a re-validated partial update.
func (s *Service) Update(ctx context.Context, id bson.ObjectID, req UpdateTourRequest) (*Tour, error) {
	if req.Name != nil {
		cleaned := sanitize.Clean(*req.Name)
		req.Name = &cleaned
	}
	if req.Summary != nil {
		cleaned := sanitize.Clean(*req.Summary)
		req.Summary = &cleaned
	}
	if req.Description != nil {
		cleaned := sanitize.Clean(*req.Description)
		req.Description = &cleaned
	}
	if req.StartLocation != nil {
		req.StartLocation = normalizeLocation(req.StartLocation)
	}
	req.Locations = normalizeLocations(req.Locations)

	tour, err := s.repo.UpdateByID(ctx, id, req)
	if err != nil {
		if errors.Is(err, ErrTourNotFound) {
			return nil, ErrTourNotFound
		}
		if errors.Is(err, ErrDuplicateName) {
			return nil, ErrDuplicateName
		}
		s.log.Error(ErrUpdateTour.Error(), "error", err, "tour_id", id.Hex())
		return nil, ErrUpdateTour
	}

	return tour, nil
}

// Delete removes a tour. No soft-delete.
func (s *Service) Delete(ctx context.Context, id bson.ObjectID) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, ErrTourNotFound) {
			return ErrTourNotFound
		}
		s.log.Error(ErrDeleteTour.Error(), "error", err, "tour_id", id.Hex())
		return ErrDeleteTour
	}
	return nil
}

// Stats runs the fixed per-difficulty price report.
func (s *Service) Stats(ctx context.Context) ([]TourStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		s.log.Error(ErrTourStats.Error(), "error", err)
		return nil, ErrTourStats
	}
	return stats, nil
}

func normalizeLocation(loc *Location) *Location {
	if loc == nil {
		return nil
	}
	if loc.Type == "" {
		loc.Type = geoJSONPoint
	}
	return loc
}

func normalizeLocations(locs []Location) []Location {
	for i := range locs {
		if locs[i].Type == "" {
			locs[i].Type = geoJSONPoint
		}
	}
	return locs
}
