// Package pharmacy lists nearby pharmacies from a fixed directory.
package pharmacy

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"sehat-sathi-server/internal/models"
)

var (
	ErrInvalidPosition  = errors.New("latitude must be within [-90, 90] and longitude within [-180, 180]")
	ErrLocationRequired = errors.New("location is required")
)

// LocationOptions are the options clients pass to the device location API.
type LocationOptions struct {
	EnableHighAccuracy bool  `json:"enableHighAccuracy"`
	TimeoutMs          int64 `json:"timeout"`
	MaximumAgeMs       int64 `json:"maximumAge"`
}

// Listing is a sorted pharmacy listing and the position it was measured from.
type Listing struct {
	Pharmacies []models.Pharmacy `json:"pharmacies"`
	SortBy     SortMode          `json:"sortBy"`
	Origin     *Position         `json:"origin,omitempty"`
	Location   string            `json:"location,omitempty"`
}

type Service struct {
	cache   PositionCache
	options LocationOptions
	logger  zerolog.Logger
	now     func() time.Time
}

func NewService(cache PositionCache, highAccuracy bool, timeout, maxAge time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		cache: cache,
		options: LocationOptions{
			EnableHighAccuracy: highAccuracy,
			TimeoutMs:          timeout.Milliseconds(),
			MaximumAgeMs:       maxAge.Milliseconds(),
		},
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) Options() LocationOptions {
	return s.options
}

// ValidPosition reports whether lat/lng are real coordinates.
func ValidPosition(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Nearby lists the directory sorted by mode. A supplied position is cached
// and used for distances; without one a fresh cached position is reused, and
// failing that the directory's default distances are kept.
func (s *Service) Nearby(ctx context.Context, userID string, pos *Position, mode SortMode) (*Listing, error) {
	if pos != nil {
		if !ValidPosition(pos.Lat, pos.Lng) {
			return nil, ErrInvalidPosition
		}
		pos.CapturedAt = s.now().UTC()
		if err := s.cache.Put(ctx, userID, *pos); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to cache position")
		}
	} else {
		cached, ok, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to read cached position")
		} else if ok {
			pos = &cached
		}
	}

	listing := &Listing{SortBy: mode}
	pharmacies := Directory()
	if pos != nil {
		pharmacies = WithDistancesFrom(pharmacies, pos.Lat, pos.Lng)
		listing.Origin = pos
		listing.Location = "Current Location"
	}
	listing.Pharmacies = Sort(pharmacies, mode)
	return listing, nil
}

// Search lists the directory for a manually entered area. Distances are the
// directory defaults since the area is not geocoded.
func (s *Service) Search(_ context.Context, location string, mode SortMode) (*Listing, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrLocationRequired
	}
	return &Listing{
		Pharmacies: Sort(Directory(), mode),
		SortBy:     mode,
		Location:   location,
	}, nil
}
