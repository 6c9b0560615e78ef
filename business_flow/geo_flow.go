package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/oohgrid/oohgrid/app/dto"
	"github.com/oohgrid/oohgrid/models"
	"github.com/oohgrid/oohgrid/repository"
	"github.com/redis/go-redis/v9"
)

// DefaultCountryCode is used when the client does not request a country
const DefaultCountryCode = "CN"

const geoCacheTTL = 6 * time.Hour

// GeoFlow exposes the read-only geo catalog
type GeoFlow interface {
	ListDivisions(ctx context.Context, countryCode string) ([]dto.GeoDivisionDTO, error)
	ResolveCities(ctx context.Context, selections []string) ([]models.CityRecord, error)
}

// GeoFlowImpl implements the GeoFlow interface
type GeoFlowImpl struct {
	geoRepo     repository.GeoDivisionRepository
	redisClient *redis.Client
	cachePrefix string
}

// NewGeoFlow creates a new geo flow
func NewGeoFlow(
	geoRepo repository.GeoDivisionRepository,
	redisClient *redis.Client,
	cachePrefix string,
) GeoFlow {
	return &GeoFlowImpl{
		geoRepo:     geoRepo,
		redisClient: redisClient,
		cachePrefix: cachePrefix,
	}
}

// ListDivisions returns the divisions of a country ordered by name. The
// catalog is immutable reference data, so responses are cached in redis.
func (f *GeoFlowImpl) ListDivisions(ctx context.Context, countryCode string) ([]dto.GeoDivisionDTO, error) {
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	countryCode = strings.ToUpper(countryCode)

	cacheKey := fmt.Sprintf("%s:geo:divisions:%s", f.cachePrefix, countryCode)

	if f.redisClient != nil {
		if raw, err := f.redisClient.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached []dto.GeoDivisionDTO
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	divisions, err := f.geoRepo.ListByCountry(ctx, countryCode)
	if err != nil {
		return nil, NewBusinessError("GEO_LIST_FAILED", "Failed to load geo divisions", err)
	}

	out := make([]dto.GeoDivisionDTO, 0, len(divisions))
	for _, d := range divisions {
		out = append(out, dto.GeoDivisionDTO{ID: d.DivisionID, Name: d.Name})
	}

	if f.redisClient != nil {
		if raw, err := json.Marshal(out); err == nil {
			f.redisClient.Set(ctx, cacheKey, raw, geoCacheTTL)
		}
	}

	return out, nil
}

// ResolveCities validates the requested division ids and returns normalized
// records. Any unknown id fails the whole call listing every bad id, so a
// campaign can never silently reference non-existent geography.
func (f *GeoFlowImpl) ResolveCities(ctx context.Context, selections []string) ([]models.CityRecord, error) {
	if len(selections) == 0 {
		return nil, nil
	}

	divisions, err := f.geoRepo.ByDivisionIDs(ctx, selections)
	if err != nil {
		return nil, NewBusinessError("GEO_RESOLVE_FAILED", "Failed to resolve city selections", err)
	}

	byID := make(map[string]*models.GeoDivision, len(divisions))
	for _, d := range divisions {
		byID[d.DivisionID] = d
	}

	var missing []string
	resolved := make([]models.CityRecord, 0, len(selections))
	for _, id := range selections {
		d, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		resolved = append(resolved, models.CityRecord{ID: d.DivisionID, Name: d.Name})
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, NewBusinessErrorf("CITY_NOT_FOUND",
			"Invalid city selections (not found in geo table): %v", ErrCityNotFound, missing)
	}

	return resolved, nil
}
