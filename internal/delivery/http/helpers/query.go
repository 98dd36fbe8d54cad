package helpers

import (
	"fmt"
	"net/http"
	"strconv"

	"meetupfinder/internal/domain"
)

// ParseLocation reads the lon and lat query parameters. It returns nil when
// both are absent and an error when only one is given or either is out of range.
func ParseLocation(r *http.Request) (*domain.Point, error) {
	q := r.URL.Query()
	lonRaw, latRaw := q.Get("lon"), q.Get("lat")
	if lonRaw == "" && latRaw == "" {
		return nil, nil
	}
	if lonRaw == "" || latRaw == "" {
		return nil, fmt.Errorf("lon and lat must be given together")
	}
	lon, err := strconv.ParseFloat(lonRaw, 64)
	if err != nil || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("invalid lon %q", lonRaw)
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, fmt.Errorf("invalid lat %q", latRaw)
	}
	return &domain.Point{Lng: lon, Lat: lat}, nil
}

// ParseSearchFilter builds a proximity filter from lon, lat, max_distance and limit.
// Zero values for the last two leave the service defaults in place.
func ParseSearchFilter(r *http.Request, when domain.TimeWindow) (domain.SearchFilter, error) {
	filter := domain.SearchFilter{When: when}
	loc, err := ParseLocation(r)
	if err != nil {
		return filter, err
	}
	filter.Location = loc

	q := r.URL.Query()
	if s := q.Get("max_distance"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 {
			return filter, fmt.Errorf("invalid max_distance %q", s)
		}
		filter.MaxDistanceMeters = v
	}
	if s := q.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return filter, fmt.Errorf("invalid limit %q", s)
		}
		filter.Limit = min(v, MaxPageSize)
	}
	return filter, nil
}
