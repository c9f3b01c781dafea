// Package geojson loads the neighborhood boundaries drawn behind the crash map.
package geojson

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	geo "github.com/paulmach/go.geojson"

	"github.com/couchcryptid/crash-map-dashboard/internal/domain"
)

// nameProperties are tried in order when naming a feature. The City of
// Chicago neighborhood export uses pri_neigh.
var nameProperties = []string{"pri_neigh", "name", "community", "sec_neigh"}

// LoadFile reads a FeatureCollection from path.
func LoadFile(path string) (*domain.GeoStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read geojson: %w", err)
	}
	return Parse(data)
}

// Parse decodes a FeatureCollection and keeps its polygon and multipolygon
// features. Other geometry types cannot be drawn as outlines and are rejected.
func Parse(data []byte) (*domain.GeoStore, error) {
	fc, err := geo.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse geojson: %w: %w", domain.ErrMalformed, err)
	}

	features := make([]domain.GeoFeature, 0, len(fc.Features))
	for i, f := range fc.Features {
		if f.Geometry == nil {
			return nil, fmt.Errorf("%w: feature %d: missing geometry", domain.ErrMalformed, i)
		}
		if !f.Geometry.IsPolygon() && !f.Geometry.IsMultiPolygon() {
			return nil, fmt.Errorf("%w: feature %d: unsupported geometry %q", domain.ErrMalformed, i, f.Geometry.Type)
		}

		raw, err := json.Marshal(f)
		if err != nil {
			return nil, fmt.Errorf("feature %d: encode: %w", i, err)
		}
		features = append(features, domain.GeoFeature{
			Name:         featureName(f),
			GeometryType: string(f.Geometry.Type),
			Feature:      raw,
		})
	}
	return domain.NewGeoStore(features), nil
}

func featureName(f *geo.Feature) string {
	for _, key := range nameProperties {
		if s, ok := f.Properties[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Source reads a boundary file from disk on every Extract.
type Source struct {
	Path string
}

// Extract loads the feature collection.
func (s Source) Extract(_ context.Context) (*domain.GeoStore, error) {
	return LoadFile(s.Path)
}
