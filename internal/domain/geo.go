package domain

import "encoding/json"

// GeoFeature is one neighborhood boundary. Feature holds the complete GeoJSON
// feature so it can be handed to the map backdrop untouched.
type GeoFeature struct {
	Name         string
	GeometryType string
	Feature      json.RawMessage
}

// GeoStore holds the neighborhood backdrop. Like Store it is read-only after
// construction and is never joined against crash records.
type GeoStore struct {
	features []GeoFeature
}

// NewGeoStore copies features into a GeoStore.
func NewGeoStore(features []GeoFeature) *GeoStore {
	owned := make([]GeoFeature, len(features))
	copy(owned, features)
	return &GeoStore{features: owned}
}

// Len returns the number of features.
func (g *GeoStore) Len() int { return len(g.features) }

// Features returns the raw GeoJSON of every feature in load order.
func (g *GeoStore) Features() []json.RawMessage {
	out := make([]json.RawMessage, len(g.features))
	for i, f := range g.features {
		out[i] = f.Feature
	}
	return out
}

// Names returns the feature names in load order.
func (g *GeoStore) Names() []string {
	out := make([]string, len(g.features))
	for i, f := range g.features {
		out[i] = f.Name
	}
	return out
}
