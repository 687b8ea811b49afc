package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Game is the canonical catalog entry. Genres is never nil once it went
// through GameFromRaw.
type Game struct {
	ID          int      `json:"id" bson:"gameId"`
	Name        string   `json:"name" bson:"name"`
	Genres      []string `json:"genres" bson:"genres"`
	Rating      float64  `json:"rating" bson:"rating"`
	CoverImage  string   `json:"coverImage,omitempty" bson:"coverImage,omitempty"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
}

// HasAnyGenre reports whether g carries at least one genre of the set.
func (g Game) HasAnyGenre(set map[string]struct{}) bool {
	for _, name := range g.Genres {
		if _, ok := set[name]; ok {
			return true
		}
	}
	return false
}

// GameFromRaw normalizes a raw catalog document. It is the only place that
// looks at the shape of the stored fields; everything downstream assumes
// a well-formed Game.
func GameFromRaw(raw bson.M) Game {
	return Game{
		ID:          AsInt(firstOf(raw, "gameId", "id")),
		Name:        asString(firstOf(raw, "name", "title")),
		Genres:      NormalizeGenres(raw["genres"]),
		Rating:      AsFloat64(raw["rating"]),
		CoverImage:  asString(firstOf(raw, "coverImage", "background_image")),
		Description: asString(firstOf(raw, "description", "description_raw")),
	}
}

// NormalizeGenres turns whatever was stored under "genres" into a list of
// names. Accepted shapes: []string, arrays of strings, arrays of objects with
// a "name" field and a single string. Anything else is an empty list.
func NormalizeGenres(v any) []string {
	out := []string{}

	switch x := v.(type) {
	case string:
		if name := strings.TrimSpace(x); name != "" {
			out = append(out, name)
		}
	case []string:
		for _, s := range x {
			if name := strings.TrimSpace(s); name != "" {
				out = append(out, name)
			}
		}
	case primitive.A:
		out = appendGenreItems(out, []any(x))
	case []any:
		out = appendGenreItems(out, x)
	}
	return out
}

func appendGenreItems(out []string, items []any) []string {
	for _, item := range items {
		var name string
		switch it := item.(type) {
		case string:
			name = it
		case bson.M:
			name = asString(it["name"])
		case map[string]any:
			name = asString(it["name"])
		case bson.D:
			name = asString(it.Map()["name"])
		}
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func firstOf(raw bson.M, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// Safe casts for values decoded into bson.M.
func AsInt(v any) int {
	switch x := v.(type) {
	case int:
		return x
	case int32:
		return int(x)
	case int64:
		return int(x)
	case float64:
		return int(x)
	default:
		return 0
	}
}

func AsInt64(v any) int64 {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case float64:
		return int64(x)
	default:
		return 0
	}
}

func AsFloat64(v any) float64 {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case float64:
		return x
	default:
		return 0
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
