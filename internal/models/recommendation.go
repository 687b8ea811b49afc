package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Recommendation struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"   json:"id"`
	RequestID    string             `bson:"requestId"       json:"requestId"`
	UserID       int                `bson:"userId"          json:"userId"`
	OwnedGameIDs []int              `bson:"ownedGameIds"    json:"ownedGameIds"`
	Stages       []StageOutcome     `bson:"stages"          json:"stages"`
	Items        []Game             `bson:"items"           json:"items"`
	CreatedAt    time.Time          `bson:"createdAt"       json:"createdAt"`
}

// StageOutcome records how one step of the recommendation pipeline went.
type StageOutcome struct {
	Stage string `bson:"stage"           json:"stage"`
	Items int    `bson:"items"           json:"items"`
	Error string `bson:"error,omitempty" json:"error,omitempty"`
}

// ====== Genre graph summaries (for /admin/genres) ======

type GenreSummaryItem struct {
	Genre         string   `json:"genre"`
	Frequency     int      `json:"frequency"`
	Weight        float64  `json:"weight"`
	Degree        int      `json:"degree"`
	Complementary []string `json:"complementary"`
}

type GenreSummary struct {
	BuildID string             `json:"buildId"`
	BuiltAt time.Time          `json:"builtAt"`
	Games   int                `json:"games"`
	Genres  int                `json:"genres"`
	Edges   int                `json:"edges"`
	Items   []GenreSummaryItem `json:"items"`
}

type RelatedGenres struct {
	Genre   string   `json:"genre"`
	Depth   int      `json:"depth"`
	Related []string `json:"related"`
}
