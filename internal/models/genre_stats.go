package models

// GenreStatsDoc is the persisted per-genre view of one genre graph build.
type GenreStatsDoc struct {
	Genre         string   `json:"genre" bson:"genre"`
	Frequency     int      `json:"frequency" bson:"frequency"`
	Weight        float64  `json:"weight" bson:"weight"`
	Complementary []string `json:"complementary" bson:"complementary"`
	Neighbors     []string `json:"neighbors" bson:"neighbors"`
	BuildID       string   `json:"buildId" bson:"buildId"`
	UpdatedAt     string   `json:"updatedAt" bson:"updatedAt"`
}
