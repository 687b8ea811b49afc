package models

// What is stored in Mongo: one document per owned game.
type LibraryDoc struct {
	UserID  int   `json:"userId" bson:"userId"`
	GameID  int   `json:"gameId" bson:"gameId"`
	AddedAt int64 `json:"addedAt" bson:"addedAt"`
}

// LibraryEntry is what the API returns: the ownership record with the game
// resolved from the catalog.
type LibraryEntry struct {
	AddedAt int64 `json:"addedAt"`
	Game    Game  `json:"game"`
}
