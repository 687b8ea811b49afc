package cluster

import "gamerec/internal/models"

const (
	OpFetchAll      = "fetch_all"
	OpFetchByGenres = "fetch_by_genres"
	OpSearch        = "search"
)

// CatalogTask is sent by the API to a catalog node, one per connection.
type CatalogTask struct {
	Op     string   `json:"op"`
	Pages  int      `json:"pages,omitempty"`
	Genres []string `json:"genres,omitempty"`
	Query  string   `json:"query,omitempty"`
}

// CatalogResponse carries either games or the node-side error message.
type CatalogResponse struct {
	NodeID string        `json:"nodeId,omitempty"`
	Games  []models.Game `json:"games"`
	Error  string        `json:"error,omitempty"`
}
