package catalog

// CreateTicketInput carries the fields accepted when registering a ticket.
// The service assigns id, autoId and createdAt itself.
type CreateTicketInput struct {
	Country       string
	Continent     string
	Entity        string
	Type          string
	ExtractionNo  string
	DrawDate      string
	Value         string
	Dimensions    string
	State         string
	Notes         string
	FrontImageURL string
	BackImageURL  string
	IsFavorite    bool
}

// UpdateTicketInput merges over an existing ticket; nil fields are left
// untouched. Identity fields (id, createdAt) are never part of the merge.
type UpdateTicketInput struct {
	Country       *string
	Continent     *string
	Entity        *string
	Type          *string
	ExtractionNo  *string
	DrawDate      *string
	Value         *string
	Dimensions    *string
	State         *string
	Notes         *string
	FrontImageURL *string
	BackImageURL  *string
	IsFavorite    *bool
}

// ListFilter selects and orders the displayable view of the archive. All
// predicates are ANDed together; empty values match everything.
type ListFilter struct {
	Search         string
	Continent      string
	Country        string
	FavoritesOnly  bool
	DuplicatesOnly bool
}

// CollectionStats summarizes the archive for the insights dashboard.
type CollectionStats struct {
	TotalItems         int            `json:"totalItems"`
	ByContinent        map[string]int `json:"byContinent"`
	ByState            map[string]int `json:"byState"`
	ByCountry          map[string]int `json:"byCountry"`
	FavoriteCount      int            `json:"favoriteCount"`
	DuplicateCount     int            `json:"duplicateCount"`
	TotalDeclaredValue string         `json:"totalDeclaredValue"`
}
