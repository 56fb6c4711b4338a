package models

// ItemData is what the XML loader extracts for one collection item before any
// validation. Collection.AddGame turns it into a CollectionBoardGame.
//
// Optional values are pointers; nil means the response did not carry them.
type ItemData struct {
	ObjectID  string // raw objectid attribute, empty when absent
	Name      *string
	Image     *string
	Thumbnail *string
	Comment   string

	YearPublished int
	NumPlays      int
	MinPlayers    int
	MaxPlayers    int
	MinPlayTime   int
	MaxPlayTime   int
	PlayingTime   int

	Rating *float64
	Stats  StatsData

	// Status holds every attribute of the item's status element, verbatim.
	Status map[string]string
	// StatsAttrs holds stats element attributes that have no typed field above.
	StatsAttrs map[string]int

	Private *PrivateData
	Version *BoardGameVersion
}

type StatsData struct {
	UsersRated   *int
	Average      *float64
	BayesAverage *float64
	StdDev       *float64
	Median       *float64
	Ranks        []RankData
}

type RankData struct {
	Type         string
	ID           string
	Name         string
	FriendlyName string
	Value        string
	BayesAverage *float64
}

// PrivateData is the raw private ownership block of an item.
type PrivateData struct {
	Comment      string
	Paid         *float64
	Currency     string
	CurrValue    *float64
	CVCurrency   string
	Quantity     string
	AcquiredOn   string
	AcquiredFrom string
	Location     string
}

// NewItemData returns an ItemData with the defaults every response shape shares.
func NewItemData(objectID string) ItemData {
	return ItemData{
		ObjectID: objectID,
		Stats:    StatsData{Ranks: []RankData{}},
	}
}
