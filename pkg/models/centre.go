package models

// Centre is the official/reference entity (product, service, or campus) a page
// is compared against. OfficialFactsCache holds the serialized fact sheet last
// extracted from the centre's reference page; it is the only centre field the
// engine writes.
type Centre struct {
	ID                 string
	Name               string
	ReferencePageURL   string
	OfficialFactsCache string
	Price              string
	Active             bool
}
