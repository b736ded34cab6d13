package product

import (
	"time"

	"github.com/google/uuid"
)

const (
	CategoryLaser       = "laser"
	CategoryPrinting3D  = "printing3d"
	CategorySublimation = "sublimation"
)

// categoryFolders maps a category to its object-storage folder prefix.
var categoryFolders = map[string]string{
	CategoryLaser:       "laser/",
	CategoryPrinting3D:  "3d/",
	CategorySublimation: "sublimation/",
}

func ValidCategory(c string) bool {
	_, ok := categoryFolders[c]
	return ok
}

// FolderFor returns the storage folder prefix for a category, e.g. "3d/".
func FolderFor(category string) string { return categoryFolders[category] }

type (
	UUID    = uuid.UUID
	Product struct {
		UUID        UUID
		Category    string
		Name        string
		Description string
		Tags        []string

		FileKey  string
		ImageKey string
		FileName string

		Downloads int64

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	Products []*Product
)

// MatchesTerm reports whether the product matches a case-insensitive
// substring search over name, description and tags. term must already be
// lower-cased by the caller.
func (p *Product) MatchesTerm(term string) bool {
	if term == "" {
		return true
	}
	if containsFold(p.Name, term) || containsFold(p.Description, term) {
		return true
	}
	for _, t := range p.Tags {
		if containsFold(t, term) {
			return true
		}
	}
	return false
}
