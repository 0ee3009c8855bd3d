package domain

// Attraction is one entry of the attractions dataset.
type Attraction struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Price       string   `json:"price"` // display string, e.g. "€14"
	Image       string   `json:"image"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

const TagMustSee = "must_see"

func (a Attraction) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
