package domain

// Item is one entry of the catalog: a product whose price players guess.
// The catalog is supplied at startup and never changes during a session.
type Item struct {
	ID    string  `json:"id" yaml:"id"`
	Name  string  `json:"name" yaml:"name"`
	Usage string  `json:"usage" yaml:"usage"`
	Image string  `json:"image" yaml:"image"`
	Price float64 `json:"price" yaml:"price"`
}

// PublicItem is the view of an item sent to players while guessing is open.
// It never carries the price; only the reveal event discloses that.
type PublicItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Usage string `json:"usage"`
	Image string `json:"image"`
}

// ToPublic converts an Item to its PublicItem view (without the price)
func (i *Item) ToPublic() PublicItem {
	return PublicItem{
		ID:    i.ID,
		Name:  i.Name,
		Usage: i.Usage,
		Image: i.Image,
	}
}
