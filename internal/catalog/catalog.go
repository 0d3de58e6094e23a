package catalog

import (
	"context"
	"fmt"
	"strings"

	"olif/internal/models"
)

// Source supplies the restaurants the catalog is built from
type Source interface {
	ListRestaurants(ctx context.Context) ([]models.Restaurant, error)
}

// Entry is a menu item together with the restaurant that serves it
type Entry struct {
	Item         models.MenuItem `json:"item"`
	RestaurantID string          `json:"restaurantId"`
}

// Catalog is the read-only set of restaurants and their menus.
// It is safe for concurrent use.
type Catalog struct {
	restaurants []models.Restaurant
	items       map[string]Entry
}

// New builds a catalog, rejecting invalid restaurants and duplicate item ids.
func New(restaurants []models.Restaurant) (*Catalog, error) {
	c := &Catalog{
		restaurants: make([]models.Restaurant, 0, len(restaurants)),
		items:       make(map[string]Entry),
	}
	seen := make(map[string]bool)
	for i := range restaurants {
		r := restaurants[i]
		if err := models.ValidateRestaurant(&r); err != nil {
			return nil, err
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("duplicate restaurant id: %s", r.ID)
		}
		seen[r.ID] = true
		for _, item := range r.Menu {
			if _, dup := c.items[item.ID]; dup {
				return nil, fmt.Errorf("duplicate menu item id: %s", item.ID)
			}
			c.items[item.ID] = Entry{Item: item, RestaurantID: r.ID}
		}
		c.restaurants = append(c.restaurants, r)
	}
	return c, nil
}

// Load builds a catalog from a source
func Load(ctx context.Context, src Source) (*Catalog, error) {
	restaurants, err := src.ListRestaurants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load restaurants: %w", err)
	}
	return New(restaurants)
}

// Restaurants returns every restaurant in catalog order
func (c *Catalog) Restaurants() []models.Restaurant {
	out := make([]models.Restaurant, len(c.restaurants))
	copy(out, c.restaurants)
	return out
}

// Restaurant looks up a restaurant by id
func (c *Catalog) Restaurant(id string) (models.Restaurant, bool) {
	for _, r := range c.restaurants {
		if r.ID == id {
			return r, true
		}
	}
	return models.Restaurant{}, false
}

// Item looks up a menu item by id
func (c *Catalog) Item(id string) (Entry, bool) {
	e, ok := c.items[id]
	return e, ok
}

// FindByName resolves free text to a menu item: the first item, in catalog
// order, whose name contains the text case-insensitively. Blank text never matches.
func (c *Catalog) FindByName(name string) (Entry, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return Entry{}, false
	}
	for _, r := range c.restaurants {
		for _, item := range r.Menu {
			if strings.Contains(strings.ToLower(item.Name), needle) {
				return Entry{Item: item, RestaurantID: r.ID}, true
			}
		}
	}
	return Entry{}, false
}

// Filter returns the restaurants serving category (empty means all) whose
// name contains query case-insensitively.
func (c *Catalog) Filter(category models.FoodCategory, query string) []models.Restaurant {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Restaurant, 0, len(c.restaurants))
	for i := range c.restaurants {
		r := &c.restaurants[i]
		if category != "" && !r.Serves(category) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(r.Name), q) {
			continue
		}
		out = append(out, *r)
	}
	return out
}

// ItemNames lists every dish name in catalog order
func (c *Catalog) ItemNames() []string {
	names := make([]string, 0, len(c.items))
	for _, r := range c.restaurants {
		for _, item := range r.Menu {
			names = append(names, item.Name)
		}
	}
	return names
}
