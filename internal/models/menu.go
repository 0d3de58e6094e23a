package models

import (
	"fmt"
	"strings"
)

// FoodCategory represents the cuisine category of a dish or restaurant
type FoodCategory string

const (
	// Food categories
	CategoryNigerian    FoodCategory = "Local Nigerian"
	CategoryContinental FoodCategory = "Continental"
	CategoryFastFood    FoodCategory = "Fast Food"
	CategoryHealthy     FoodCategory = "Healthy"
	CategoryDessert     FoodCategory = "Dessert"
)

// Categories lists every food category in display order
var Categories = []FoodCategory{
	CategoryNigerian,
	CategoryContinental,
	CategoryFastFood,
	CategoryHealthy,
	CategoryDessert,
}

// ParseCategory matches a category name case-insensitively
func ParseCategory(s string) (FoodCategory, bool) {
	for _, c := range Categories {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, true
		}
	}
	return "", false
}

// MenuItem represents a dish on a restaurant's menu
type MenuItem struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       int64        `json:"price"`
	Image       string       `json:"image"`
	Category    FoodCategory `json:"category"`
	Rating      float64      `json:"rating"`
	PrepTime    string       `json:"prepTime"`
	Ingredients []string     `json:"ingredients"`
}

// Restaurant represents a vendor and its menu
type Restaurant struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Image        string         `json:"image"`
	Rating       float64        `json:"rating"`
	Reviews      int            `json:"reviews"`
	DeliveryFee  int64          `json:"deliveryFee"`
	DeliveryTime string         `json:"deliveryTime"`
	Categories   []FoodCategory `json:"categories"`
	Menu         []MenuItem     `json:"menu"`
}

// ValidateMenuItem validates a menu item
func ValidateMenuItem(item *MenuItem) error {
	if item.ID == "" {
		return fmt.Errorf("menu item id is required")
	}
	if item.Name == "" {
		return fmt.Errorf("menu item name is required")
	}
	if item.Price < 0 {
		return fmt.Errorf("menu item %s price must not be negative", item.ID)
	}
	return nil
}

// ValidateRestaurant validates a restaurant and every item on its menu
func ValidateRestaurant(r *Restaurant) error {
	if r.ID == "" {
		return fmt.Errorf("restaurant id is required")
	}
	if r.Name == "" {
		return fmt.Errorf("restaurant %s name is required", r.ID)
	}
	for i := range r.Menu {
		if err := ValidateMenuItem(&r.Menu[i]); err != nil {
			return fmt.Errorf("restaurant %s: %w", r.ID, err)
		}
	}
	return nil
}

// Serves reports whether the restaurant lists the category
func (r *Restaurant) Serves(category FoodCategory) bool {
	for _, c := range r.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// FindItem returns the menu item with the given id
func (r *Restaurant) FindItem(id string) (MenuItem, bool) {
	for _, item := range r.Menu {
		if item.ID == id {
			return item, true
		}
	}
	return MenuItem{}, false
}
