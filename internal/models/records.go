package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/jinzhu/gorm"
)

// StringSlice represents a slice of strings that can be stored in the database
type StringSlice []string

// Value converts the slice to a JSON string for storage
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan converts the database value back to a slice
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("unsupported type for StringSlice")
	}
}

// RestaurantRecord is the stored form of a Restaurant
type RestaurantRecord struct {
	gorm.Model
	RestaurantID string `gorm:"unique_index"`
	Position     int
	Name         string
	Image        string
	Rating       float64
	Reviews      int
	DeliveryFee  int64
	DeliveryTime string
	Categories   StringSlice      `gorm:"type:text"`
	Items        []MenuItemRecord `gorm:"foreignkey:RestaurantID;association_foreignkey:RestaurantID"`
}

// TableName sets the table name for RestaurantRecord
func (RestaurantRecord) TableName() string {
	return "restaurants"
}

// MenuItemRecord is the stored form of a MenuItem
type MenuItemRecord struct {
	gorm.Model
	ItemID       string `gorm:"unique_index"`
	RestaurantID string `gorm:"index"`
	Position     int
	Name         string
	Description  string `gorm:"type:text"`
	Price        int64
	Image        string
	Category     string
	Rating       float64
	PrepTime     string
	Ingredients  StringSlice `gorm:"type:text"`
}

// TableName sets the table name for MenuItemRecord
func (MenuItemRecord) TableName() string {
	return "menu_items"
}

// NewRestaurantRecord converts a restaurant into its stored form
func NewRestaurantRecord(r Restaurant, position int) RestaurantRecord {
	cats := make(StringSlice, len(r.Categories))
	for i, c := range r.Categories {
		cats[i] = string(c)
	}
	rec := RestaurantRecord{
		RestaurantID: r.ID,
		Position:     position,
		Name:         r.Name,
		Image:        r.Image,
		Rating:       r.Rating,
		Reviews:      r.Reviews,
		DeliveryFee:  r.DeliveryFee,
		DeliveryTime: r.DeliveryTime,
		Categories:   cats,
	}
	for i, item := range r.Menu {
		rec.Items = append(rec.Items, MenuItemRecord{
			ItemID:       item.ID,
			RestaurantID: r.ID,
			Position:     i,
			Name:         item.Name,
			Description:  item.Description,
			Price:        item.Price,
			Image:        item.Image,
			Category:     string(item.Category),
			Rating:       item.Rating,
			PrepTime:     item.PrepTime,
			Ingredients:  StringSlice(item.Ingredients),
		})
	}
	return rec
}

// Restaurant converts the record back into the domain type
func (rec *RestaurantRecord) Restaurant() Restaurant {
	r := Restaurant{
		ID:           rec.RestaurantID,
		Name:         rec.Name,
		Image:        rec.Image,
		Rating:       rec.Rating,
		Reviews:      rec.Reviews,
		DeliveryFee:  rec.DeliveryFee,
		DeliveryTime: rec.DeliveryTime,
		Categories:   make([]FoodCategory, len(rec.Categories)),
		Menu:         make([]MenuItem, 0, len(rec.Items)),
	}
	for i, c := range rec.Categories {
		r.Categories[i] = FoodCategory(c)
	}
	for _, item := range rec.Items {
		r.Menu = append(r.Menu, MenuItem{
			ID:          item.ItemID,
			Name:        item.Name,
			Description: item.Description,
			Price:       item.Price,
			Image:       item.Image,
			Category:    FoodCategory(item.Category),
			Rating:      item.Rating,
			PrepTime:    item.PrepTime,
			Ingredients: []string(item.Ingredients),
		})
	}
	return r
}
