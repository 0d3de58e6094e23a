package models

import (
	"time"

	"github.com/jinzhu/gorm"
)

// Receipt records a completed checkout
type Receipt struct {
	gorm.Model
	ReceiptID   string        `gorm:"unique_index" json:"receiptId"`
	SessionID   string        `gorm:"index" json:"sessionId"`
	Lines       []ReceiptLine `gorm:"foreignkey:ReceiptID;association_foreignkey:ReceiptID" json:"lines"`
	Subtotal    int64         `json:"subtotal"`
	DeliveryFee int64         `json:"deliveryFee"`
	Tax         int64         `json:"tax"`
	Total       int64         `json:"total"`
	PlacedAt    time.Time     `json:"placedAt"`
}

// ReceiptLine represents one basket line at the moment of checkout
type ReceiptLine struct {
	gorm.Model
	ReceiptID    string `gorm:"index" json:"-"`
	ItemID       string `json:"itemId"`
	Name         string `json:"name"`
	Price        int64  `json:"price"`
	Quantity     int    `json:"quantity"`
	RestaurantID string `json:"restaurantId"`
}
