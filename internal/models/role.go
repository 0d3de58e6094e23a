package models

import "strings"

// UserRole represents which dashboard the storefront shows
type UserRole string

const (
	RoleCustomer UserRole = "Customer"
	RoleVendor   UserRole = "Vendor"
	RoleRider    UserRole = "Rider"
	RoleAdmin    UserRole = "Admin"
)

// ParseRole matches a role name case-insensitively
func ParseRole(s string) (UserRole, bool) {
	for _, r := range []UserRole{RoleCustomer, RoleVendor, RoleRider, RoleAdmin} {
		if strings.EqualFold(string(r), strings.TrimSpace(s)) {
			return r, true
		}
	}
	return "", false
}

// View represents the customer-facing screen
type View string

const (
	ViewHome             View = "home"
	ViewRestaurants      View = "restaurants"
	ViewCatering         View = "catering"
	ViewOffers           View = "offers"
	ViewRestaurantDetail View = "restaurant-detail"
	ViewCheckoutSuccess  View = "checkout-success"
)

// ParseView validates a view name
func ParseView(s string) (View, bool) {
	switch v := View(strings.TrimSpace(s)); v {
	case ViewHome, ViewRestaurants, ViewCatering, ViewOffers, ViewRestaurantDetail, ViewCheckoutSuccess:
		return v, true
	}
	return "", false
}
