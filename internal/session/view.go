package session

import (
	"sync"

	"olif/internal/models"
)

// RestaurantLookup finds a restaurant by id
type RestaurantLookup interface {
	Restaurant(id string) (models.Restaurant, bool)
}

// ViewSnapshot is the serializable state of a ViewState
type ViewSnapshot struct {
	View          models.View     `json:"view"`
	Role          models.UserRole `json:"role"`
	Dashboard     string          `json:"dashboard,omitempty"`
	RestaurantID  string          `json:"restaurantId,omitempty"`
	BasketOpen    bool            `json:"basketOpen"`
	AssistantOpen bool            `json:"assistantOpen"`
}

var dashboards = map[models.UserRole]string{
	models.RoleVendor: "Vendor Dashboard",
	models.RoleRider:  "Rider App",
	models.RoleAdmin:  "System Analytics (NGN)",
}

// ViewState tracks which screen and panels a session is looking at
type ViewState struct {
	restaurants RestaurantLookup

	mu            sync.RWMutex
	view          models.View
	role          models.UserRole
	restaurantID  string
	basketOpen    bool
	assistantOpen bool
}

// NewViewState starts on the home view for role
func NewViewState(restaurants RestaurantLookup, role models.UserRole) *ViewState {
	if role == "" {
		role = models.RoleCustomer
	}
	return &ViewState{restaurants: restaurants, view: models.ViewHome, role: role}
}

// Snapshot returns the current state
func (v *ViewState) Snapshot() ViewSnapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return ViewSnapshot{
		View:          v.view,
		Role:          v.role,
		Dashboard:     dashboards[v.role],
		RestaurantID:  v.restaurantID,
		BasketOpen:    v.basketOpen,
		AssistantOpen: v.assistantOpen,
	}
}

// Navigate switches to a customer view. Navigation always returns to the
// customer storefront. The detail view needs a selected restaurant.
func (v *ViewState) Navigate(view models.View) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if view == models.ViewRestaurantDetail && v.restaurantID == "" {
		return false
	}
	v.view = view
	v.role = models.RoleCustomer
	return true
}

// OpenRestaurant selects a restaurant and shows its detail view. Unknown ids
// leave the state unchanged.
func (v *ViewState) OpenRestaurant(id string) bool {
	if _, ok := v.restaurants.Restaurant(id); !ok {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.restaurantID = id
	v.view = models.ViewRestaurantDetail
	return true
}

// SetRole switches dashboards and returns to the home view
func (v *ViewState) SetRole(role models.UserRole) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.role = role
	v.view = models.ViewHome
}

// OpenBasket shows the basket panel
func (v *ViewState) OpenBasket() { v.setBasket(true) }

// CloseBasket hides the basket panel
func (v *ViewState) CloseBasket() { v.setBasket(false) }

// OpenAssistant shows the assistant panel
func (v *ViewState) OpenAssistant() { v.setAssistant(true) }

// CloseAssistant hides the assistant panel
func (v *ViewState) CloseAssistant() { v.setAssistant(false) }

// CompleteCheckout closes the basket and shows the order confirmation
func (v *ViewState) CompleteCheckout() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.basketOpen = false
	v.view = models.ViewCheckoutSuccess
}

func (v *ViewState) setBasket(open bool) {
	v.mu.Lock()
	v.basketOpen = open
	v.mu.Unlock()
}

func (v *ViewState) setAssistant(open bool) {
	v.mu.Lock()
	v.assistantOpen = open
	v.mu.Unlock()
}
