package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// ApiClient talks to the OLIF HTTP API with a session token
type ApiClient struct {
	httpClient *http.Client
	BaseURL    string
	token      string
}

// NewApiClient creates a new API client
func NewApiClient() *ApiClient {
	baseURL := os.Getenv("OLIF_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &ApiClient{
		httpClient: &http.Client{
			// assistant turns wait on the language model
			Timeout: time.Second * 60,
		},
		BaseURL: baseURL,
	}
}

// CheckHealth checks if the API is up and running
func (c *ApiClient) CheckHealth() (bool, error) {
	resp, err := c.httpClient.Get(c.BaseURL + "/health")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("API health check failed with status code: %d", resp.StatusCode)
	}

	return true, nil
}

// MenuItem is a dish as served by the API
type MenuItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    int64   `json:"price"`
	Category string  `json:"category"`
	Rating   float64 `json:"rating"`
	PrepTime string  `json:"prepTime"`
}

// Restaurant is a vendor and its menu
type Restaurant struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Rating       float64    `json:"rating"`
	DeliveryTime string     `json:"deliveryTime"`
	Menu         []MenuItem `json:"menu"`
}

// BasketLine is one item in the basket
type BasketLine struct {
	MenuItem
	Quantity     int    `json:"quantity"`
	RestaurantID string `json:"restaurantId"`
}

// Totals are the basket charges
type Totals struct {
	Subtotal    int64 `json:"subtotal"`
	DeliveryFee int64 `json:"deliveryFee"`
	Tax         int64 `json:"tax"`
	Total       int64 `json:"total"`
}

// Basket is the session basket
type Basket struct {
	Lines  []BasketLine `json:"lines"`
	Totals Totals       `json:"totals"`
	Count  int          `json:"count"`
}

// Message is one transcript entry
type Message struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Turn is the result of sending one utterance
type Turn struct {
	Outcome struct {
		CheckoutScheduled bool     `json:"checkoutScheduled"`
		Replies           []string `json:"replies"`
	} `json:"outcome"`
	Messages []Message `json:"messages"`
	Basket   Basket    `json:"basket"`
}

// Receipt is a completed order
type Receipt struct {
	ReceiptID string    `json:"receiptId"`
	Total     int64     `json:"total"`
	PlacedAt  time.Time `json:"placedAt"`
}

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

// StartSession creates a customer session and returns its greeting transcript
func (c *ApiClient) StartSession() ([]Message, error) {
	var out struct {
		Token    string    `json:"token"`
		Messages []Message `json:"messages"`
	}
	if err := c.do(http.MethodPost, "/api/v1/sessions", map[string]string{"role": "Customer"}, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return out.Messages, nil
}

// GetRestaurants lists the catalog
func (c *ApiClient) GetRestaurants() ([]Restaurant, error) {
	var out []Restaurant
	err := c.do(http.MethodGet, "/api/v1/restaurants", nil, &out)
	return out, err
}

// GetBasket returns the session basket
func (c *ApiClient) GetBasket() (*Basket, error) {
	var out Basket
	if err := c.do(http.MethodGet, "/api/v1/basket", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddItem puts one of itemID into the basket
func (c *ApiClient) AddItem(itemID string) (*Basket, error) {
	var out Basket
	if err := c.do(http.MethodPost, "/api/v1/basket/items", map[string]string{"itemId": itemID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateQuantity changes an item's quantity by delta
func (c *ApiClient) UpdateQuantity(itemID string, delta int) (*Basket, error) {
	var out Basket
	if err := c.do(http.MethodPatch, "/api/v1/basket/items/"+itemID, map[string]int{"delta": delta}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Checkout places the order
func (c *ApiClient) Checkout() (*Receipt, error) {
	var out Receipt
	if err := c.do(http.MethodPost, "/api/v1/basket/checkout", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendMessage sends an utterance to the assistant
func (c *ApiClient) SendMessage(text string) (*Turn, error) {
	var out Turn
	if err := c.do(http.MethodPost, "/api/v1/assistant/messages", map[string]string{"text": text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ApiClient) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("unexpected response (status %d): %w", resp.StatusCode, err)
	}
	if !env.OK {
		return fmt.Errorf("%s", env.Error)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}
