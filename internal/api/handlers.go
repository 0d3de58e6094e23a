package api

import (
	"errors"
	"net/http"
	"strings"

	"olif/internal/assistant"
	"olif/internal/models"
	"olif/internal/models/providers"
	"olif/internal/session"

	"github.com/gin-gonic/gin"
)

type createSessionRequest struct {
	Role string `json:"role"`
}

type sessionResponse struct {
	Token     string               `json:"token"`
	SessionID string               `json:"sessionId"`
	View      session.ViewSnapshot `json:"view"`
	Messages  []assistant.Message  `json:"messages"`
}

func (s *Server) handleCreateSession(c *gin.Context) {
	var req createSessionRequest
	// the body is optional
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
	}

	role := models.RoleCustomer
	if req.Role != "" {
		r, valid := models.ParseRole(req.Role)
		if !valid {
			badRequest(c, "unknown role: "+req.Role)
			return
		}
		role = r
	}

	sess := s.opts.Sessions.Create(role)
	token, err := s.opts.Sessions.IssueToken(sess.ID)
	if err != nil {
		s.opts.Sessions.Delete(sess.ID)
		serverError(c, err)
		return
	}

	created(c, sessionResponse{
		Token:     token,
		SessionID: sess.ID,
		View:      sess.View.Snapshot(),
		Messages:  sess.Assistant.Messages(),
	})
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	s.opts.Sessions.Delete(currentSession(c).ID)
	ok(c, nil)
}

// Catalog handlers

func (s *Server) handleListRestaurants(c *gin.Context) {
	var category models.FoodCategory
	if raw := c.Query("category"); raw != "" && !strings.EqualFold(raw, "all") {
		cat, valid := models.ParseCategory(raw)
		if !valid {
			badRequest(c, "unknown category: "+raw)
			return
		}
		category = cat
	}
	ok(c, s.opts.Catalog.Filter(category, c.Query("q")))
}

func (s *Server) handleGetRestaurant(c *gin.Context) {
	r, found := s.opts.Catalog.Restaurant(c.Param("id"))
	if !found {
		notFound(c, "restaurant not found")
		return
	}
	ok(c, r)
}

func (s *Server) handleListCategories(c *gin.Context) {
	ok(c, models.Categories)
}

// Basket handlers

type addItemRequest struct {
	ItemID       string `json:"itemId" binding:"required"`
	RestaurantID string `json:"restaurantId"`
}

type updateQuantityRequest struct {
	Delta *int `json:"delta" binding:"required"`
}

func basketView(sess *session.Session) gin.H {
	lines, totals := sess.Basket.Snapshot()
	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	return gin.H{"lines": lines, "totals": totals, "count": count}
}

func (s *Server) handleGetBasket(c *gin.Context) {
	ok(c, basketView(currentSession(c)))
}

func (s *Server) handleAddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	entry, found := s.opts.Catalog.Item(req.ItemID)
	if !found {
		notFound(c, "menu item not found")
		return
	}
	restaurantID := entry.RestaurantID
	if req.RestaurantID != "" {
		r, found := s.opts.Catalog.Restaurant(req.RestaurantID)
		if !found {
			notFound(c, "restaurant not found")
			return
		}
		if _, serves := r.FindItem(req.ItemID); !serves {
			badRequest(c, "restaurant does not serve this item")
			return
		}
		restaurantID = r.ID
	}

	sess := currentSession(c)
	sess.Basket.Add(entry.Item, restaurantID)
	sess.View.OpenBasket()
	ok(c, basketView(sess))
}

func (s *Server) handleUpdateQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	sess := currentSession(c)
	sess.Basket.UpdateQuantity(c.Param("id"), *req.Delta)
	ok(c, basketView(sess))
}

func (s *Server) handleRemoveItem(c *gin.Context) {
	sess := currentSession(c)
	sess.Basket.Remove(c.Param("id"))
	ok(c, basketView(sess))
}

func (s *Server) handleCheckout(c *gin.Context) {
	receipt, err := s.opts.Sessions.Checkout(c.Request.Context(), currentSession(c))
	if errors.Is(err, session.ErrEmptyBasket) {
		badRequest(c, err.Error())
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	created(c, receipt)
}

func (s *Server) handleListReceipts(c *gin.Context) {
	receipts, err := s.opts.Sessions.Receipts(c.Request.Context(), currentSession(c).ID)
	if err != nil {
		serverError(c, err)
		return
	}
	if receipts == nil {
		receipts = []models.Receipt{}
	}
	ok(c, receipts)
}

// View handlers

type navigateRequest struct {
	View string `json:"view" binding:"required"`
}

type roleRequest struct {
	Role string `json:"role" binding:"required"`
}

type panelsRequest struct {
	BasketOpen    *bool `json:"basketOpen"`
	AssistantOpen *bool `json:"assistantOpen"`
}

func (s *Server) handleGetView(c *gin.Context) {
	ok(c, currentSession(c).View.Snapshot())
}

func (s *Server) handleNavigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	view, valid := models.ParseView(req.View)
	if !valid {
		badRequest(c, "unknown view: "+req.View)
		return
	}
	sess := currentSession(c)
	if !sess.View.Navigate(view) {
		fail(c, http.StatusConflict, "no restaurant selected")
		return
	}
	ok(c, sess.View.Snapshot())
}

func (s *Server) handleSetRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	role, valid := models.ParseRole(req.Role)
	if !valid {
		badRequest(c, "unknown role: "+req.Role)
		return
	}
	sess := currentSession(c)
	sess.View.SetRole(role)
	ok(c, sess.View.Snapshot())
}

func (s *Server) handleSetPanels(c *gin.Context) {
	var req panelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	sess := currentSession(c)
	if req.BasketOpen != nil {
		if *req.BasketOpen {
			sess.View.OpenBasket()
		} else {
			sess.View.CloseBasket()
		}
	}
	if req.AssistantOpen != nil {
		if *req.AssistantOpen {
			sess.View.OpenAssistant()
		} else {
			sess.View.CloseAssistant()
		}
	}
	ok(c, sess.View.Snapshot())
}

func (s *Server) handleOpenRestaurant(c *gin.Context) {
	sess := currentSession(c)
	if !sess.View.OpenRestaurant(c.Param("id")) {
		notFound(c, "restaurant not found")
		return
	}
	ok(c, sess.View.Snapshot())
}

// Assistant handlers

type messageRequest struct {
	Text string `json:"text"`
}

type voiceRequest struct {
	Transcript string `json:"transcript"`
}

type turnResponse struct {
	Outcome  assistant.Outcome   `json:"outcome"`
	Messages []assistant.Message `json:"messages"`
	Basket   gin.H               `json:"basket"`
}

func (s *Server) handleListMessages(c *gin.Context) {
	sess := currentSession(c)
	ok(c, gin.H{"messages": sess.Assistant.Messages(), "busy": sess.Assistant.Busy()})
}

func (s *Server) handleSendMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	sess := currentSession(c)
	out, err := sess.Assistant.Send(c.Request.Context(), req.Text)
	s.respondTurn(c, sess, out, err)
}

func (s *Server) handleSendVoice(c *gin.Context) {
	var req voiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	sess := currentSession(c)
	out, err := sess.Assistant.SendVoice(c.Request.Context(), assistant.Transcript(strings.TrimSpace(req.Transcript)))
	s.respondTurn(c, sess, out, err)
}

func (s *Server) respondTurn(c *gin.Context, sess *session.Session, out assistant.Outcome, err error) {
	if errors.Is(err, assistant.ErrEmptyUtterance) {
		badRequest(c, err.Error())
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	ok(c, turnResponse{Outcome: out, Messages: sess.Assistant.Messages(), Basket: basketView(sess)})
}

func (s *Server) handleRecommendations(c *gin.Context) {
	recs := currentSession(c).Assistant.Recommendations(c.Request.Context())
	if recs == nil {
		recs = []assistant.Recommendation{}
	}
	ok(c, recs)
}

// Evaluation handlers

type evaluateRequest struct {
	Scenario string `json:"scenario"`
}

// handleListModels reports the model behind the assistant and the providers
// this build can be configured with
func (s *Server) handleListModels(c *gin.Context) {
	ok(c, gin.H{"active": s.opts.ModelName, "providers": providers.Available()})
}

func (s *Server) handleListScenarios(c *gin.Context) {
	if s.opts.Evaluator == nil {
		fail(c, http.StatusServiceUnavailable, "evaluation is not configured")
		return
	}
	ok(c, s.opts.Evaluator.GetScenarios())
}

func (s *Server) handleEvaluate(c *gin.Context) {
	if s.opts.Evaluator == nil || s.opts.Extractor == nil {
		fail(c, http.StatusServiceUnavailable, "evaluation is not configured")
		return
	}
	var req evaluateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
	}

	if req.Scenario == "" {
		report, err := s.opts.Evaluator.EvaluateAll(c.Request.Context(), s.opts.ModelName, s.opts.Extractor)
		if err != nil {
			serverError(c, err)
			return
		}
		ok(c, report)
		return
	}

	if !s.opts.Evaluator.HasScenario(req.Scenario) {
		notFound(c, "Invalid scenario: "+req.Scenario)
		return
	}
	result, err := s.opts.Evaluator.Evaluate(c.Request.Context(), s.opts.ModelName, s.opts.Extractor, req.Scenario)
	if err != nil {
		serverError(c, err)
		return
	}
	ok(c, result)
}
