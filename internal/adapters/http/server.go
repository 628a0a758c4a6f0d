// Package http exposes the chatbot over a JSON API: the message endpoint,
// live auto-complete, session reset, and the read-only shop endpoints.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aarush-luthra/smart-customer-support-chatbot/internal/logging"
	"github.com/aarush-luthra/smart-customer-support-chatbot/internal/shop"
	"github.com/aarush-luthra/smart-customer-support-chatbot/pkg/domain"
)

// Server routes API traffic to a Bot. Carts are per-session and live only in
// this process; they are a front-end convenience, not conversation state.
type Server struct {
	bot    Bot
	logger *slog.Logger

	cartMu sync.Mutex
	carts  map[string]*shop.Cart

	metricsHandler http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetricsHandler replaces the default Prometheus handler, typically with
// one scoped to a private registry in tests.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metricsHandler = h }
}

// NewHandler creates the HTTP handler for the bot.
func NewHandler(bot Bot, opts ...Option) http.Handler {
	s := &Server{
		bot:            bot,
		logger:         logging.NewNop(),
		carts:          make(map[string]*shop.Cart),
		metricsHandler: promhttp.Handler(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(s.withLogging)
	r.Use(withCORS)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metricsHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/message", s.handleMessage)
		r.Get("/suggestions", s.handleSuggestions)
		r.Post("/reset", s.handleReset)
		r.Get("/stats", s.handleStats)

		r.Get("/orders/{id}", s.handleGetOrder)
		r.Get("/products", s.handleListProducts)
		r.Get("/products/{id}", s.handleGetProduct)

		r.Route("/cart/{session}", func(r chi.Router) {
			r.Get("/", s.handleGetCart)
			r.Post("/items", s.handleCartAdd)
			r.Delete("/items/{id}", s.handleCartRemove)
			r.Post("/undo", s.handleCartUndo)
		})
	})

	return r
}

type messageRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type suggestionDTO struct {
	Label  string  `json:"label"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

type messageResponse struct {
	SessionID   string          `json:"session_id"`
	Reply       string          `json:"reply"`
	NodeID      string          `json:"node_id"`
	IsLeaf      bool            `json:"is_leaf"`
	Suggestions []suggestionDTO `json:"suggestions"`
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	// A blank session id starts a fresh conversation.
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	res, err := s.bot.ProcessMessage(r.Context(), req.SessionID, req.Message)
	if err != nil {
		s.logger.Error("message processing failed", "session_id", req.SessionID, "err", err)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{
		SessionID:   res.SessionID,
		Reply:       res.Reply,
		NodeID:      res.NodeID,
		IsLeaf:      res.IsLeaf,
		Suggestions: mapSuggestions(res.Suggestions),
	})
}

type suggestionsResponse struct {
	Prefix      string   `json:"prefix"`
	Suggestions []string `json:"suggestions"`
	Count       int      `json:"count"`
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	phrases := s.bot.Autocomplete(prefix)
	writeJSON(w, http.StatusOK, suggestionsResponse{
		Prefix:      prefix,
		Suggestions: phrases,
		Count:       len(phrases),
	})
}

type resetRequest struct {
	SessionID string `json:"session_id"`
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.SessionID == "" {
		badRequest(w, "session_id is required")
		return
	}

	res, err := s.bot.ResetSession(r.Context(), req.SessionID)
	if err != nil {
		s.logger.Error("session reset failed", "session_id", req.SessionID, "err", err)
		internalError(w)
		return
	}

	s.cartMu.Lock()
	delete(s.carts, req.SessionID)
	s.cartMu.Unlock()

	writeJSON(w, http.StatusOK, messageResponse{
		SessionID:   res.SessionID,
		Reply:       res.Reply,
		NodeID:      res.NodeID,
		IsLeaf:      res.IsLeaf,
		Suggestions: mapSuggestions(res.Suggestions),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.bot.Stats(r.Context())
	if err != nil {
		s.logger.Error("stats collection failed", "err", err)
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type orderResponse struct {
	Order     shop.Order `json:"order"`
	Formatted string     `json:"formatted"`
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	o, err := s.bot.Orders().Get(id)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			notFound(w, "order not found")
			return
		}
		s.logger.Error("order lookup failed", "order_id", id, "err", err)
		internalError(w)
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{Order: o, Formatted: shop.FormatOrder(o)})
}

type productListResponse struct {
	Products       []shop.Product `json:"products"`
	RecentlyViewed []shop.Product `json:"recently_viewed"`
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, productListResponse{
		Products:       s.bot.Catalog().All(),
		RecentlyViewed: s.bot.RecentlyViewed().Products(),
	})
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, ok := s.bot.Catalog().Get(id)
	if !ok {
		notFound(w, "product not found")
		return
	}
	s.bot.RecentlyViewed().Touch(p)
	writeJSON(w, http.StatusOK, p)
}

type cartAddRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type cartResponse struct {
	Items   []shop.CartItem `json:"items"`
	Total   float64         `json:"total"`
	CanUndo bool            `json:"can_undo"`
}

func (s *Server) cart(sessionID string) *shop.Cart {
	s.cartMu.Lock()
	defer s.cartMu.Unlock()

	c, ok := s.carts[sessionID]
	if !ok {
		c = shop.NewCart(s.bot.Catalog())
		s.carts[sessionID] = c
	}
	return c
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	c := s.cart(chi.URLParam(r, "session"))
	writeJSON(w, http.StatusOK, cartResponse{Items: c.Items(), Total: c.Total(), CanUndo: c.CanUndo()})
}

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	var req cartAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	c := s.cart(chi.URLParam(r, "session"))
	if err := c.Add(req.ProductID, req.Quantity); err != nil {
		badRequest(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Items: c.Items(), Total: c.Total(), CanUndo: c.CanUndo()})
}

func (s *Server) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	c := s.cart(chi.URLParam(r, "session"))
	if err := c.Remove(chi.URLParam(r, "id")); err != nil {
		badRequest(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Items: c.Items(), Total: c.Total(), CanUndo: c.CanUndo()})
}

func (s *Server) handleCartUndo(w http.ResponseWriter, r *http.Request) {
	c := s.cart(chi.URLParam(r, "session"))
	if err := c.Undo(); err != nil {
		badRequest(w, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cartResponse{Items: c.Items(), Total: c.Total(), CanUndo: c.CanUndo()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func mapSuggestions(in []domain.Suggestion) []suggestionDTO {
	out := make([]suggestionDTO, 0, len(in))
	for _, sug := range in {
		out = append(out, suggestionDTO{Label: sug.Label, Target: sug.Target, Weight: sug.Weight})
	}
	return out
}
