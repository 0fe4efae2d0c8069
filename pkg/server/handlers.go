package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/nikolaydubina/fpdecimal"
	"github.com/rs/zerolog/log"

	"github.com/tradekit/matchtrade/pkg/core"
)

func (s *Server) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req SubmitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	side, err := core.SideFromString(req.Side)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	kind, err := core.KindFromString(req.Kind)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	quantity, err := fpdecimal.FromString(req.Quantity)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid quantity")
		return
	}
	price := fpdecimal.Zero
	if req.Price != "" {
		if price, err = fpdecimal.FromString(req.Price); err != nil {
			respondError(w, http.StatusBadRequest, "invalid price")
			return
		}
	}

	timestamp := req.Timestamp
	if timestamp == 0 {
		timestamp = time.Now().UnixMilli()
	}

	order, err := core.NewOrder(req.OrderID, req.Symbol, price, quantity, kind, side, timestamp)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.engine.AddOrder(r.Context(), order); err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			log.Error().Err(err).Uint64("order_id", req.OrderID).Msg("Order processing failed")
		}
		respondError(w, status, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	var req CancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	side, err := core.SideFromString(req.Side)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	price, err := fpdecimal.FromString(req.Price)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid price")
		return
	}

	order := s.engine.CancelOrder(r.Context(), req.Symbol, req.OrderID, price, side)
	if order == nil {
		respondError(w, http.StatusNotFound, "order not found")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func (s *Server) handleDepth(w http.ResponseWriter, r *http.Request) {
	buy, sell := s.engine.Depth()
	respondJSON(w, http.StatusOK, DepthResponse{Buy: buy, Sell: sell})
}

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]string{"symbols": s.engine.Symbols()})
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var req CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Symbol == "" {
		respondError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	sink, ok := s.SinkFor(req.Symbol, req.Sink)
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown sink: "+req.Sink)
		return
	}

	s.engine.AddBook(req.Symbol, sink)
	log.Info().Str("symbol", req.Symbol).Str("sink", req.Sink).Msg("Order book registered")
	respondJSON(w, http.StatusCreated, map[string]string{"symbol": req.Symbol})
}

func (s *Server) handleBookDepth(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	resp := BookDepthResponse{Symbol: symbol}
	err := s.engine.View(symbol, func(book *core.OrderBook) {
		resp.Bids = levelSnapshots(book.Bids())
		resp.Asks = levelSnapshots(book.Asks())
	})
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func levelSnapshots(queue *core.SideQueue) []LevelSnapshot {
	snapshots := make([]LevelSnapshot, 0)
	queue.Ascend(func(level *core.PriceLevel) bool {
		snapshots = append(snapshots, LevelSnapshot{
			Price:  level.Price().String(),
			Orders: level.Len(),
			Volume: level.Volume().String(),
		})
		return true
	})
	return snapshots
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, core.ErrSymbolNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrDuplicateOrder):
		return http.StatusConflict
	case errors.Is(err, core.ErrNoOpposingLiquidity),
		errors.Is(err, core.ErrInsufficientLiquidity):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrInvalidQuantity),
		errors.Is(err, core.ErrInvalidPrice),
		errors.Is(err, core.ErrInvalidKind):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
