package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/vgtennis/court-scheduler/internal/activity"
	"github.com/vgtennis/court-scheduler/internal/coins"
)

func (s *Server) CoinBalanceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		balance, err := s.Coins.Balance(usernameFromContext(r))
		if err != nil {
			log.Error("Failed to load balance", "error", err)
			http.Error(w, "Failed to load balance", http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, balance)
	}
}

func (s *Server) UseCoinsHandler() http.HandlerFunc {
	type request struct {
		Feature     string `json:"feature"`
		Description string `json:"description"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		username := usernameFromContext(r)
		if username == "" {
			username = "club_member"
		}

		tx, err := s.Coins.Debit(username, req.Feature, req.Description)
		if err != nil {
			switch {
			case errors.Is(err, coins.ErrUnknownFeature):
				http.Error(w, "Unknown feature", http.StatusBadRequest)
			case errors.Is(err, coins.ErrInsufficientCoins):
				respondJSON(w, http.StatusPaymentRequired, map[string]any{
					"error":   "insufficient club coins",
					"feature": req.Feature,
				})
			default:
				log.Error("Failed to use coins", "error", err, "feature", req.Feature)
				http.Error(w, "Failed to use coins", http.StatusInternalServerError)
			}
			return
		}
		respondJSON(w, http.StatusOK, tx)
	}
}

func (s *Server) PurchaseCoinsHandler() http.HandlerFunc {
	type request struct {
		Amount      int    `json:"amount"`
		Description string `json:"description"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		tx, err := s.Coins.Credit(usernameFromContext(r), req.Amount, coins.TypePurchase, req.Description)
		if err != nil {
			if errors.Is(err, coins.ErrInvalidAmount) {
				http.Error(w, "Invalid coin amount", http.StatusBadRequest)
				return
			}
			log.Error("Failed to purchase coins", "error", err)
			http.Error(w, "Failed to purchase coins", http.StatusInternalServerError)
			return
		}
		log.Info("Added coins to club pool", "amount", req.Amount, "balanceAfter", tx.BalanceAfter)
		respondJSON(w, http.StatusOK, tx)
	}
}

func (s *Server) CoinTransactionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryInt(r, "limit", 50)
		offset := queryInt(r, "offset", 0)
		txType := coins.TransactionType(r.URL.Query().Get("type"))

		transactions, total, err := s.Coins.Transactions(limit, offset, txType)
		if err != nil {
			log.Error("Failed to list transactions", "error", err)
			http.Error(w, "Failed to list transactions", http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"transactions": transactions,
			"pagination": map[string]any{
				"total":   total,
				"limit":   limit,
				"offset":  offset,
				"hasMore": total > offset+limit,
			},
		})
	}
}

func (s *Server) CoinPricingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, s.Coins.Pricing())
	}
}

func (s *Server) ListActivityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := activity.Filter{
			Username: r.URL.Query().Get("username"),
			Action:   r.URL.Query().Get("action"),
			Limit:    queryInt(r, "limit", 100),
			Offset:   queryInt(r, "offset", 0),
		}

		entries, total, err := s.Activity.List(filter)
		if err != nil {
			log.Error("Failed to list activity", "error", err)
			http.Error(w, "Failed to list activity", http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{
			"entries": entries,
			"total":   total,
		})
	}
}

func (s *Server) LogActivityHandler() http.HandlerFunc {
	type request struct {
		Username string `json:"username"`
		Action   string `json:"action"`
		Detail   string `json:"detail"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Username == "" {
			req.Username = usernameFromContext(r)
		}

		entry, err := s.Activity.Log(req.Username, req.Action, req.Detail)
		if err != nil {
			http.Error(w, "Failed to record activity", http.StatusBadRequest)
			return
		}
		respondJSON(w, http.StatusCreated, entry)
	}
}

func (s *Server) ActivityStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.Activity.Stats()
		if err != nil {
			log.Error("Failed to load activity stats", "error", err)
			http.Error(w, "Failed to load activity stats", http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, stats)
	}
}

// queryInt parses an integer query parameter, falling back on a default.
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
