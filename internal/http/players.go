package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/vgtennis/court-scheduler/internal/pubsub"
	"github.com/vgtennis/court-scheduler/internal/roster"
)

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Roster.List()
		if err != nil {
			log.Error("Failed to list players", "error", err)
			http.Error(w, "Failed to list players", http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, players)
	}
}

func (s *Server) CreatePlayerHandler() http.HandlerFunc {
	type request struct {
		Name string `json:"name"`
		Seed int    `json:"seed"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "Player name is required", http.StatusBadRequest)
			return
		}

		player, err := s.Roster.Create(req.Name, req.Seed)
		if err != nil {
			if errors.Is(err, roster.ErrDuplicateSeed) {
				http.Error(w, "Seed is already taken", http.StatusConflict)
				return
			}
			log.Error("Failed to create player", "error", err)
			http.Error(w, "Failed to create player", http.StatusInternalServerError)
			return
		}
		log.Info("Created player", "playerID", player.ID, "name", player.Name, "seed", player.Seed)
		s.Activity.Log(usernameFromContext(r), "PLAYER_ADDED", player.Name)
		respondJSON(w, http.StatusCreated, player)
	}
}

func (s *Server) GetPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player, err := s.Roster.Get(r.PathValue("id"))
		if err != nil {
			if errors.Is(err, roster.ErrPlayerNotFound) {
				http.Error(w, "Player not found", http.StatusNotFound)
				return
			}
			log.Error("Failed to load player", "error", err)
			http.Error(w, "Failed to load player", http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, player)
	}
}

func (s *Server) UpdatePlayerHandler() http.HandlerFunc {
	type request struct {
		Name string `json:"name"`
		Seed int    `json:"seed"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.PathValue("id")

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		player, err := s.Roster.Update(roster.Player{ID: playerID, Name: req.Name, Seed: req.Seed})
		if err != nil {
			switch {
			case errors.Is(err, roster.ErrPlayerNotFound):
				http.Error(w, "Player not found", http.StatusNotFound)
			case errors.Is(err, roster.ErrDuplicateSeed):
				http.Error(w, "Seed is already taken", http.StatusConflict)
			default:
				log.Error("Failed to update player", "error", err, "playerID", playerID)
				http.Error(w, "Failed to update player", http.StatusInternalServerError)
			}
			return
		}
		s.Activity.Log(usernameFromContext(r), "PLAYER_UPDATED", player.Name)
		respondJSON(w, http.StatusOK, player)
	}
}

func (s *Server) DeletePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := r.PathValue("id")
		if err := s.Roster.Delete(playerID); err != nil {
			if errors.Is(err, roster.ErrPlayerNotFound) {
				http.Error(w, "Player not found", http.StatusNotFound)
				return
			}
			log.Error("Failed to delete player", "error", err, "playerID", playerID)
			http.Error(w, "Failed to delete player", http.StatusInternalServerError)
			return
		}
		log.Info("Deleted player", "playerID", playerID)
		s.Activity.Log(usernameFromContext(r), "PLAYER_DELETED", playerID)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) ReorderPlayersHandler() http.HandlerFunc {
	type request struct {
		PlayerIDs []string `json:"playerIds"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if len(req.PlayerIDs) == 0 {
			http.Error(w, "playerIds is required", http.StatusBadRequest)
			return
		}

		err := s.Roster.Reorder(req.PlayerIDs)
		partial := &roster.PartialReorderError{}
		if errors.As(err, &partial) {
			// Some seeds were written before the failure. Report what
			// landed so the caller can resync instead of guessing.
			log.Error("Roster reorder partially applied", "completed", partial.Completed, "total", partial.Total, "failedID", partial.FailedID, "error", partial.Err)
			s.publishReorder(req.PlayerIDs, true)
			respondJSON(w, http.StatusMultiStatus, map[string]any{
				"error":     "reorder partially applied",
				"completed": partial.Completed,
				"total":     partial.Total,
				"failedId":  partial.FailedID,
			})
			return
		}
		if err != nil {
			log.Error("Failed to reorder players", "error", err)
			http.Error(w, "Failed to reorder players", http.StatusInternalServerError)
			return
		}

		s.Activity.Log(usernameFromContext(r), "ROSTER_REORDERED", "")
		s.publishReorder(req.PlayerIDs, false)

		players, err := s.Roster.List()
		if err != nil {
			log.Error("Failed to list players after reorder", "error", err)
			http.Error(w, "Failed to list players", http.StatusInternalServerError)
			return
		}
		if err := s.Notifier.SendRosterUpdate(players, isDryRunFromContext(r)); err != nil {
			log.Error("Failed to send roster update", "error", err)
		}
		respondJSON(w, http.StatusOK, players)
	}
}

func (s *Server) publishReorder(playerIDs []string, partial bool) {
	event := pubsub.RosterReorderedEvent{PlayerIDs: playerIDs, Partial: partial}
	if err := s.pubsub.SendMessage(pubsub.EventRosterReordered, event); err != nil {
		log.Error("Failed to publish reorder event", "error", err)
	}
}
