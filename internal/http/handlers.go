package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/vgtennis/court-scheduler/internal/poll"
	"github.com/vgtennis/court-scheduler/internal/pubsub"
	"github.com/vgtennis/court-scheduler/internal/schedule"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ListPollsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		polls, err := s.Polls.List()
		if err != nil {
			log.Error("Failed to list polls", "error", err)
			http.Error(w, "Failed to list polls", http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, polls)
	}
}

func (s *Server) CreatePollHandler() http.HandlerFunc {
	type request struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Title == "" {
			http.Error(w, "Poll title is required", http.StatusBadRequest)
			return
		}

		created, err := s.Polls.Create(req.Title, req.Description)
		if err != nil {
			log.Error("Failed to create poll", "error", err)
			http.Error(w, "Failed to create poll", http.StatusInternalServerError)
			return
		}
		log.Info("Created poll", "pollID", created.ID, "title", created.Title)
		respondJSON(w, http.StatusCreated, created)
	}
}

func (s *Server) GetPollHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := s.Polls.Get(r.PathValue("id"))
		if err != nil {
			if errors.Is(err, poll.ErrPollNotFound) {
				http.Error(w, "Poll not found", http.StatusNotFound)
				return
			}
			log.Error("Failed to load poll", "error", err)
			http.Error(w, "Failed to load poll", http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, p)
	}
}

func (s *Server) DeletePollHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pollID := r.PathValue("id")
		if err := s.Polls.Delete(pollID); err != nil {
			if errors.Is(err, poll.ErrPollNotFound) {
				http.Error(w, "Poll not found", http.StatusNotFound)
				return
			}
			log.Error("Failed to delete poll", "error", err, "pollID", pollID)
			http.Error(w, "Failed to delete poll", http.StatusInternalServerError)
			return
		}
		log.Info("Deleted poll", "pollID", pollID)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) SubmitVoteHandler() http.HandlerFunc {
	type request struct {
		PlayerID   string   `json:"playerId"`
		PlayerName string   `json:"playerName"`
		OptionIDs  []string `json:"optionIds"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		pollID := r.PathValue("id")

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		result, err := s.Polls.SubmitVote(pollID, req.PlayerID, req.PlayerName, req.OptionIDs)
		if err != nil {
			switch {
			case errors.Is(err, poll.ErrPollNotFound):
				http.Error(w, "Poll not found", http.StatusNotFound)
			case errors.Is(err, poll.ErrInvalidVote):
				http.Error(w, "Invalid vote submission", http.StatusBadRequest)
			default:
				log.Error("Failed to submit vote", "error", err, "pollID", pollID)
				http.Error(w, "Failed to submit vote", http.StatusInternalServerError)
			}
			return
		}

		// A changed tally invalidates any lineup generated for those dates.
		for _, dateID := range result.ChangedDates {
			if err := s.Polls.ClearAssignment(pollID, dateID); err != nil {
				log.Error("Failed to clear stale assignment", "error", err, "pollID", pollID, "dateID", dateID)
			}
		}

		if len(result.ChangedDates) > 0 {
			s.Metrics.IncVotesSubmitted()
			s.Activity.Log(req.PlayerName, "VOTE_SUBMITTED", pollID)
			event := pubsub.VoteSubmittedEvent{
				PollID:       pollID,
				PlayerID:     req.PlayerID,
				PlayerName:   req.PlayerName,
				ChangedDates: result.ChangedDates,
				TotalVotes:   result.Poll.TotalVotes,
			}
			if err := s.pubsub.SendMessage(pubsub.EventVoteSubmitted, event); err != nil {
				log.Error("Failed to publish vote event", "error", err, "pollID", pollID)
			}
			s.sendVoteSummaries(result, isDryRunFromContext(r))
		}

		respondJSON(w, http.StatusOK, map[string]any{
			"message": result.Message,
			"poll":    result.Poll,
		})
	}
}

// sendVoteSummaries posts the refreshed tally for every date a
// submission touched, so the channel sees who holds the slots now.
func (s *Server) sendVoteSummaries(result *poll.VoteResult, dryRun bool) {
	players, err := s.Roster.List()
	if err != nil {
		log.Error("Failed to load roster for vote summary", "error", err)
		return
	}
	for _, dateID := range result.ChangedDates {
		option, ok := findOption(result.Poll, dateID)
		if !ok {
			continue
		}
		maxPlayers := option.MaxPlayers
		if maxPlayers <= 0 {
			maxPlayers = schedule.DefaultMaxPlayers
		}
		voters := poll.VotersForDate(result.Poll, players, dateID)
		if err := s.Notifier.SendVoteSummary(dateID, voters, maxPlayers, dryRun); err != nil {
			log.Error("Failed to send vote summary", "error", err, "dateID", dateID)
		}
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("Failed to encode JSON response", "error", err)
	}
}
