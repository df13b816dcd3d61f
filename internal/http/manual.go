package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/vgtennis/court-scheduler/internal/pairing"
)

// sessionView is the JSON shape of an in-progress manual pairing session.
type sessionView struct {
	DateID    string         `json:"dateId"`
	State     string         `json:"state"`
	Available []playerView   `json:"available"`
	Selected  []playerView   `json:"selected"`
	Teams     []pairing.Team `json:"teams"`
	Reserves  []playerView   `json:"reserves"`
}

type playerView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Seed int    `json:"seed"`
}

func newSessionView(dateID string, session *pairing.Session) sessionView {
	view := sessionView{
		DateID:    dateID,
		State:     string(session.State()),
		Available: []playerView{},
		Selected:  []playerView{},
		Teams:     session.Teams(),
		Reserves:  []playerView{},
	}
	for _, p := range session.Available() {
		view.Available = append(view.Available, playerView{ID: p.ID, Name: p.Name, Seed: p.Seed})
	}
	for _, p := range session.Selected() {
		view.Selected = append(view.Selected, playerView{ID: p.ID, Name: p.Name, Seed: p.Seed})
	}
	for _, p := range session.Reserves() {
		view.Reserves = append(view.Reserves, playerView{ID: p.ID, Name: p.Name, Seed: p.Seed})
	}
	return view
}

func (s *Server) StartManualSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pollID := r.PathValue("id")
		dateID := r.PathValue("dateId")

		eligible, _, ok := s.playersForDate(w, pollID, dateID)
		if !ok {
			return
		}

		session := s.Sessions.Start(dateID, eligible)
		log.Info("Started manual pairing session", "pollID", pollID, "dateID", dateID, "players", len(eligible))
		respondJSON(w, http.StatusCreated, newSessionView(dateID, session))
	}
}

func (s *Server) ManualSessionStateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dateID := r.PathValue("dateId")
		session, ok := s.Sessions.Get(dateID)
		if !ok {
			http.Error(w, "No manual session for this date", http.StatusNotFound)
			return
		}
		respondJSON(w, http.StatusOK, newSessionView(dateID, session))
	}
}

func (s *Server) ManualSelectHandler() http.HandlerFunc {
	type request struct {
		PlayerID string `json:"playerId"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		dateID := r.PathValue("dateId")
		session, ok := s.Sessions.Get(dateID)
		if !ok {
			http.Error(w, "No manual session for this date", http.StatusNotFound)
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if err := session.SelectPlayer(req.PlayerID); err != nil {
			respondSessionError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, newSessionView(dateID, session))
	}
}

func (s *Server) ManualDisbandHandler() http.HandlerFunc {
	type request struct {
		TeamID string `json:"teamId"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		dateID := r.PathValue("dateId")
		session, ok := s.Sessions.Get(dateID)
		if !ok {
			http.Error(w, "No manual session for this date", http.StatusNotFound)
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if err := session.DisbandTeam(req.TeamID); err != nil {
			respondSessionError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, newSessionView(dateID, session))
	}
}

func (s *Server) ManualReserveHandler() http.HandlerFunc {
	type request struct {
		PlayerID   string `json:"playerId"`
		ToReserves bool   `json:"toReserves"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		dateID := r.PathValue("dateId")
		session, ok := s.Sessions.Get(dateID)
		if !ok {
			http.Error(w, "No manual session for this date", http.StatusNotFound)
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		var err error
		if req.ToReserves {
			err = session.MoveToReserves(req.PlayerID)
		} else {
			err = session.MoveFromReserves(req.PlayerID)
		}
		if err != nil {
			respondSessionError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, newSessionView(dateID, session))
	}
}

func (s *Server) ManualFinalizeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pollID := r.PathValue("id")
		dateID := r.PathValue("dateId")
		isDryRun := isDryRunFromContext(r)

		session, ok := s.Sessions.Get(dateID)
		if !ok {
			http.Error(w, "No manual session for this date", http.StatusNotFound)
			return
		}

		assignment, err := session.Finalize()
		if err != nil {
			respondSessionError(w, err)
			return
		}
		s.Sessions.Discard(dateID)

		if isDryRun {
			log.Info("[Dry Run] Finalized manual session without saving", "pollID", pollID, "dateID", dateID)
			respondJSON(w, http.StatusOK, assignment)
			return
		}

		if _, err := s.Polls.SaveAssignment(pollID, *assignment); err != nil {
			log.Error("Failed to save manual assignment", "error", err, "pollID", pollID, "dateID", dateID)
			http.Error(w, "Failed to save assignment", http.StatusInternalServerError)
			return
		}
		s.finishGeneration(pollID, assignment, usernameFromContext(r), false)

		respondJSON(w, http.StatusOK, assignment)
	}
}

func (s *Server) DiscardManualSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dateID := r.PathValue("dateId")
		s.Sessions.Discard(dateID)
		w.WriteHeader(http.StatusNoContent)
	}
}

// respondSessionError maps session errors to HTTP status codes.
func respondSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pairing.ErrSessionFinalized):
		http.Error(w, "Session is already finalized", http.StatusConflict)
	case errors.Is(err, pairing.ErrPlayerNotAvailable),
		errors.Is(err, pairing.ErrPlayerNotReserved),
		errors.Is(err, pairing.ErrTeamNotFound):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Error("Manual session operation failed", "error", err)
		http.Error(w, "Manual session operation failed", http.StatusInternalServerError)
	}
}
