package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vgtennis/court-scheduler/internal/pairing"
	"github.com/vgtennis/court-scheduler/internal/poll"
	"github.com/vgtennis/court-scheduler/internal/pubsub"
	"github.com/vgtennis/court-scheduler/internal/roster"
	"github.com/vgtennis/court-scheduler/internal/schedule"
)

func (s *Server) ListAssignmentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assignments, err := s.Polls.Assignments(r.PathValue("id"))
		if err != nil {
			if errors.Is(err, poll.ErrPollNotFound) {
				http.Error(w, "Poll not found", http.StatusNotFound)
				return
			}
			log.Error("Failed to list assignments", "error", err)
			http.Error(w, "Failed to list assignments", http.StatusInternalServerError)
			return
		}
		respondJSON(w, http.StatusOK, assignments)
	}
}

func (s *Server) SaveAssignmentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pollID := r.PathValue("id")

		var assignment pairing.Assignment
		if err := json.NewDecoder(r.Body).Decode(&assignment); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if assignment.DateID == "" {
			http.Error(w, "Assignment dateId is required", http.StatusBadRequest)
			return
		}

		updated, err := s.Polls.SaveAssignment(pollID, assignment)
		if err != nil {
			if errors.Is(err, poll.ErrPollNotFound) {
				http.Error(w, "Poll not found", http.StatusNotFound)
				return
			}
			log.Error("Failed to save assignment", "error", err, "pollID", pollID)
			http.Error(w, "Failed to save assignment", http.StatusInternalServerError)
			return
		}
		log.Info("Saved assignment", "pollID", pollID, "dateID", assignment.DateID, "algorithm", assignment.Algorithm)
		respondJSON(w, http.StatusOK, updated)
	}
}

func (s *Server) ClearAssignmentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pollID := r.PathValue("id")
		cleared, err := s.Polls.ClearAssignments(pollID)
		if err != nil {
			if errors.Is(err, poll.ErrPollNotFound) {
				http.Error(w, "Poll not found", http.StatusNotFound)
				return
			}
			log.Error("Failed to clear assignments", "error", err, "pollID", pollID)
			http.Error(w, "Failed to clear assignments", http.StatusInternalServerError)
			return
		}
		log.Info("Cleared assignments", "pollID", pollID, "count", cleared)
		respondJSON(w, http.StatusOK, map[string]int{"cleared": cleared})
	}
}

func (s *Server) ClearAssignmentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pollID := r.PathValue("id")
		dateID := r.PathValue("dateId")
		if err := s.Polls.ClearAssignment(pollID, dateID); err != nil {
			if errors.Is(err, poll.ErrPollNotFound) {
				http.Error(w, "Poll not found", http.StatusNotFound)
				return
			}
			log.Error("Failed to clear assignment", "error", err, "pollID", pollID, "dateID", dateID)
			http.Error(w, "Failed to clear assignment", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) GenerateAssignmentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pollID := r.PathValue("id")
		dateID := r.URL.Query().Get("date")
		algorithm := pairing.Algorithm(r.URL.Query().Get("algorithm"))
		isDryRun := isDryRunFromContext(r)

		eligible, extras, ok := s.playersForDate(w, pollID, dateID)
		if !ok {
			return
		}

		start := time.Now()
		assignment, err := s.Engine.Generate(dateID, eligible, algorithm)
		if err != nil {
			switch {
			case errors.Is(err, pairing.ErrManualNotDirect):
				http.Error(w, "Manual pairing runs through a session, not direct generation", http.StatusBadRequest)
			case errors.Is(err, pairing.ErrUnknownAlgorithm):
				http.Error(w, "Unknown pairing algorithm", http.StatusBadRequest)
			default:
				log.Error("Failed to generate assignment", "error", err, "pollID", pollID, "dateID", dateID)
				http.Error(w, "Failed to generate assignment", http.StatusInternalServerError)
			}
			return
		}
		s.Metrics.ObserveGenerationDuration(time.Since(start).Seconds())

		// Voters beyond the date's capacity sit out as reserves.
		assignment.ReservePlayers = append(assignment.ReservePlayers, extras...)

		if isDryRun {
			log.Info("[Dry Run] Generated assignment without saving", "pollID", pollID, "dateID", dateID, "algorithm", algorithm)
			respondJSON(w, http.StatusOK, assignment)
			return
		}

		if _, err := s.Polls.SaveAssignment(pollID, *assignment); err != nil {
			log.Error("Failed to save generated assignment", "error", err, "pollID", pollID, "dateID", dateID)
			http.Error(w, "Failed to save assignment", http.StatusInternalServerError)
			return
		}
		s.finishGeneration(pollID, assignment, usernameFromContext(r), false)

		respondJSON(w, http.StatusOK, assignment)
	}
}

func (s *Server) AutoGenerateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pollID := r.PathValue("id")
		dateID := r.URL.Query().Get("date")

		eligible, _, ok := s.playersForDate(w, pollID, dateID)
		if !ok {
			return
		}

		// Synthesized for display only, never persisted.
		assignment := s.Engine.AutoGenerate(dateID, eligible)
		respondJSON(w, http.StatusOK, assignment)
	}
}

func (s *Server) RemoveMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pollID := r.PathValue("id")
		dateID := r.PathValue("dateId")
		matchID := r.PathValue("matchId")

		assignment, ok := s.assignmentForDate(w, pollID, dateID)
		if !ok {
			return
		}

		if err := pairing.RemoveMatch(assignment, matchID); err != nil {
			if errors.Is(err, pairing.ErrMatchNotFound) {
				http.Error(w, "Match not found", http.StatusNotFound)
				return
			}
			log.Error("Failed to remove match", "error", err, "pollID", pollID, "dateID", dateID, "matchID", matchID)
			http.Error(w, "Failed to remove match", http.StatusInternalServerError)
			return
		}

		if _, err := s.Polls.SaveAssignment(pollID, *assignment); err != nil {
			log.Error("Failed to save assignment after match removal", "error", err, "pollID", pollID, "dateID", dateID)
			http.Error(w, "Failed to save assignment", http.StatusInternalServerError)
			return
		}
		log.Info("Removed match", "pollID", pollID, "dateID", dateID, "matchID", matchID)
		respondJSON(w, http.StatusOK, assignment)
	}
}

func (s *Server) ClearMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pollID := r.PathValue("id")
		dateID := r.PathValue("dateId")

		assignment, ok := s.assignmentForDate(w, pollID, dateID)
		if !ok {
			return
		}

		pairing.ClearMatches(assignment)

		if _, err := s.Polls.SaveAssignment(pollID, *assignment); err != nil {
			log.Error("Failed to save assignment after clearing matches", "error", err, "pollID", pollID, "dateID", dateID)
			http.Error(w, "Failed to save assignment", http.StatusInternalServerError)
			return
		}
		log.Info("Cleared matches", "pollID", pollID, "dateID", dateID)
		respondJSON(w, http.StatusOK, assignment)
	}
}

// playersForDate resolves the voters for one poll date, capped at the date's
// capacity. The overflow is returned separately so callers can park it in the
// reserves. Writes the error response itself and reports ok=false on failure.
func (s *Server) playersForDate(w http.ResponseWriter, pollID, dateID string) ([]roster.Player, []roster.Player, bool) {
	p, err := s.Polls.Get(pollID)
	if err != nil {
		if errors.Is(err, poll.ErrPollNotFound) {
			http.Error(w, "Poll not found", http.StatusNotFound)
			return nil, nil, false
		}
		log.Error("Failed to load poll", "error", err, "pollID", pollID)
		http.Error(w, "Failed to load poll", http.StatusInternalServerError)
		return nil, nil, false
	}

	option, found := findOption(p, dateID)
	if !found {
		http.Error(w, "Date is not part of the current poll window", http.StatusBadRequest)
		return nil, nil, false
	}

	players, err := s.Roster.List()
	if err != nil {
		log.Error("Failed to load roster", "error", err)
		http.Error(w, "Failed to load roster", http.StatusInternalServerError)
		return nil, nil, false
	}

	voters := poll.VotersForDate(p, players, dateID)
	maxPlayers := option.MaxPlayers
	if maxPlayers <= 0 {
		maxPlayers = schedule.DefaultMaxPlayers
	}
	if len(voters) <= maxPlayers {
		return voters, nil, true
	}

	// Slots go to whoever claimed them first; seeds only order the
	// pairing input afterwards.
	byClaim := poll.VotersByClaim(p, players, dateID)
	keep := make(map[string]bool, maxPlayers)
	for _, player := range byClaim[:maxPlayers] {
		keep[player.ID] = true
	}
	eligible := []roster.Player{}
	extras := []roster.Player{}
	for _, player := range voters {
		if keep[player.ID] {
			eligible = append(eligible, player)
		} else {
			extras = append(extras, player)
		}
	}
	return eligible, extras, true
}

// assignmentForDate loads the stored assignment for one date. Writes the
// error response itself and reports ok=false when missing.
func (s *Server) assignmentForDate(w http.ResponseWriter, pollID, dateID string) (*pairing.Assignment, bool) {
	assignments, err := s.Polls.Assignments(pollID)
	if err != nil {
		if errors.Is(err, poll.ErrPollNotFound) {
			http.Error(w, "Poll not found", http.StatusNotFound)
			return nil, false
		}
		log.Error("Failed to load assignments", "error", err, "pollID", pollID)
		http.Error(w, "Failed to load assignments", http.StatusInternalServerError)
		return nil, false
	}
	for i := range assignments {
		if assignments[i].DateID == dateID {
			return &assignments[i], true
		}
	}
	http.Error(w, "No assignment for this date", http.StatusNotFound)
	return nil, false
}

// finishGeneration records the side effects of a saved lineup: metrics,
// activity log, Slack and the event bus.
func (s *Server) finishGeneration(pollID string, assignment *pairing.Assignment, username string, dryRun bool) {
	s.Metrics.IncAssignmentsGenerated(string(assignment.Algorithm))
	s.Activity.Log(username, "TEAMS_GENERATED", assignment.DateID)

	if err := s.Notifier.SendLineupNotification(assignment, dryRun); err != nil {
		log.Error("Failed to send lineup notification", "error", err, "pollID", pollID, "dateID", assignment.DateID)
	}

	event := pubsub.AssignmentGeneratedEvent{
		PollID:    pollID,
		DateID:    assignment.DateID,
		Algorithm: string(assignment.Algorithm),
		Teams:     len(assignment.Teams),
		Matches:   len(assignment.Matches),
		Reserves:  len(assignment.ReservePlayers),
	}
	if err := s.pubsub.SendMessage(pubsub.EventAssignmentGenerated, event); err != nil {
		log.Error("Failed to publish assignment event", "error", err, "pollID", pollID)
	}
}

func findOption(p *poll.Poll, dateID string) (schedule.Option, bool) {
	for _, option := range p.Options {
		if option.ID == dateID {
			return option, true
		}
	}
	return schedule.Option{}, false
}
