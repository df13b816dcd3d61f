package http

import (
	"net/http"

	"github.com/vgtennis/court-scheduler/internal/activity"
	"github.com/vgtennis/court-scheduler/internal/coins"
	"github.com/vgtennis/court-scheduler/internal/config"
	"github.com/vgtennis/court-scheduler/internal/metrics"
	"github.com/vgtennis/court-scheduler/internal/notifier"
	"github.com/vgtennis/court-scheduler/internal/pairing"
	"github.com/vgtennis/court-scheduler/internal/poll"
	"github.com/vgtennis/court-scheduler/internal/pubsub"
	"github.com/vgtennis/court-scheduler/internal/roster"
)

func NewServer(polls poll.PollStore, rosterStore roster.RosterStore, coinStore coins.CoinStore, activityStore activity.ActivityStore, engine *pairing.Engine, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Polls:          polls,
		Roster:         rosterStore,
		Coins:          coinStore,
		Activity:       activityStore,
		Engine:         engine,
		Sessions:       pairing.NewSessions(),
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("GET /polls", Chain(s.ListPollsHandler(), paramsMiddleware))
	s.Router.Handle("POST /polls", Chain(s.CreatePollHandler(), paramsMiddleware))
	s.Router.Handle("GET /polls/{id}", Chain(s.GetPollHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /polls/{id}", Chain(s.DeletePollHandler(), paramsMiddleware))
	s.Router.Handle("POST /polls/{id}/vote", Chain(s.SubmitVoteHandler(), paramsMiddleware, s.coinGate("VOTE_SUBMISSION")))

	s.Router.Handle("GET /polls/{id}/teams", Chain(s.ListAssignmentsHandler(), paramsMiddleware))
	s.Router.Handle("POST /polls/{id}/teams", Chain(s.SaveAssignmentHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /polls/{id}/teams", Chain(s.ClearAssignmentsHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /polls/{id}/teams/{dateId}", Chain(s.ClearAssignmentHandler(), paramsMiddleware))
	s.Router.Handle("POST /polls/{id}/teams/generate", Chain(s.GenerateAssignmentHandler(), paramsMiddleware, s.coinGate("TEAM_GENERATION")))
	s.Router.Handle("POST /polls/{id}/teams/auto", Chain(s.AutoGenerateHandler(), paramsMiddleware))
	s.Router.Handle("POST /polls/{id}/teams/{dateId}/matches/{matchId}/remove", Chain(s.RemoveMatchHandler(), paramsMiddleware, s.coinGate("MATCH_SCHEDULING")))
	s.Router.Handle("POST /polls/{id}/teams/{dateId}/clear-matches", Chain(s.ClearMatchesHandler(), paramsMiddleware))

	s.Router.Handle("POST /polls/{id}/teams/{dateId}/manual/start", Chain(s.StartManualSessionHandler(), paramsMiddleware))
	s.Router.Handle("GET /polls/{id}/teams/{dateId}/manual", Chain(s.ManualSessionStateHandler(), paramsMiddleware))
	s.Router.Handle("POST /polls/{id}/teams/{dateId}/manual/select", Chain(s.ManualSelectHandler(), paramsMiddleware))
	s.Router.Handle("POST /polls/{id}/teams/{dateId}/manual/disband", Chain(s.ManualDisbandHandler(), paramsMiddleware))
	s.Router.Handle("POST /polls/{id}/teams/{dateId}/manual/reserve", Chain(s.ManualReserveHandler(), paramsMiddleware))
	s.Router.Handle("POST /polls/{id}/teams/{dateId}/manual/finalize", Chain(s.ManualFinalizeHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /polls/{id}/teams/{dateId}/manual", Chain(s.DiscardManualSessionHandler(), paramsMiddleware))

	s.Router.Handle("GET /players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("POST /players", Chain(s.CreatePlayerHandler(), paramsMiddleware, s.coinGate("PLAYER_ADD")))
	s.Router.Handle("GET /players/{id}", Chain(s.GetPlayerHandler(), paramsMiddleware))
	s.Router.Handle("PUT /players/{id}", Chain(s.UpdatePlayerHandler(), paramsMiddleware, s.coinGate("PLAYER_EDIT")))
	s.Router.Handle("DELETE /players/{id}", Chain(s.DeletePlayerHandler(), paramsMiddleware, s.coinGate("PLAYER_DELETE")))
	s.Router.Handle("POST /players/reorder", Chain(s.ReorderPlayersHandler(), paramsMiddleware))

	s.Router.Handle("GET /coins/balance", Chain(s.CoinBalanceHandler(), paramsMiddleware))
	s.Router.Handle("POST /coins/use", Chain(s.UseCoinsHandler(), paramsMiddleware))
	s.Router.Handle("POST /coins/purchase", Chain(s.PurchaseCoinsHandler(), paramsMiddleware, s.adminOnly))
	s.Router.Handle("GET /coins/transactions", Chain(s.CoinTransactionsHandler(), paramsMiddleware, s.adminOnly))
	s.Router.Handle("GET /coins/pricing", Chain(s.CoinPricingHandler(), paramsMiddleware))

	s.Router.Handle("GET /activity", Chain(s.ListActivityHandler(), paramsMiddleware))
	s.Router.Handle("POST /activity", Chain(s.LogActivityHandler(), paramsMiddleware))
	s.Router.Handle("GET /activity/stats", Chain(s.ActivityStatsHandler(), paramsMiddleware, s.adminOnly))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
