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

type Server struct {
	Polls          poll.PollStore
	Roster         roster.RosterStore
	Coins          coins.CoinStore
	Activity       activity.ActivityStore
	Engine         *pairing.Engine
	Sessions       *pairing.Sessions
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
