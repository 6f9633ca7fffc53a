// Package app wires the repository, services, event bus, gateway, and
// HTTP surface into one runnable application.
package app

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ITKKhan/HorrorWatchBot/internal/bot"
	"github.com/ITKKhan/HorrorWatchBot/internal/config"
	"github.com/ITKKhan/HorrorWatchBot/internal/events"
	"github.com/ITKKhan/HorrorWatchBot/internal/gateway"
	"github.com/ITKKhan/HorrorWatchBot/internal/handlers"
	"github.com/ITKKhan/HorrorWatchBot/internal/logger"
	"github.com/ITKKhan/HorrorWatchBot/internal/repository"
	"github.com/ITKKhan/HorrorWatchBot/internal/services"
	"github.com/ITKKhan/HorrorWatchBot/pkg/omdb"
)

// App holds all application dependencies
type App struct {
	log      logger.Logger
	cfg      *config.Config
	handlers *handlers.Handlers
	repo     *repository.Repository
	joinURL  string
}

// New creates and initializes a new application instance
func New(log logger.Logger, cfg *config.Config, lookup omdb.Client) (*App, error) {
	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	// Initialize services
	movieService := services.NewMovieService(log, repo)
	votingService := services.NewVotingService(log, cfg.SessionSize, cfg.VoteCap)
	resultsService := services.NewResultsService(log, votingService)
	scheduleService := services.NewScheduleService(log, repo)

	// Event plumbing: bus, websocket gateway, and the bot engine
	bus := events.New(log)
	hub := gateway.New(log, bus, cfg.AdminToken)
	hub.Start()

	engine := bot.New(log, bus, hub, movieService, votingService, resultsService, scheduleService, lookup, cfg.ReplyTimeout)
	engine.Register()

	joinURL := cfg.PublicURL
	if joinURL == "" {
		joinURL = fmt.Sprintf("http://%s%s/ws", preferredIP(), cfg.Addr)
	}

	h := handlers.New(movieService, votingService, resultsService, scheduleService, hub, log, joinURL)

	return &App{
		log:      log,
		cfg:      cfg,
		handlers: h,
		repo:     repo,
		joinURL:  joinURL,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close releases app resources
func (a *App) Close() {
	if a.repo != nil {
		a.repo.Close()
	}
}

// Run starts the HTTP server
func (a *App) Run() error {
	a.log.Info("Server starting", "addr", a.cfg.Addr, "join_url", a.joinURL)
	return http.ListenAndServe(a.cfg.Addr, a.Router())
}

// preferredIP returns the best IPv4 address for LAN access, preferring
// private ranges, so the join QR code works for people on the same
// network. Falls back to localhost.
func preferredIP() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok || ipNet.IP.To4() == nil || ipNet.IP.IsLoopback() {
				continue
			}
			candidates = append(candidates, ipNet.IP)
		}
	}

	for _, ip := range candidates {
		if ip.IsPrivate() {
			return ip.String()
		}
	}
	if len(candidates) > 0 {
		return candidates[0].String()
	}
	return "localhost"
}

// JoinURL returns the address encoded into the join QR code
func (a *App) JoinURL() string {
	return strings.TrimSpace(a.joinURL)
}
