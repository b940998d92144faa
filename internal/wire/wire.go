// internal/wire/wire.go
package wire

import (
	"net/http"

	"roomblock/internal/adaptor"
	"roomblock/internal/data/repository"
	"roomblock/internal/jobs"
	"roomblock/internal/usecase"
	"roomblock/pkg/middleware"
	"roomblock/pkg/notify"
	"roomblock/pkg/payment"
	"roomblock/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// App holds the wired application.
type App struct {
	Router  *chi.Mux
	Sweeper *jobs.ExpirySweeper
}

// Wiring initializes every dependency and connects the routes.
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	gateway := payment.NewRazorpayGateway(config.Payment, logger)
	notifier := notify.NewSMTPNotifier(config.Email, logger)

	service := usecase.NewService(repo, gateway, notifier, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, logger)
	sweeper := jobs.NewExpirySweeper(repo, config.Booking.SweepSpec, logger)

	return &App{
		Router:  router,
		Sweeper: sweeper,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	wireEvent(r, handler.Event, repo, logger)
	wireGuest(r, handler.Guest, repo, logger)
	wireProposal(r, handler.Proposal, repo, logger)
	wireBooking(r, handler.Booking, repo, logger)
	wireSettlement(r, handler.Settlement, repo, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
