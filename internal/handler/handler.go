package handler

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/flash"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/metrics"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/utils"
	"github.com/sysu-ecnc-dev/employee-manager/backend/internal/view"
)

type EventPublisher interface {
	Publish(ctx context.Context, event domain.EmployeeEvent) error
}

type Handler struct {
	validate     *validator.Validate
	translator   ut.Translator
	config       *config.Config
	repository   repository.EmployeeRepository
	flash        *flash.Carrier
	events       EventPublisher
	renderer     *view.Renderer
	metrics      *metrics.Metrics
	healthChecks map[string]PingFunc

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo repository.EmployeeRepository, flashStore flash.Store, events EventPublisher, m *metrics.Metrics) (*Handler, error) {
	validate, trans, err := utils.NewValidator()
	if err != nil {
		return nil, err
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}

	carrier := flash.NewCarrier(
		flashStore,
		cfg.Flash.CookieName,
		time.Duration(cfg.Flash.Expiration)*time.Second,
		cfg.Environment == "production",
	)

	return &Handler{
		validate:     validate,
		translator:   trans,
		config:       cfg,
		repository:   repo,
		flash:        carrier,
		events:       events,
		renderer:     renderer,
		metrics:      m,
		healthChecks: make(map[string]PingFunc),

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.instrument)
	h.Mux.Use(h.recoverer)

	h.Mux.NotFound(h.notFound)

	h.Mux.Get("/", h.Home)
	h.Mux.Get("/healthz", h.Health)

	h.Mux.Route("/employees", func(r chi.Router) {
		r.Get("/", h.Home)
		r.Get("/register", h.ShowRegistrationForm)
		r.Post("/save", h.SaveEmployee)
		r.Get("/list", h.ListEmployees)
		r.With(h.employee).Get("/view/{id:[0-9]+}", h.ViewEmployee)
		r.With(h.employee).Get("/edit/{id:[0-9]+}", h.ShowEditForm)
		r.Post("/update/{id:[0-9]+}", h.UpdateEmployee)
		r.Get("/delete/{id:[0-9]+}", h.DeleteEmployee)
	})
}
