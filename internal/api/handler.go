// Package api exposes the library catalog as a JSON HTTP API.
package api

import (
	"context"
	"iter"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AntonStoeckl/library-views-go/catalog"
	"github.com/AntonStoeckl/library-views-go/catalog/query"
)

// Writer is the part of the view store the API writes through directly.
type Writer interface {
	CreateBook(ctx context.Context, book catalog.Book) error
	CreateUser(ctx context.Context, email, firstName, lastName string) (uuid.UUID, error)
}

// Circulation runs borrow and return requests.
type Circulation interface {
	Borrow(ctx context.Context, userID uuid.UUID, isbn string) (catalog.BorrowRecord, error)
	Return(ctx context.Context, userID uuid.UUID, isbn string, borrowedAt time.Time) error
}

// Reader serves the read patterns.
type Reader interface {
	BookByISBN(ctx context.Context, isbn string) (catalog.Book, bool, error)
	BooksByCategory(ctx context.Context, category string) iter.Seq2[catalog.CategoryBook, error]
	AllBooks(ctx context.Context) iter.Seq2[catalog.Book, error]
	UserByID(ctx context.Context, id uuid.UUID) (catalog.User, bool, error)
	UserByEmail(ctx context.Context, email string) (catalog.User, bool, error)
	AllUsers(ctx context.Context) iter.Seq2[catalog.User, error]
	UserBorrowHistory(ctx context.Context, userID uuid.UUID) iter.Seq2[catalog.BorrowRecord, error]
	BookBorrowHistory(ctx context.Context, isbn string) iter.Seq2[catalog.BookBorrowEntry, error]
	Stats(ctx context.Context) (query.Stats, error)
}

// Handler serves the HTTP endpoints.
type Handler struct {
	writer      Writer
	circulation Circulation
	reader      Reader
	logger      catalog.Logger

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewHandler creates a Handler and registers its HTTP metrics with registerer.
func NewHandler(
	writer Writer,
	circulation Circulation,
	reader Reader,
	logger catalog.Logger,
	registerer prometheus.Registerer,
) *Handler {
	h := &Handler{
		writer:      writer,
		circulation: circulation,
		reader:      reader,
		logger:      logger,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "library_http_requests_total",
			Help: "Total HTTP requests processed, labeled by status code",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "library_http_request_duration_seconds",
			Help:    "Latency distribution of HTTP requests",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route"}),
	}

	if registerer != nil {
		registerer.MustRegister(h.requestsTotal, h.requestDuration)
	}

	return h
}

// Router builds the route table. gatherer serves /metrics; nil uses the default registry.
func (h *Handler) Router(gatherer prometheus.Gatherer) *mux.Router {
	r := mux.NewRouter()

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.Use(h.instrument)

	v1.HandleFunc("/books", h.CreateBook).Methods(http.MethodPost)
	v1.HandleFunc("/books", h.ListBooks).Methods(http.MethodGet)
	v1.HandleFunc("/books/{isbn}", h.GetBook).Methods(http.MethodGet)
	v1.HandleFunc("/books/{isbn}/borrows", h.BookBorrowHistory).Methods(http.MethodGet)

	v1.HandleFunc("/users", h.RegisterUser).Methods(http.MethodPost)
	v1.HandleFunc("/users", h.ListUsers).Methods(http.MethodGet)
	v1.HandleFunc("/users/{id}", h.GetUser).Methods(http.MethodGet)
	v1.HandleFunc("/users/{id}/borrows", h.UserBorrowHistory).Methods(http.MethodGet)

	v1.HandleFunc("/borrows", h.Borrow).Methods(http.MethodPost)
	v1.HandleFunc("/returns", h.Return).Methods(http.MethodPost)

	v1.HandleFunc("/stats", h.Stats).Methods(http.MethodGet)

	return r
}

// instrument records request counts and latencies per route template.
func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		timer := prometheus.NewTimer(h.requestDuration.WithLabelValues(r.Method, route))
		defer timer.ObserveDuration()

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		h.requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(recorder.status)).Inc()
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}
