package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	httpmw "github.com/cwrk-planet/roomcast/internal/transport/http/middleware"
)

type RouterOptions struct {
	AllowedOrigins []string
	// WS serves GET /ws when set.
	WS http.HandlerFunc
	// Ready reports readiness for /healthz. Nil means always ready.
	Ready func() bool
}

func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewareChi.RequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(middlewareChi.Recoverer)
	r.Use(httpmw.RequestID)
	r.Use(httpmw.Logging)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", httpmw.HeaderAPIKey, middlewareChi.RequestIDHeader},
		ExposedHeaders:   []string{middlewareChi.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if opts.WS != nil {
		r.Get("/ws", opts.WS)
	}

	r.Route("/api", func(api chi.Router) {
		api.Use(httpmw.APIKey)
		api.Use(middlewareChi.Timeout(30 * time.Second))

		api.Get("/rooms", h.ListRooms)
		api.Get("/rooms/{id}/messages", h.RoomMessages)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if opts.Ready != nil && !opts.Ready() {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "shutting down"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
