package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cwrk-planet/roomcast/internal/domain"
	"github.com/cwrk-planet/roomcast/internal/service"
	httpmw "github.com/cwrk-planet/roomcast/internal/transport/http/middleware"
)

// Reader is the read-only part of the coordinator served over HTTP.
type Reader interface {
	ListRooms(ctx context.Context, req service.ListRoomsRequest) ([]domain.RoomSummary, error)
	RoomMessages(ctx context.Context, req service.RoomMessagesRequest) (service.RoomMessagesResponse, error)
}

type Handler struct {
	reader Reader
}

func NewHandler(reader Reader) *Handler {
	return &Handler{reader: reader}
}

// GET /api/rooms
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.reader.ListRooms(r.Context(), service.ListRoomsRequest{
		APIKey: httpmw.APIKeyFromCtx(r.Context()),
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, rooms)
}

// GET /api/rooms/{id}/messages?after=&limit=
func (h *Handler) RoomMessages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := service.RoomMessagesRequest{
		APIKey: httpmw.APIKeyFromCtx(r.Context()),
		RoomID: chi.URLParam(r, "id"),
		After:  q.Get("after"),
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			fail(w, r, domain.BadRequest("limit must be an integer"))
			return
		}
		req.Limit = n
	}

	page, err := h.reader.RoomMessages(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, page)
}
