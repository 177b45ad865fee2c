package memory

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/cwrk-planet/roomcast/internal/domain"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

// roomState is the unit of mutation for one room: its definition, its
// membership set and its message log are guarded by the same mutex.
type roomState struct {
	mu      sync.Mutex
	room    domain.Room
	members map[string]struct{}
	log     []domain.Message
}

// RoomStore is the room registry and the per-room message log.
// The index lock only guards the map and creation order; every read or
// write of a room's contents goes through that room's own lock, so rooms
// never contend with each other.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*roomState
	order []string

	now func() time.Time
}

func NewRoomStore(now func() time.Time) *RoomStore {
	if now == nil {
		now = time.Now
	}
	return &RoomStore{
		rooms: make(map[string]*roomState),
		now:   now,
	}
}

// Create registers a room and auto-joins creatorID when it is not empty.
// commit runs once the room is visible and before anyone else can join it.
func (s *RoomStore) Create(creatorID string, in domain.NewRoom, commit func(domain.Room)) domain.Room {
	st := &roomState{
		room: domain.Room{
			ID:         uuid.NewString(),
			Name:       in.Name,
			StartDate:  in.StartDate,
			MaxMembers: in.MaxMembers,
			CreatedAt:  s.now().UTC(),
			CreatorID:  creatorID,
		},
		members: make(map[string]struct{}),
	}
	if creatorID != "" {
		st.members[creatorID] = struct{}{}
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	s.mu.Lock()
	s.rooms[st.room.ID] = st
	s.order = append(s.order, st.room.ID)
	s.mu.Unlock()

	if commit != nil {
		commit(st.room)
	}
	return st.room
}

// List returns a snapshot of every room in creation order.
func (s *RoomStore) List() []domain.RoomSummary {
	s.mu.RLock()
	states := make([]*roomState, 0, len(s.order))
	for _, id := range s.order {
		states = append(states, s.rooms[id])
	}
	s.mu.RUnlock()

	out := make([]domain.RoomSummary, 0, len(states))
	for _, st := range states {
		st.mu.Lock()
		out = append(out, domain.RoomSummary{
			ID:          st.room.ID,
			Name:        st.room.Name,
			StartDate:   st.room.StartDate,
			MaxMembers:  st.room.MaxMembers,
			MemberCount: len(st.members),
		})
		st.mu.Unlock()
	}
	return out
}

func (s *RoomStore) Get(roomID string) (domain.Room, bool) {
	st, ok := s.state(roomID)
	if !ok {
		return domain.Room{}, false
	}
	// room definitions never change, no need for the room lock
	return st.room, true
}

// Join adds identityID to the room. Re-joining is idempotent and ignores
// capacity. commit runs under the room lock with rejoin telling whether
// the identity was already a member.
func (s *RoomStore) Join(identityID, roomID string, commit func(room domain.Room, rejoin bool)) (domain.JoinResult, error) {
	st, ok := s.state(roomID)
	if !ok {
		return domain.JoinResult{}, domain.ErrRoomNotFound
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	_, rejoin := st.members[identityID]
	if !rejoin && len(st.members) >= st.room.MaxMembers {
		return domain.JoinResult{}, domain.ErrRoomFull
	}
	st.members[identityID] = struct{}{}

	res := domain.JoinResult{
		Room:           st.room,
		RecentMessages: tail(st.log, domain.RecentMessagesLimit),
	}
	if commit != nil {
		commit(st.room, rejoin)
	}
	return res, nil
}

func (s *RoomStore) IsMember(roomID, identityID string) bool {
	st, ok := s.state(roomID)
	if !ok {
		return false
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	_, member := st.members[identityID]
	return member
}

func (s *RoomStore) MemberCount(roomID string) (int, error) {
	st, ok := s.state(roomID)
	if !ok {
		return 0, domain.ErrRoomNotFound
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.members), nil
}

// Append adds a message from sender to the room log. The text is trimmed
// before the length checks. commit runs under the room lock, so anything
// it publishes is observed in append order.
func (s *RoomStore) Append(roomID string, sender domain.Identity, text string, commit func(domain.Message)) (domain.Message, error) {
	st, ok := s.state(roomID)
	if !ok {
		return domain.Message{}, domain.ErrRoomNotFound
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if _, member := st.members[sender.ID]; !member {
		return domain.Message{}, domain.ErrForbidden
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Message{}, domain.ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > domain.MaxMessageLength {
		return domain.Message{}, domain.ErrMessageTooLong
	}

	msg := domain.Message{
		ID:                uuid.NewString(),
		RoomID:            roomID,
		Seq:               int64(len(st.log)) + 1,
		SenderID:          sender.ID,
		SenderDisplayName: sender.DisplayName,
		Text:              text,
		CreatedAt:         s.now().UTC(),
	}
	st.log = append(st.log, msg)

	if commit != nil {
		commit(msg)
	}
	return msg, nil
}

// Recent returns up to limit of the newest messages, oldest first.
func (s *RoomStore) Recent(roomID string, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = domain.RecentMessagesLimit
	}
	st, ok := s.state(roomID)
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return tail(st.log, limit), nil
}

func (s *RoomStore) All(roomID string) ([]domain.Message, error) {
	st, ok := s.state(roomID)
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]domain.Message{}, st.log...), nil
}

// Page walks the log forward from cursor. The returned cursor is empty once
// the end of the log has been reached.
func (s *RoomStore) Page(roomID, after string, limit int) ([]domain.Message, string, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	st, ok := s.state(roomID)
	if !ok {
		return nil, "", domain.ErrRoomNotFound
	}
	cur, err := DecodeCursor(after)
	if err != nil {
		return nil, "", err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	start := 0
	if cur != nil {
		start = int(min(cur.Seq, int64(len(st.log))))
	}
	end := min(start+limit, len(st.log))
	items := append([]domain.Message{}, st.log[start:end]...)

	if end == len(st.log) {
		return items, "", nil
	}
	next, err := EncodeCursor(Cursor{Seq: int64(end)})
	if err != nil {
		return nil, "", err
	}
	return items, next, nil
}

func (s *RoomStore) state(roomID string) (*roomState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.rooms[roomID]
	return st, ok
}

func tail(log []domain.Message, n int) []domain.Message {
	if len(log) > n {
		log = log[len(log)-n:]
	}
	return append([]domain.Message{}, log...)
}
