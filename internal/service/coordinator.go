package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/cwrk-planet/roomcast/internal/domain"
	"github.com/cwrk-planet/roomcast/internal/fanout"
	"github.com/cwrk-planet/roomcast/internal/memory"
	"github.com/cwrk-planet/roomcast/internal/validate"
)

// Coordinator runs the create-user, create/join-room and send-message flow.
// Every operation checks the api key first, then the request shape, then
// the domain rules in a fixed order; the first violation is reported.
// State changes are applied fully or not at all and the matching event is
// published only after a successful mutation.
type Coordinator struct {
	identities *memory.IdentityStore
	rooms      *memory.RoomStore
	fanout     Fanout
	keys       KeyRing
	validate   *validator.Validate

	now func() time.Time
}

type Options struct {
	APIKeys []string
	Now     func() time.Time
}

func NewCoordinator(identities *memory.IdentityStore, rooms *memory.RoomStore, fan Fanout, opts Options) *Coordinator {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Coordinator{
		identities: identities,
		rooms:      rooms,
		fanout:     fan,
		keys:       NewKeyRing(opts.APIKeys...),
		validate:   newValidator(),
		now:        now,
	}
}

// Connect registers a channel for global events such as RoomCreated.
func (c *Coordinator) Connect(sub fanout.Subscriber) {
	c.fanout.Register(sub)
}

// Disconnect drops the channel's subscriptions. Memberships are keyed by
// identity and survive; a reconnecting channel must join again to
// resubscribe.
func (c *Coordinator) Disconnect(sub fanout.Subscriber) {
	c.fanout.Unregister(sub)
}

func (c *Coordinator) ListRooms(_ context.Context, req ListRoomsRequest) (_ []domain.RoomSummary, err error) {
	defer recoverInternal("ListRooms", &err)

	if err := c.keys.Authorize(req.APIKey); err != nil {
		return nil, err
	}
	return c.rooms.List(), nil
}

func (c *Coordinator) CreateUser(_ context.Context, req CreateUserRequest) (_ CreateUserResponse, err error) {
	defer recoverInternal("CreateUser", &err)

	if err := c.keys.Authorize(req.APIKey); err != nil {
		return CreateUserResponse{}, err
	}
	if !req.AgreedToTerms {
		return CreateUserResponse{}, domain.ErrTermsRequired
	}
	if err := validate.DisplayName(req.Name); err != nil {
		return CreateUserResponse{}, err
	}
	if err := validate.Email(req.Email); err != nil {
		return CreateUserResponse{}, err
	}
	dob, err := validate.Adult(req.DOB, c.now())
	if err != nil {
		return CreateUserResponse{}, err
	}
	gender, err := validate.Gender(req.Gender)
	if err != nil {
		return CreateUserResponse{}, err
	}

	user := c.identities.Create(domain.NewIdentity{
		DisplayName: req.Name,
		Email:       req.Email,
		BirthDate:   dob,
		Gender:      gender,
	})
	slog.Info("user created", "user", user.ID)

	return CreateUserResponse{User: user}, nil
}

func (c *Coordinator) CreateRoom(_ context.Context, req CreateRoomRequest) (_ CreateRoomResponse, err error) {
	defer recoverInternal("CreateRoom", &err)

	if err := c.keys.Authorize(req.APIKey); err != nil {
		return CreateRoomResponse{}, err
	}
	if err := c.check(req); err != nil {
		return CreateRoomResponse{}, err
	}
	fields, err := c.roomFields(req.RoomName, req.StartDate, req.MaxUsers)
	if err != nil {
		return CreateRoomResponse{}, err
	}
	if !c.identities.Exists(req.UserID) {
		return CreateRoomResponse{}, domain.ErrUserNotFound
	}

	// nobody can be subscribed to a brand-new room, so its creation is
	// announced to every connected channel
	room := c.rooms.Create(req.UserID, fields, func(r domain.Room) {
		c.publish(domain.RoomCreated{Room: r}, fanout.All())
	})
	slog.Info("room created", "room", room.ID, "creator", req.UserID, "max", room.MaxMembers)

	return CreateRoomResponse{Room: room}, nil
}

// SeedRoom creates a room without creator or event. Used at start-up.
func (c *Coordinator) SeedRoom(name, startDate string, maxMembers *int) (domain.Room, error) {
	fields, err := c.roomFields(name, startDate, maxMembers)
	if err != nil {
		return domain.Room{}, fmt.Errorf("seed room %q: %w", name, err)
	}
	return c.rooms.Create("", fields, nil), nil
}

// JoinRoom adds the identity to the room and subscribes sub to the room
// group. sub may be nil for callers without a channel. The other
// subscribers are told about the new presence, the joining channel is not.
func (c *Coordinator) JoinRoom(_ context.Context, req JoinRoomRequest, sub fanout.Subscriber) (_ JoinRoomResponse, err error) {
	defer recoverInternal("JoinRoom", &err)

	if err := c.keys.Authorize(req.APIKey); err != nil {
		return JoinRoomResponse{}, err
	}
	if err := c.check(req); err != nil {
		return JoinRoomResponse{}, err
	}
	user, ok := c.identities.Get(req.UserID)
	if !ok {
		return JoinRoomResponse{}, domain.ErrUserNotFound
	}

	res, err := c.rooms.Join(user.ID, req.RoomID, func(room domain.Room, rejoin bool) {
		evt := domain.PresenceJoined{IdentityID: user.ID, DisplayName: user.DisplayName, RoomID: room.ID}
		c.publish(evt, fanout.Room(room.ID).Except(sub))
		if sub != nil {
			c.fanout.Subscribe(room.ID, sub)
		}
		slog.Debug("room joined", "room", room.ID, "user", user.ID, "rejoin", rejoin)
	})
	if err != nil {
		return JoinRoomResponse{}, err
	}
	return res, nil
}

// SendMessage appends to the room log and broadcasts the message to the
// whole room, the sender's own channel included.
func (c *Coordinator) SendMessage(_ context.Context, req SendMessageRequest) (_ SendMessageResponse, err error) {
	defer recoverInternal("SendMessage", &err)

	if err := c.keys.Authorize(req.APIKey); err != nil {
		return SendMessageResponse{}, err
	}
	if err := c.check(req); err != nil {
		return SendMessageResponse{}, err
	}
	if _, ok := c.rooms.Get(req.RoomID); !ok {
		return SendMessageResponse{}, domain.ErrRoomNotFound
	}
	sender, ok := c.identities.Get(req.UserID)
	if !ok {
		return SendMessageResponse{}, domain.ErrUserNotFound
	}

	msg, err := c.rooms.Append(req.RoomID, sender, req.Text, func(m domain.Message) {
		c.publish(domain.MessageCreated{Message: m}, fanout.Room(m.RoomID))
	})
	if err != nil {
		return SendMessageResponse{}, err
	}
	return SendMessageResponse{Message: msg}, nil
}

// RoomMessages serves the read-only history query.
func (c *Coordinator) RoomMessages(_ context.Context, req RoomMessagesRequest) (_ RoomMessagesResponse, err error) {
	defer recoverInternal("RoomMessages", &err)

	if err := c.keys.Authorize(req.APIKey); err != nil {
		return RoomMessagesResponse{}, err
	}
	if err := c.check(req); err != nil {
		return RoomMessagesResponse{}, err
	}

	if req.After == "" && req.Limit == 0 {
		items, err := c.rooms.All(req.RoomID)
		if err != nil {
			return RoomMessagesResponse{}, err
		}
		return RoomMessagesResponse{Items: items}, nil
	}

	items, next, err := c.rooms.Page(req.RoomID, req.After, req.Limit)
	if err != nil {
		return RoomMessagesResponse{}, err
	}
	return RoomMessagesResponse{Items: items, NextCursor: next}, nil
}

func (c *Coordinator) roomFields(name, startDate string, maxMembers *int) (domain.NewRoom, error) {
	trimmed, err := validate.RoomName(name)
	if err != nil {
		return domain.NewRoom{}, err
	}
	start, err := validate.StartDate(startDate, c.now())
	if err != nil {
		return domain.NewRoom{}, err
	}
	return domain.NewRoom{
		Name:       trimmed,
		StartDate:  start,
		MaxMembers: validate.ClampMaxMembers(maxMembers),
	}, nil
}

// publish runs inside commit hooks, after the state change is applied.
// Delivery is best-effort, so a panic here is logged and never turns a
// committed operation into a failure.
func (c *Coordinator) publish(evt domain.Event, scope fanout.Scope) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("fanout publish panic",
				"event", evt.Type(),
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	c.fanout.Publish(evt, scope)
}

// check runs the struct tags of a request and reports the first failure
// as BAD_REQUEST.
func (c *Coordinator) check(req any) error {
	err := c.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return domain.BadRequest(fe.Field() + " is required")
		}
		return domain.BadRequest(fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
	}
	return domain.BadRequest(err.Error())
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// recoverInternal turns a panic inside an operation into an INTERNAL error.
func recoverInternal(op string, err *error) {
	if r := recover(); r != nil {
		slog.Error("coordinator panic",
			"op", op,
			"panic", r,
			"stack", string(debug.Stack()))
		*err = domain.NewError(domain.CodeInternal, fmt.Sprint(r))
	}
}
