package users

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"staycal/internal/app/commands"
	"staycal/internal/app/dto"
	"staycal/internal/app/queries"
	domainuser "staycal/internal/domain/user"
)

const (
	listUsersKey  = "users.list"
	createUserKey = "users.create"
	assignRoleKey = "users.assign-role"
)

var ErrPasswordRequired = errors.New("users: password is required")

// Hasher abstracts password hashing; the bcrypt implementation lives in
// infra/security.
type Hasher interface {
	Hash(password string) (string, error)
}

type ListQuery struct{}

func (q ListQuery) Key() string { return listUsersKey }

type CreateCommand struct {
	Email    string
	Name     string
	Password string
	Role     domainuser.Role
}

func (c CreateCommand) Key() string { return createUserKey }

type AssignRoleCommand struct {
	UserID string
	Role   domainuser.Role
}

func (c AssignRoleCommand) Key() string { return assignRoleKey }

type ListHandler struct {
	Users domainuser.Repository
}

func (h *ListHandler) Handle(ctx context.Context, _ ListQuery) ([]dto.User, error) {
	all, err := h.Users.All(ctx)
	if err != nil {
		return nil, err
	}
	return dto.MapUsers(all), nil
}

type AdminHandler struct {
	Users  domainuser.Repository
	Hasher Hasher
	Logger *slog.Logger
}

func (h *AdminHandler) HandleCreate(ctx context.Context, cmd CreateCommand) (dto.User, error) {
	if cmd.Password == "" {
		return dto.User{}, ErrPasswordRequired
	}
	if existing, err := h.Users.ByEmail(ctx, cmd.Email); err == nil && existing != nil {
		return dto.User{}, domainuser.ErrEmailAlreadyUsed
	}
	hash, err := h.Hasher.Hash(cmd.Password)
	if err != nil {
		return dto.User{}, err
	}
	u, err := domainuser.New(domainuser.CreateParams{
		ID:           domainuser.ID(uuid.NewString()),
		Email:        cmd.Email,
		Name:         cmd.Name,
		PasswordHash: hash,
		Role:         cmd.Role,
		Now:          time.Now(),
	})
	if err != nil {
		return dto.User{}, err
	}
	if err := h.Users.Save(ctx, u); err != nil {
		return dto.User{}, err
	}
	if h.Logger != nil {
		h.Logger.Info("user created", "user_id", u.ID, "role", u.Role)
	}
	return dto.MapUser(u), nil
}

func (h *AdminHandler) HandleAssignRole(ctx context.Context, cmd AssignRoleCommand) (dto.User, error) {
	u, err := h.Users.ByID(ctx, domainuser.ID(cmd.UserID))
	if err != nil {
		return dto.User{}, err
	}
	if err := u.AssignRole(cmd.Role, time.Now()); err != nil {
		return dto.User{}, err
	}
	if err := h.Users.Save(ctx, u); err != nil {
		return dto.User{}, err
	}
	return dto.MapUser(u), nil
}

type createAdapter struct{ h *AdminHandler }

func (a createAdapter) Handle(ctx context.Context, cmd CreateCommand) (dto.User, error) {
	return a.h.HandleCreate(ctx, cmd)
}

type assignRoleAdapter struct{ h *AdminHandler }

func (a assignRoleAdapter) Handle(ctx context.Context, cmd AssignRoleCommand) (dto.User, error) {
	return a.h.HandleAssignRole(ctx, cmd)
}

// Register wires the user admin commands onto a command bus.
func (h *AdminHandler) Register(bus *commands.InMemoryBus) {
	commands.RegisterHandler[CreateCommand, dto.User](bus, createUserKey, createAdapter{h})
	commands.RegisterHandler[AssignRoleCommand, dto.User](bus, assignRoleKey, assignRoleAdapter{h})
}

var _ queries.Handler[ListQuery, []dto.User] = (*ListHandler)(nil)
