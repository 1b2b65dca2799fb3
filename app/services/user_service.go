package services

import (
	"context"
	"fmt"
	"slices"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/kashvi-shop/app/models"
	"github.com/shashiranjanraj/kashvi-shop/app/repositories"
	"github.com/shashiranjanraj/kashvi-shop/pkg/apperr"
	"github.com/shashiranjanraj/kashvi-shop/pkg/auth"
)

// CreateUserInput is the sign-up and admin user-creation payload.
type CreateUserInput struct {
	Email     string   `json:"email"     validate:"required,email"`
	Password  string   `json:"password"  validate:"required,min=6,max=72"`
	FirstName string   `json:"firstName" validate:"nullable,max=60"`
	LastName  string   `json:"lastName"  validate:"nullable,max=60"`
	Phone     string   `json:"phone"     validate:"nullable,max=30"`
	Address   string   `json:"address"   validate:"nullable,max=255"`
	Roles     []string `json:"role"      validate:"nullable,dive,in=admin,user"`
}

// UpdateUserInput is a partial profile update; nil fields are left alone.
type UpdateUserInput struct {
	Email     *string `json:"email"     validate:"nullable,email"`
	Password  *string `json:"password"  validate:"nullable,min=6,max=72"`
	FirstName *string `json:"firstName" validate:"nullable,max=60"`
	LastName  *string `json:"lastName"  validate:"nullable,max=60"`
	Phone     *string `json:"phone"     validate:"nullable,max=30"`
	Address   *string `json:"address"   validate:"nullable,max=255"`
}

type AssignRolesInput struct {
	Roles []string `json:"role" validate:"required,min=1,dive,in=admin,user"`
}

type UserService struct {
	users      repositories.UserRepository
	bcryptCost int
	clock      clock
}

func NewUserService(users repositories.UserRepository, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// Create hashes the password and stores a new user. A duplicate email is
// Conflict.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (models.User, error) {
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return models.User{}, apperr.Conflictf("Email already exists")
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return models.User{}, err
	}

	roles := normalizeRoles(in.Roles)
	now := s.clock.now()
	u := models.User{
		Email:     in.Email,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Address:   in.Address,
		Roles:     roles,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, &u); err != nil {
		return models.User{}, storeErr(err, "User not found", "Email already exists")
	}
	return u, nil
}

// CreateAs creates a user on behalf of actor. Only admins choose the new
// account's roles; anyone else gets the default role.
func (s *UserService) CreateAs(ctx context.Context, actor auth.Principal, in CreateUserInput) (models.User, error) {
	if !actor.HasRole(models.RoleAdmin) {
		in.Roles = nil
	}
	return s.Create(ctx, in)
}

func (s *UserService) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return models.User{}, storeErr(err, idNotFound("User", id.Hex()), "")
	}
	return u, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return models.User{}, storeErr(err, fmt.Sprintf("User with email %s not found", email), "")
	}
	return u, nil
}

// All lists every user. Password hashes never leave the model.
func (s *UserService) All(ctx context.Context) ([]models.User, error) {
	return s.users.All(ctx)
}

// Get returns a user the actor may see: admins see everyone, others only
// themselves.
func (s *UserService) Get(ctx context.Context, actor auth.Principal, id primitive.ObjectID) (models.User, error) {
	if err := selfOrAdmin(actor, id); err != nil {
		return models.User{}, err
	}
	return s.FindByID(ctx, id)
}

// Update applies a partial profile update on behalf of actor.
func (s *UserService) Update(ctx context.Context, actor auth.Principal, id primitive.ObjectID, in UpdateUserInput) (models.User, error) {
	if err := selfOrAdmin(actor, id); err != nil {
		return models.User{}, err
	}
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password, s.bcryptCost)
		if err != nil {
			return models.User{}, err
		}
		u.Password = hash
	}
	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}
	if in.Phone != nil {
		u.Phone = *in.Phone
	}
	if in.Address != nil {
		u.Address = *in.Address
	}
	u.UpdatedAt = s.clock.now()

	if err := s.users.Update(ctx, &u); err != nil {
		return models.User{}, storeErr(err, idNotFound("User", id.Hex()), "Email already exists")
	}
	return u, nil
}

// AssignRoles replaces the role set of a user.
func (s *UserService) AssignRoles(ctx context.Context, id primitive.ObjectID, roles []string) (models.User, error) {
	for _, r := range roles {
		if !slices.Contains(models.Roles, r) {
			return models.User{}, apperr.Validation(map[string]string{"role": fmt.Sprintf("unknown role %q", r)})
		}
	}
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	u.Roles = normalizeRoles(roles)
	u.UpdatedAt = s.clock.now()
	if err := s.users.Update(ctx, &u); err != nil {
		return models.User{}, storeErr(err, idNotFound("User", id.Hex()), "")
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id primitive.ObjectID) (Deleted, error) {
	if err := s.users.Delete(ctx, id); err != nil {
		return Deleted{}, storeErr(err, idNotFound("User", id.Hex()), "")
	}
	return deleted("User", id.Hex()), nil
}

// Roles lists the assignable role values.
func (s *UserService) Roles() []string {
	return slices.Clone(models.Roles)
}

// LoadPrincipal resolves the caller behind a verified token. A user deleted
// after the token was issued is rejected.
func (s *UserService) LoadPrincipal(ctx context.Context, userID string) (auth.Principal, error) {
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return auth.Principal{}, apperr.Unauthorizedf("Unauthorized")
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return auth.Principal{}, apperr.Wrap(err, apperr.Unauthorized, "User not found")
	}
	return auth.Principal{UserID: u.ID.Hex(), Email: u.Email, Roles: slices.Clone(u.Roles)}, nil
}

// normalizeRoles drops duplicates and defaults to [user].
func normalizeRoles(roles []string) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		if !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		out = append(out, models.RoleUser)
	}
	return out
}

func selfOrAdmin(actor auth.Principal, id primitive.ObjectID) error {
	if actor.HasRole(models.RoleAdmin) || actor.UserID == id.Hex() {
		return nil
	}
	return apperr.Forbiddenf("Forbidden resource")
}
