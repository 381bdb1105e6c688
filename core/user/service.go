package user

import (
	"errors"
	"time"

	"github.com/trezcool/shule/core"
)

var (
	// errors
	ErrNotFound       = errors.New("user not found")
	ErrUsernameExists = errors.New("a user with this username already exists")
	ErrAmbiguousName  = errors.New("several users share this name")
)

type (
	Repository interface {
		// CheckUsernameUniqueness fails with ErrUsernameExists when any user,
		// student or teacher, holds the username. Comparison is exact.
		CheckUsernameUniqueness(username string) error
		CreateUser(usr User) (User, error)
		// QueryAllUsers returns all users in insertion order.
		QueryAllUsers() ([]User, error)
		// QueryUsersByRole returns users with the given role in insertion order.
		QueryUsersByRole(role string) ([]User, error)
		GetUserByID(id string) (User, error)
		GetUserByUsername(username string) (User, error)
		UpdateUser(usr User) (User, error)
		DeleteUser(id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CheckUniqueness(uname string) error {
	if err := svc.repo.CheckUsernameUniqueness(uname); err != nil {
		if errors.Is(err, ErrUsernameExists) {
			return core.NewValidationError(err, core.FieldError{Field: "username", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(nu NewUser) (User, error) {
	if err := nu.Validate(svc); err != nil {
		return User{}, err
	}
	usr := User{
		Name:      nu.Name,
		Username:  nu.Username,
		Password:  nu.Password,
		Role:      nu.Role,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateUser(usr)
}

func (svc *Service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

func (svc *Service) QueryByRole(role string) ([]User, error) {
	return svc.repo.QueryUsersByRole(role)
}

func (svc *Service) GetByID(id string) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *Service) GetByUsername(uname string) (User, error) {
	return svc.repo.GetUserByUsername(core.CleanString(uname, true /* lower */))
}

// GetByName does a case-insensitive exact match on the display name among
// users with the given role. It fails with ErrAmbiguousName when several
// users share the name.
func (svc *Service) GetByName(name, role string) (User, error) {
	name = core.CleanString(name, true /* lower */)
	users, err := svc.repo.QueryUsersByRole(role)
	if err != nil {
		return User{}, err
	}
	var found *User
	for i := range users {
		if core.CleanString(users[i].Name, true) == name {
			if found != nil {
				return User{}, ErrAmbiguousName
			}
			found = &users[i]
		}
	}
	if found == nil {
		return User{}, ErrNotFound
	}
	return *found, nil
}

func (svc *Service) Update(usr User) (User, error) {
	return svc.repo.UpdateUser(usr)
}

func (svc *Service) Delete(id string) error {
	return svc.repo.DeleteUser(id)
}
