// Package user manages profiles keyed by email.
package user

import (
	"context"
	"errors"
	"sync"

	usermodel "github.com/lazy-care/backend/internal/model/user"
	"github.com/lazy-care/backend/internal/store"
)

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrUsernameRequired = errors.New("username is required")
	ErrInvalidUnit      = errors.New("weight_unit must be kg or lb")
)

// Update carries the whitelisted fields a partial update may change. Nil
// fields are left untouched; anything else in the request is ignored.
type Update struct {
	Username   *string
	Birthday   *string
	Weight     *float64
	WeightUnit *usermodel.WeightUnit
	Gender     *string
}

// Service stores profiles as one document on the underlying store.
type Service struct {
	mu    sync.Mutex
	store store.Store
}

// NewService creates a profile service over the given document store.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// CreateOrUpdate registers a profile for the email, or refreshes the username
// when one already exists. It reports whether a new profile was created.
func (s *Service) CreateOrUpdate(_ context.Context, username, email string) (usermodel.Profile, bool, error) {
	if email == "" {
		return usermodel.Profile{}, false, ErrEmailRequired
	}
	if username == "" {
		return usermodel.Profile{}, false, ErrUsernameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profiles := make([]usermodel.Profile, 0)
	if err := s.store.Load(&profiles); err != nil {
		return usermodel.Profile{}, false, err
	}

	for i, p := range profiles {
		if p.Email == email {
			profiles[i].Username = username
			if err := s.store.Save(&profiles); err != nil {
				return usermodel.Profile{}, false, err
			}
			return profiles[i], false, nil
		}
	}

	profile := usermodel.Profile{Username: username, Email: email}
	profiles = append(profiles, profile)
	if err := s.store.Save(&profiles); err != nil {
		return usermodel.Profile{}, false, err
	}
	return profile, true, nil
}

// GetByEmail looks up a profile. The second return reports whether it exists.
func (s *Service) GetByEmail(_ context.Context, email string) (usermodel.Profile, bool, error) {
	if email == "" {
		return usermodel.Profile{}, false, ErrEmailRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profiles := make([]usermodel.Profile, 0)
	if err := s.store.Load(&profiles); err != nil {
		return usermodel.Profile{}, false, err
	}

	for _, p := range profiles {
		if p.Email == email {
			return p, true, nil
		}
	}
	return usermodel.Profile{}, false, nil
}

// UpdateByEmail applies the whitelisted fields to an existing profile. The
// second return reports whether the profile was found.
func (s *Service) UpdateByEmail(_ context.Context, email string, update Update) (usermodel.Profile, bool, error) {
	if email == "" {
		return usermodel.Profile{}, false, ErrEmailRequired
	}
	if update.WeightUnit != nil && !update.WeightUnit.Valid() {
		return usermodel.Profile{}, false, ErrInvalidUnit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profiles := make([]usermodel.Profile, 0)
	if err := s.store.Load(&profiles); err != nil {
		return usermodel.Profile{}, false, err
	}

	for i := range profiles {
		if profiles[i].Email != email {
			continue
		}
		if update.Username != nil {
			profiles[i].Username = *update.Username
		}
		if update.Birthday != nil {
			profiles[i].Birthday = update.Birthday
		}
		if update.Weight != nil {
			profiles[i].Weight = update.Weight
		}
		if update.WeightUnit != nil {
			profiles[i].WeightUnit = update.WeightUnit
		}
		if update.Gender != nil {
			profiles[i].Gender = update.Gender
		}
		if err := s.store.Save(&profiles); err != nil {
			return usermodel.Profile{}, false, err
		}
		return profiles[i], true, nil
	}
	return usermodel.Profile{}, false, nil
}

// ClearByEmail blanks the optional fields of a profile while keeping the
// identity and username. Profiles are never physically removed here.
func (s *Service) ClearByEmail(_ context.Context, email string) (usermodel.Profile, bool, error) {
	if email == "" {
		return usermodel.Profile{}, false, ErrEmailRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profiles := make([]usermodel.Profile, 0)
	if err := s.store.Load(&profiles); err != nil {
		return usermodel.Profile{}, false, err
	}

	for i := range profiles {
		if profiles[i].Email != email {
			continue
		}
		profiles[i].Birthday = nil
		profiles[i].Weight = nil
		profiles[i].WeightUnit = nil
		profiles[i].Gender = nil
		if err := s.store.Save(&profiles); err != nil {
			return usermodel.Profile{}, false, err
		}
		return profiles[i], true, nil
	}
	return usermodel.Profile{}, false, nil
}
