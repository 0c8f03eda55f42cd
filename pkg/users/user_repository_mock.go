package users

import (
	"context"
	"errors"
)

// MockUserRepository is an in memory UserRepositoryInterface for tests
type MockUserRepository struct {
	Users []*User
}

// Add adds a user
func (r *MockUserRepository) Add(ctx context.Context, user *User) error {
	r.Users = append(r.Users, user)
	return nil
}

// FindByID finds a user by ID
func (r *MockUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	for _, user := range r.Users {
		if user.ID.Hex() == id {
			return user, nil
		}
	}

	return nil, errors.New("user not found")
}

// FindByEmail finds a user by Email
func (r *MockUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	for _, user := range r.Users {
		if user.Email == email {
			return user, nil
		}
	}

	return nil, errors.New("user not found")
}

// FindByVerificationToken finds a user by its email verification token
func (r *MockUserRepository) FindByVerificationToken(ctx context.Context, token string) (*User, error) {
	for _, user := range r.Users {
		if user.EmailVerificationToken == token {
			return user, nil
		}
	}

	return nil, errors.New("user not found")
}

// FindByGoogleStateToken finds a user by its Google state token
func (r *MockUserRepository) FindByGoogleStateToken(ctx context.Context, stateToken string) (*User, error) {
	for _, user := range r.Users {
		if user.GoogleCalendarConnection.StateToken == stateToken {
			return user, nil
		}
	}

	return nil, errors.New("user not found")
}

// Update updates a user
func (r *MockUserRepository) Update(ctx context.Context, user *User) error {
	for i, u := range r.Users {
		if u.ID == user.ID {
			r.Users[i] = user
			return nil
		}
	}

	return errors.New("user not found")
}

// UpdateSettings updates the settings of a user
func (r *MockUserRepository) UpdateSettings(ctx context.Context, user *User) error {
	return r.Update(ctx, user)
}

// Remove removes a user
func (r *MockUserRepository) Remove(ctx context.Context, id string) error {
	for i, u := range r.Users {
		if u.ID.Hex() == id {
			r.Users = append(r.Users[:i], r.Users[i+1:]...)
			return nil
		}
	}

	return errors.New("user not found")
}
