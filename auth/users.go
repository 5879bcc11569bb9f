package auth

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/junaidrashid-git/shopeasy-api/models"
	"github.com/junaidrashid-git/shopeasy-api/storage"
)

// Profile holds the editable user fields. Empty fields are left unchanged.
type Profile struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Avatar    string `json:"avatar"`
}

func (m *Manager) Users(ctx context.Context) ([]models.User, error) {
	return m.users.Find(ctx, nil)
}

func (m *Manager) User(ctx context.Context, id string) (models.User, error) {
	user, err := m.users.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return models.User{}, models.ErrUserNotFound
	}
	return user, err
}

func (m *Manager) UserByEmail(ctx context.Context, email string) (models.User, error) {
	user, err := m.users.FindOne(ctx, storage.Where(storage.Eq("email", normalizeEmail(email))))
	if errors.Is(err, storage.ErrNotFound) {
		return models.User{}, models.ErrUserNotFound
	}
	return user, err
}

func (m *Manager) UpdateProfile(ctx context.Context, id string, p Profile) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, err := m.User(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	email := normalizeEmail(p.Email)
	username := strings.TrimSpace(p.Username)
	if err := m.checkUnique(ctx, id, email, username); err != nil {
		return models.User{}, err
	}
	if email != "" {
		user.Email = email
	}
	if username != "" {
		user.Username = username
	}
	if v := strings.TrimSpace(p.FirstName); v != "" {
		user.FirstName = v
	}
	if v := strings.TrimSpace(p.LastName); v != "" {
		user.LastName = v
	}
	if v := strings.TrimSpace(p.Avatar); v != "" {
		user.Avatar = v
	}
	return m.users.Save(ctx, id, user)
}

// DeleteUser removes the account and signs out every session using it.
func (m *Manager) DeleteUser(ctx context.Context, id string) error {
	if err := m.users.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.ErrUserNotFound
		}
		return err
	}
	sessions, err := m.sessions.Find(ctx, storage.Where(storage.Eq("userId", id)))
	if err != nil {
		return err
	}
	for _, s := range sessions {
		if _, err := m.setUser(ctx, s, ""); err != nil {
			return err
		}
	}
	return nil
}
