// Package auth owns sessions and user accounts: the Anonymous ->
// Authenticated -> Anonymous session state machine, registration, and
// credential checks.
package auth

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/junaidrashid-git/shopeasy-api/models"
	"github.com/junaidrashid-git/shopeasy-api/notify"
	"github.com/junaidrashid-git/shopeasy-api/storage"
)

type UserRepository interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	Find(ctx context.Context, q storage.Query) ([]models.User, error)
	FindOne(ctx context.Context, q storage.Query) (models.User, error)
	Get(ctx context.Context, id string) (models.User, error)
	Save(ctx context.Context, id string, u models.User) (models.User, error)
	Delete(ctx context.Context, id string) error
}

type SessionRepository interface {
	Create(ctx context.Context, s models.Session) (models.Session, error)
	Find(ctx context.Context, q storage.Query) ([]models.Session, error)
	Get(ctx context.Context, id string) (models.Session, error)
	Save(ctx context.Context, id string, s models.Session) (models.Session, error)
	Delete(ctx context.Context, id string) error
}

type Registration struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
}

type Manager struct {
	users      UserRepository
	sessions   SessionRepository
	passwords  PasswordManager
	dispatcher notify.Dispatcher
	log        logrus.FieldLogger
	ttl        time.Duration
	now        func() time.Time

	// serialises uniqueness checks with the write that follows them
	mu sync.Mutex
}

func NewManager(users UserRepository, sessions SessionRepository, passwords PasswordManager, dispatcher notify.Dispatcher, log logrus.FieldLogger, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Manager{
		users:      users,
		sessions:   sessions,
		passwords:  passwords,
		dispatcher: dispatcher,
		log:        log,
		ttl:        ttl,
		now:        time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and signs the session in as that user.
func (m *Manager) Register(ctx context.Context, sessionID string, r Registration) (models.Session, models.User, error) {
	session, err := m.Session(ctx, sessionID)
	if err != nil {
		return models.Session{}, models.User{}, err
	}

	r.Email = normalizeEmail(r.Email)
	r.Username = strings.TrimSpace(r.Username)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	if r.Email == "" || r.Username == "" || r.Password == "" || r.FirstName == "" || r.LastName == "" {
		return models.Session{}, models.User{}, models.ErrMissingField
	}
	if r.Password != r.ConfirmPassword {
		return models.Session{}, models.User{}, models.ErrPasswordMismatch
	}

	hash, err := m.passwords.Hash(r.Password)
	if err != nil {
		return models.Session{}, models.User{}, errors.Wrap(err, "hash password")
	}

	user, err := m.CreateUser(ctx, models.User{
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: hash,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Avatar:       avatarURL(r.FirstName, r.LastName),
		JoinDate:     m.now().UTC(),
	})
	if err != nil {
		return models.Session{}, models.User{}, err
	}

	session, err = m.setUser(ctx, session, user.ID)
	if err != nil {
		return models.Session{}, models.User{}, err
	}
	m.log.WithField("user", user.ID).Info("👤 User registered")
	m.notify(notify.New("auth.registered", notify.Success, "Account created successfully!", "user:"+user.ID))
	return session, user, nil
}

// CreateUser stores a user whose password is already hashed, enforcing
// email and username uniqueness.
func (m *Manager) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u.Email = normalizeEmail(u.Email)
	if err := m.checkUnique(ctx, "", u.Email, u.Username); err != nil {
		return models.User{}, err
	}
	u.ID = ""
	created, err := m.users.Create(ctx, u)
	if errors.Is(err, storage.ErrDuplicateKey) {
		return models.User{}, models.ErrConflict
	}
	return created, err
}

func (m *Manager) checkUnique(ctx context.Context, selfID, email, username string) error {
	if email != "" {
		taken, err := m.users.Find(ctx, storage.Where(storage.Eq("email", email)))
		if err != nil {
			return err
		}
		for _, u := range taken {
			if u.ID != selfID {
				return models.ErrEmailTaken
			}
		}
	}
	if username != "" {
		taken, err := m.users.Find(ctx, storage.Where(storage.Eq("username", username)))
		if err != nil {
			return err
		}
		for _, u := range taken {
			if u.ID != selfID {
				return models.ErrUsernameTaken
			}
		}
	}
	return nil
}

// Login checks the credentials and signs the session in.
func (m *Manager) Login(ctx context.Context, sessionID, email, password string) (models.Session, models.User, error) {
	session, err := m.Session(ctx, sessionID)
	if err != nil {
		return models.Session{}, models.User{}, err
	}

	user, err := m.users.FindOne(ctx, storage.Where(storage.Eq("email", normalizeEmail(email))))
	if errors.Is(err, storage.ErrNotFound) {
		return models.Session{}, models.User{}, models.ErrInvalidCredentials
	}
	if err != nil {
		return models.Session{}, models.User{}, err
	}
	if !m.passwords.Check(user.PasswordHash, password) {
		return models.Session{}, models.User{}, models.ErrInvalidCredentials
	}

	session, err = m.setUser(ctx, session, user.ID)
	if err != nil {
		return models.Session{}, models.User{}, err
	}
	m.notify(notify.New("auth.login", notify.Success, "Welcome back, "+user.FirstName+"!", "user:"+user.ID))
	return session, user, nil
}

// Logout returns the session to the anonymous state.
func (m *Manager) Logout(ctx context.Context, sessionID string) (models.Session, error) {
	session, err := m.Session(ctx, sessionID)
	if err != nil {
		return models.Session{}, err
	}
	if session.State() == models.SessionAnonymous {
		return session, nil
	}
	userID := session.UserID
	session, err = m.setUser(ctx, session, "")
	if err != nil {
		return models.Session{}, err
	}
	m.notify(notify.New("auth.logout", notify.Info, "You have been logged out", "user:"+userID))
	return session, nil
}

// CurrentUser returns the signed-in user, or nil for anonymous sessions.
func (m *Manager) CurrentUser(ctx context.Context, sessionID string) (*models.User, error) {
	session, err := m.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return m.UserFor(ctx, session)
}

// UserFor resolves the user behind an already loaded session.
func (m *Manager) UserFor(ctx context.Context, session models.Session) (*models.User, error) {
	if session.State() == models.SessionAnonymous {
		return nil, nil
	}
	user, err := m.User(ctx, session.UserID)
	if errors.Is(err, models.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (m *Manager) notify(n notify.Notification) {
	if err := m.dispatcher.Dispatch(n); err != nil {
		m.log.WithError(err).Warn("⚠️ notification failed")
	}
}

func avatarURL(firstName, lastName string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(firstName+" "+lastName) + "&background=667eea&color=fff"
}
