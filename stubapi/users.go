package stubapi

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/news-admin/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

// User is an administrator known to the development backend.
type User struct {
	ID           string
	Email        string
	Name         string
	Role         string
	PasswordHash string
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

type userStore struct {
	mu      sync.RWMutex
	byEmail map[string]User
}

func newUserStore() *userStore {
	return &userStore{byEmail: make(map[string]User)}
}

func (s *userStore) add(email, password, name, role string) (User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return User{}, apperrors.Wrapf(err, "hash password for %s", email)
	}
	u := User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Name:         name,
		Role:         role,
		PasswordHash: hash,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byEmail[u.Email] = u
	return u, nil
}

func (s *userStore) authenticate(email, password string) (User, error) {
	s.mu.RLock()
	u, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	s.mu.RUnlock()
	if !ok || !CheckPasswordHash(password, u.PasswordHash) {
		return User{}, apperrors.ErrInvalidCredentials
	}
	return u, nil
}

func (s *userStore) byID(id string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.byEmail {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}
