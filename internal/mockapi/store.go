package mockapi

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/alumnet-dev/alumnet/internal/models"
)

const otpTTL = 10 * time.Minute

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrNotFound     = errors.New("alumni not found")
	ErrBadPassword  = errors.New("invalid email or password")
	ErrInvalidOTP   = errors.New("invalid or expired OTP")
	ErrOTPNotIssued = errors.New("no OTP requested for this email")
)

type account struct {
	alumni       models.Alumni
	passwordHash []byte
}

type otpEntry struct {
	code     string
	expires  time.Time
	verified bool
}

// Store is the in-memory account database of the development backend
type Store struct {
	mu       sync.RWMutex
	accounts map[string]*account // by ID
	byEmail  map[string]string
	otps     map[string]*otpEntry
	now      func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*account),
		byEmail:  make(map[string]string),
		otps:     make(map[string]*otpEntry),
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create adds an account. A new ID is assigned.
func (s *Store) Create(a models.Alumni, password string) (*models.Alumni, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	a.Email = normalizeEmail(a.Email)
	a.ID = ulid.Make().String()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[a.Email]; taken {
		return nil, ErrEmailTaken
	}
	s.accounts[a.ID] = &account{alumni: a, passwordHash: hash}
	s.byEmail[a.Email] = a.ID
	return a.Clone(), nil
}

// Authenticate checks an email and password pair
func (s *Store) Authenticate(email, password string) (*models.Alumni, error) {
	s.mu.RLock()
	acc, ok := s.accounts[s.byEmail[normalizeEmail(email)]]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrBadPassword
	}

	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)); err != nil {
		return nil, ErrBadPassword
	}
	return acc.alumni.Clone(), nil
}

// Get returns the account with the given ID
func (s *Store) Get(id string) (*models.Alumni, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return acc.alumni.Clone(), nil
}

// List returns accounts matching keep, ordered by last then first name
func (s *Store) List(keep func(*models.Alumni) bool) []models.Alumni {
	s.mu.RLock()
	out := make([]models.Alumni, 0, len(s.accounts))
	for _, acc := range s.accounts {
		if keep(&acc.alumni) {
			out = append(out, *acc.alumni.Clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out
}

// Update applies fn to the stored record
func (s *Store) Update(id string, fn func(*models.Alumni)) (*models.Alumni, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	fn(&acc.alumni)
	return acc.alumni.Clone(), nil
}

// SetPassword replaces the password of an account
func (s *Store) SetPassword(id, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return ErrNotFound
	}
	acc.passwordHash = hash
	return nil
}

// CheckPassword verifies the current password of an account
func (s *Store) CheckPassword(id, password string) error {
	s.mu.RLock()
	acc, ok := s.accounts[id]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)); err != nil {
		return ErrBadPassword
	}
	return nil
}

// IssueOTP creates a six digit code for a registered email
func (s *Store) IssueOTP(email string) (string, error) {
	email = normalizeEmail(email)

	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[email]; !ok {
		return "", ErrNotFound
	}
	s.otps[email] = &otpEntry{code: code, expires: s.now().Add(otpTTL)}
	return code, nil
}

// VerifyOTP marks the code for email as verified
func (s *Store) VerifyOTP(email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.otpLocked(email, code)
	if err != nil {
		return err
	}
	entry.verified = true
	return nil
}

// ResetPassword sets a new password with a verified code and consumes it
func (s *Store) ResetPassword(email, code, password string) error {
	email = normalizeEmail(email)

	s.mu.RLock()
	entry, err := s.otpLocked(email, code)
	verified := err == nil && entry.verified
	id := s.byEmail[email]
	s.mu.RUnlock()
	if err != nil {
		return err
	}
	if !verified {
		return ErrInvalidOTP
	}

	if err := s.SetPassword(id, password); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.otps, email)
	s.mu.Unlock()
	return nil
}

func (s *Store) otpLocked(email, code string) (*otpEntry, error) {
	entry, ok := s.otps[normalizeEmail(email)]
	if !ok {
		return nil, ErrOTPNotIssued
	}
	if entry.code != strings.TrimSpace(code) || s.now().After(entry.expires) {
		return nil, ErrInvalidOTP
	}
	return entry, nil
}

// PendingOTP returns the outstanding reset code for email. The development
// backend has no mail transport, so tooling reads codes from here.
func (s *Store) PendingOTP(email string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.otps[normalizeEmail(email)]
	if !ok {
		return "", false
	}
	return entry.code, true
}
