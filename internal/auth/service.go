package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mrlokans/librarium/internal/config"
	"github.com/mrlokans/librarium/internal/entities"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMemberNotFound     = errors.New("member not found")
	ErrLibrarianDisabled  = errors.New("librarian login is disabled: LIBRARIAN_PASSWORD is not set")
	ErrEmailInvalid       = errors.New("invalid email format")
)

// ValidateEmail checks email format and the RFC 5321 length limit.
func ValidateEmail(email string) error {
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return ErrEmailInvalid
	}
	return nil
}

// MemberDirectory is the member lookup the authentication service needs.
// The library service implements it over its in-memory collections.
type MemberDirectory interface {
	MemberByID(memberID string) (*entities.Member, bool)
	MemberByEmail(email string) (*entities.Member, bool)
}

// Service verifies credentials and produces sessions. The librarian
// account comes from configuration; its password is hashed once at
// startup and the plaintext is discarded.
type Service struct {
	members       MemberDirectory
	librarianUser string
	librarianHash string
}

func NewService(members MemberDirectory, cfg config.Auth) (*Service, error) {
	s := &Service{
		members:       members,
		librarianUser: cfg.LibrarianUsername,
	}

	if cfg.LibrarianPassword != "" {
		hash, err := HashPassword(cfg.LibrarianPassword, cfg.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash librarian password: %w", err)
		}
		s.librarianHash = hash
	}

	return s, nil
}

// Authenticate validates credentials and returns a session. Members log
// in with their member id or email; an '@' in the identifier selects
// email lookup. The librarian logs in with the configured username.
func (s *Service) Authenticate(identifier, password string) (*entities.Session, error) {
	identifier = strings.TrimSpace(identifier)

	if identifier == s.librarianUser {
		if s.librarianHash == "" {
			return nil, ErrLibrarianDisabled
		}
		if err := CheckPassword(password, s.librarianHash); err != nil {
			return nil, ErrInvalidCredentials
		}
		return &entities.Session{Role: entities.RoleLibrarian, Name: s.librarianUser}, nil
	}

	var (
		member *entities.Member
		ok     bool
	)
	if strings.Contains(identifier, "@") {
		member, ok = s.members.MemberByEmail(identifier)
	} else {
		member, ok = s.members.MemberByID(identifier)
	}
	if !ok {
		return nil, ErrMemberNotFound
	}

	if err := CheckPassword(password, member.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &entities.Session{
		Role:     entities.RoleMember,
		MemberID: member.MemberID,
		Name:     member.Name,
	}, nil
}
