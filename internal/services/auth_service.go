package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nodehq/node-admin-api/internal/constants"
	"github.com/nodehq/node-admin-api/internal/models"
	"github.com/nodehq/node-admin-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("a user with this email already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrNodeNameRequired     = errors.New("a node name is required")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles signup and authentication.
type AuthService struct {
	userRepo    repository.UserRepository
	membership  *MembershipService
	invitations *InvitationService
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, membership *MembershipService, invitations *InvitationService) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		membership:  membership,
		invitations: invitations,
	}
}

// SignupInput represents the required information to create a new account.
// Either NodeName (a fresh node is created with the user as owner) or
// InviteToken (the user joins the inviting node at the stored role) must be
// present.
type SignupInput struct {
	Name        string
	Email       string
	Password    string
	NodeName    string
	InviteToken string
}

// Signup creates a new user and places them in a node. Invited signups use
// the invitation's email, not the one in the request.
func (s *AuthService) Signup(input SignupInput) (*models.User, error) {
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	var invitation *models.Invitation

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if input.InviteToken != "" {
		inv, err := s.invitations.invitationRepo.FindByToken(input.InviteToken)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvitationNotFound
			}
			return nil, fmt.Errorf("failed to find invitation: %w", err)
		}
		if inv.Expired(time.Now()) {
			return nil, ErrInvitationExpired
		}
		invitation = inv
		email = invitation.Email
	} else {
		// Uninvited signups bring their own node; fail before creating the
		// user if its name is taken.
		if strings.TrimSpace(input.NodeName) == "" {
			return nil, ErrNodeNameRequired
		}
		if err := s.membership.EnsureNodeAvailable(input.NodeName); err != nil {
			return nil, err
		}
	}

	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if invitation != nil {
		if _, err := s.invitations.RedeemInvitation(input.InviteToken, user.ID, user.Email); err != nil {
			return nil, err
		}
	} else {
		if _, err := s.membership.CreateNode(CreateNodeInput{
			Name:    input.NodeName,
			OwnerID: user.ID,
		}); err != nil {
			return nil, err
		}
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
