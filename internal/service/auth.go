package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/lms/internal/events"
	"github.com/Skotchmaster/lms/internal/hash"
	"github.com/Skotchmaster/lms/internal/logging"
	"github.com/Skotchmaster/lms/internal/mail"
	"github.com/Skotchmaster/lms/internal/models"
	"github.com/Skotchmaster/lms/internal/repo"
	"github.com/Skotchmaster/lms/internal/tokens"
	"github.com/Skotchmaster/lms/internal/transport"
)

type AuthService struct {
	Repo          repo.Store
	AccessSecret  []byte
	RefreshSecret []byte
	Mailer        mail.Mailer
	Events        events.Publisher
}

func (h *AuthService) CreateAccessToken(id string, accessExp time.Time) (string, error) {
	return tokens.Sign(id, h.AccessSecret, accessExp, "")
}

func (h *AuthService) CreateRefreshToken(id string, refreshExp time.Time) (string, error) {
	return tokens.Sign(id, h.RefreshSecret, refreshExp, tokens.NewJTI())
}

func (h *AuthService) IssueTokens(id string) (tokens.Pair, error) {
	now := time.Now()
	access, err := h.CreateAccessToken(id, now.Add(tokens.AccessTTL))
	if err != nil {
		return tokens.Pair{}, err
	}
	refresh, err := h.CreateRefreshToken(id, now.Add(tokens.RefreshTTL))
	if err != nil {
		return tokens.Pair{}, err
	}
	return tokens.Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkCredentialsInput(email, password string) error {
	if email == "" {
		return validation("email is required")
	}
	if password == "" {
		return validation("password is required")
	}
	return nil
}

func (h *AuthService) Signup(ctx context.Context, req transport.SignupRequest) (*transport.AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup")

	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validation("name is required")
	}
	if err := checkCredentialsInput(email, req.Password); err != nil {
		return nil, err
	}
	if len(req.Password) < 6 {
		return nil, validation("password must be at least 6 characters")
	}
	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}
	if role != models.RoleStudent && role != models.RoleInstructor {
		return nil, validation("unknown role")
	}

	taken, err := h.Repo.UserEmailExists(ctx, email)
	if err != nil {
		l.Error("signup_failed", "status", 500, "reason", "cannot check email", "error", err)
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("signup_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: pwHash,
	}
	pair, err := h.IssueTokens(user.ID.String())
	if err != nil {
		return nil, err
	}
	user.AccessToken, user.RefreshToken = pair.AccessToken, pair.RefreshToken

	if err := h.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		l.Error("signup_failed", "status", 500, "reason", "cannot create user", "error", err)
		return nil, err
	}

	h.welcome(ctx, user.Name, user.Email, user.Role)
	publish(ctx, h.Events, events.TopicUserEvents, user.ID.String(), events.AccountEvent{
		Type: events.TypeUserRegistered, ID: user.ID.String(), Email: user.Email, Role: user.Role,
	})

	return &transport.AuthResult{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (h *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*tokens.Pair, error) {
	email := normalizeEmail(req.Email)
	if err := checkCredentialsInput(email, req.Password); err != nil {
		return nil, err
	}
	l := logging.FromContext(ctx).With("svc", "auth.login", "email", email)

	user, err := h.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	pair, err := h.IssueTokens(user.ID.String())
	if err != nil {
		return nil, err
	}
	if err := h.Repo.SetUserTokens(ctx, user.ID, pair.AccessToken, pair.RefreshToken); err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot store tokens", "error", err)
		return nil, err
	}

	return &pair, nil
}

// Refresh mints a new access token for the subject of a valid refresh
// token. The subject may be a user or an instructor.
func (h *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, h.RefreshSecret)
	if err != nil {
		return "", ErrInvalidToken
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", ErrInvalidToken
	}

	access, err := h.CreateAccessToken(id.String(), time.Now().Add(tokens.AccessTTL))
	if err != nil {
		return "", err
	}

	_, err = h.Repo.GetUserByID(ctx, id)
	switch {
	case err == nil:
		if err := h.Repo.SetUserAccessToken(ctx, id, access); err != nil {
			l.Error("refresh_failed", "status", 500, "error", err)
			return "", err
		}
		return access, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return "", err
	}

	if _, err := h.Repo.GetInstructorByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidToken
		}
		return "", err
	}
	if err := h.Repo.SetInstructorAccessToken(ctx, id, access); err != nil {
		l.Error("refresh_failed", "status", 500, "error", err)
		return "", err
	}
	return access, nil
}

func (h *AuthService) Onboard(ctx context.Context, req transport.OnboardRequest) (*transport.InstructorResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.onboard")

	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validation("name is required")
	}
	if err := checkCredentialsInput(email, req.Password); err != nil {
		return nil, err
	}
	quals := make([]string, 0, len(req.Qualifications))
	for _, q := range req.Qualifications {
		if q = strings.TrimSpace(q); q != "" {
			quals = append(quals, q)
		}
	}
	if len(quals) == 0 {
		return nil, validation("at least one qualification is required")
	}
	if strings.TrimSpace(req.Experience) == "" {
		return nil, validation("experience is required")
	}

	taken, err := h.Repo.InstructorEmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("onboard_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	ins := models.Instructor{
		ID:             uuid.New(),
		Name:           name,
		Email:          email,
		PasswordHash:   pwHash,
		Qualifications: quals,
		Experience:     strings.TrimSpace(req.Experience),
	}
	pair, err := h.IssueTokens(ins.ID.String())
	if err != nil {
		return nil, err
	}
	ins.AccessToken, ins.RefreshToken = pair.AccessToken, pair.RefreshToken

	if err := h.Repo.CreateInstructor(ctx, &ins); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		l.Error("onboard_failed", "status", 500, "reason", "cannot create instructor", "error", err)
		return nil, err
	}

	h.welcome(ctx, ins.Name, ins.Email, models.RoleInstructor)
	publish(ctx, h.Events, events.TopicUserEvents, ins.ID.String(), events.AccountEvent{
		Type: events.TypeInstructorOnboarded, ID: ins.ID.String(), Email: ins.Email, Role: models.RoleInstructor,
	})

	return &transport.InstructorResult{
		ID:             ins.ID,
		Name:           ins.Name,
		Email:          ins.Email,
		Qualifications: quals,
		Experience:     ins.Experience,
		AccessToken:    pair.AccessToken,
		RefreshToken:   pair.RefreshToken,
	}, nil
}

func (h *AuthService) InstructorLogin(ctx context.Context, req transport.LoginRequest) (*tokens.Pair, error) {
	email := normalizeEmail(req.Email)
	if err := checkCredentialsInput(email, req.Password); err != nil {
		return nil, err
	}

	ins, err := h.Repo.GetInstructorByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(ins.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	pair, err := h.IssueTokens(ins.ID.String())
	if err != nil {
		return nil, err
	}
	if err := h.Repo.SetInstructorTokens(ctx, ins.ID, pair.AccessToken, pair.RefreshToken); err != nil {
		return nil, err
	}
	return &pair, nil
}

func (h *AuthService) IsInstructor(ctx context.Context, id uuid.UUID) (bool, error) {
	return h.Repo.InstructorExists(ctx, id)
}

func (h *AuthService) welcome(ctx context.Context, name, email, role string) {
	if h.Mailer == nil {
		return
	}
	if err := h.Mailer.Send(ctx, mail.Welcome(name, email, role)); err != nil {
		logging.FromContext(ctx).Warn("welcome_mail_failed", "email", email, "error", err)
	}
}
