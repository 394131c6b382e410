package onboarding

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/stewardhq/steward/internal/ratelimit"
	"github.com/stewardhq/steward/internal/user"
)

// State is the position of an invited account in the onboarding flow.
// Verifying and PasswordSet are transient request-scoped phases; the states
// below are the ones that persist between requests.
type State string

const (
	StateInvited  State = "invited"
	StateCodeSent State = "code_sent"
	StateVerified State = "verified"
	StateActive   State = "active"
)

// Errors returned by Service operations. Handlers branch on these to pick a
// status code and message; none of them carries sensitive detail.
var (
	ErrUnknownEmail    = errors.New("no pending invitation for this email")
	ErrAlreadyActive   = errors.New("account is already active")
	ErrInvalidCode     = errors.New("invalid verification code")
	ErrCodeExpired     = errors.New("verification code has expired")
	ErrTooManyAttempts = errors.New("too many failed attempts, request a new code")
	ErrCooldownActive  = errors.New("a code was sent recently, wait before resending")
	ErrNotVerified     = errors.New("email has not been verified")
	ErrPolicyUnmet     = errors.New("password does not meet the policy")
)

// CodeLength is the number of digits in a one-time code.
const CodeLength = 6

const maxVerifyAttempts = 5

// Users is the slice of the user store the onboarding flow needs.
type Users interface {
	Invite(ctx context.Context, in user.InviteUserInput) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Activate(ctx context.Context, id, password string) (*user.User, error)
}

// Codes is the slice of the code store the onboarding flow needs.
type Codes interface {
	Upsert(ctx context.Context, email, codeHash string, expiresAt time.Time) error
	Get(ctx context.Context, email string) (*Code, error)
	IncrementAttempts(ctx context.Context, email string) (int, error)
	MarkVerified(ctx context.Context, email string, at time.Time) error
	Delete(ctx context.Context, email string) error
}

// Verification is the successful result of a code check. SetupToken
// authorizes the password-setup step for the verified email.
type Verification struct {
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	SetupToken string `json:"setup_token"`
}

// Service drives the invitation flow: invite, send code, verify, set
// password, activate. Failed steps leave the account where it was so the
// user can retry.
type Service struct {
	users    Users
	codes    Codes
	sender   Sender
	tokens   *TokenIssuer
	cooldown *ratelimit.Cooldown
	codeTTL  time.Duration
	now      func() time.Time
}

// NewService wires the onboarding flow. resendCooldown governs how long a
// fresh code blocks another send for the same email.
func NewService(users Users, codes Codes, sender Sender, tokens *TokenIssuer,
	codeTTL, resendCooldown time.Duration) *Service {
	return &Service{
		users:    users,
		codes:    codes,
		sender:   sender,
		tokens:   tokens,
		cooldown: ratelimit.NewCooldown(resendCooldown),
		codeTTL:  codeTTL,
		now:      time.Now,
	}
}

// Invite creates (or refreshes) an invited account and dispatches the first
// one-time code. Re-inviting an active account fails.
func (s *Service) Invite(ctx context.Context, in user.InviteUserInput) (*user.User, error) {
	u, err := s.users.Invite(ctx, in)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAlreadyActive
		}
		return nil, fmt.Errorf("inviting user: %w", err)
	}

	if err := s.sendCode(ctx, u.Email); err != nil {
		return nil, err
	}
	return u, nil
}

// Resend dispatches a fresh code to an invited email. It is a no-op error
// while the cooldown from the previous send is still running.
func (s *Service) Resend(ctx context.Context, email string) error {
	if !s.cooldown.Ready(email) {
		return ErrCooldownActive
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUnknownEmail
		}
		return fmt.Errorf("looking up invitation: %w", err)
	}
	if u.Status != user.StatusInvited {
		return ErrAlreadyActive
	}

	return s.sendCode(ctx, email)
}

// ResendRemaining returns the whole seconds left on the resend cooldown for
// an email, zero when resend is available.
func (s *Service) ResendRemaining(email string) int {
	return s.cooldown.Remaining(email)
}

// Verify checks a submitted code against the stored hash. On success it
// returns a Verification carrying a setup token for the password step. A
// failed verify does not discard the stored code; the user can correct a
// typo and try again, up to the attempt limit.
func (s *Service) Verify(ctx context.Context, email, code string) (*Verification, error) {
	if !validCode(code) {
		return nil, ErrInvalidCode
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnknownEmail
		}
		return nil, fmt.Errorf("looking up invitation: %w", err)
	}
	if u.Status != user.StatusInvited {
		return nil, ErrAlreadyActive
	}

	stored, err := s.codes.Get(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("loading code: %w", err)
	}
	if s.now().After(stored.ExpiresAt) {
		return nil, ErrCodeExpired
	}
	if stored.Attempts >= maxVerifyAttempts {
		return nil, ErrTooManyAttempts
	}

	if !hmac.Equal([]byte(hashCode(code)), []byte(stored.CodeHash)) {
		attempts, incErr := s.codes.IncrementAttempts(ctx, email)
		if incErr != nil {
			return nil, fmt.Errorf("recording failed attempt: %w", incErr)
		}
		if attempts >= maxVerifyAttempts {
			return nil, ErrTooManyAttempts
		}
		return nil, ErrInvalidCode
	}

	if err := s.codes.MarkVerified(ctx, email, s.now()); err != nil {
		return nil, fmt.Errorf("marking code verified: %w", err)
	}

	token, err := s.tokens.Issue(email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("issuing setup token: %w", err)
	}

	return &Verification{
		UserID:     u.ID,
		Email:      email,
		Role:       u.Role,
		SetupToken: token,
	}, nil
}

// CompletePassword finishes onboarding: it validates the setup token and the
// password policy, activates the account, and discards the used code. The
// returned user has status active; the caller is expected to drop any
// session and send the user to sign-in.
func (s *Service) CompletePassword(ctx context.Context, setupToken, password, confirm string) (*user.User, error) {
	claims, err := s.tokens.Parse(setupToken)
	if err != nil {
		return nil, ErrNotVerified
	}

	if !CheckPassword(password, confirm).OK() {
		return nil, ErrPolicyUnmet
	}

	stored, err := s.codes.Get(ctx, claims.Email)
	if err != nil || stored.VerifiedAt == nil {
		return nil, ErrNotVerified
	}

	u, err := s.users.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnknownEmail
		}
		return nil, fmt.Errorf("looking up invitation: %w", err)
	}
	if u.Status != user.StatusInvited {
		return nil, ErrAlreadyActive
	}

	activated, err := s.users.Activate(ctx, u.ID, password)
	if err != nil {
		return nil, fmt.Errorf("activating account: %w", err)
	}

	if err := s.codes.Delete(ctx, claims.Email); err != nil {
		return nil, fmt.Errorf("discarding used code: %w", err)
	}

	return activated, nil
}

// StateOf derives the flow state for an email from what is persisted.
func (s *Service) StateOf(ctx context.Context, email string) (State, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrUnknownEmail
		}
		return "", fmt.Errorf("looking up invitation: %w", err)
	}
	if u.Status == user.StatusActive {
		return StateActive, nil
	}

	stored, err := s.codes.Get(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StateInvited, nil
		}
		return "", fmt.Errorf("loading code: %w", err)
	}
	if stored.VerifiedAt != nil {
		return StateVerified, nil
	}
	if s.now().After(stored.ExpiresAt) {
		return StateInvited, nil
	}
	return StateCodeSent, nil
}

func (s *Service) sendCode(ctx context.Context, email string) error {
	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generating code: %w", err)
	}

	if err := s.codes.Upsert(ctx, email, hashCode(code), s.now().Add(s.codeTTL)); err != nil {
		return fmt.Errorf("storing code: %w", err)
	}
	if err := s.sender.SendCode(ctx, email, code); err != nil {
		return fmt.Errorf("sending code: %w", err)
	}

	s.cooldown.Start(email)
	return nil
}

// generateCode returns a random 6-digit numeric code with leading zeros
// preserved.
func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < CodeLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", CodeLength, n), nil
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

func validCode(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
