package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/avdeev/lockbox/internal/client/models"
	"github.com/avdeev/lockbox/internal/common"
	"github.com/avdeev/lockbox/internal/cryptox"
	"github.com/avdeev/lockbox/internal/logging"
)

// Recovery attempt limiting defaults.
const (
	DefaultMaxRecoveryAttempts = 3
	DefaultRecoveryLockout     = 15 * time.Minute
)

// MismatchError reports the first failed verification step. Position is
// 1-based; steps after the first failure are never evaluated.
type MismatchError struct {
	Position  int
	Remaining int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("answer %d is incorrect (%d attempts remaining)", e.Position, e.Remaining)
}

// LockedError reports an active recovery lockout and how long it has left.
// errors.Is(err, common.ErrRecoveryLocked) matches it.
type LockedError struct {
	Remaining time.Duration
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("recovery locked, try again in %s", e.Remaining.Round(time.Second))
}

func (e *LockedError) Is(target error) bool {
	return target == common.ErrRecoveryLocked
}

// recoveryStep is one link of the verification chain: an ordinal position
// and the stored digest it compares against. The chain is an ordered list
// processed with early exit; a step either fails, naming its position, or
// hands over to the next one.
type recoveryStep struct {
	position     int
	question     string
	answerDigest string
}

// verify digests the candidate answer with registration-time normalization
// and compares it to the stored digest.
func (s recoveryStep) verify(answer string) bool {
	return cryptox.DigestAnswer(answer) == s.answerDigest
}

// RecoveryManager sequentially verifies knowledge-factor answers and
// enforces the attempt limit with a temporary, self-expiring lockout.
// One manager tracks one recovery flow at a time; initializing for a new
// identifier resets all prior state.
type RecoveryManager struct {
	log logging.Logger

	mu          sync.Mutex
	identifier  string
	steps       []recoveryStep
	attempts    int
	lockedUntil time.Time

	maxAttempts     int
	lockoutDuration time.Duration
}

// RecoveryOption configures a RecoveryManager.
type RecoveryOption func(*RecoveryManager)

// WithMaxAttempts overrides the failed-attempt limit.
func WithMaxAttempts(n int) RecoveryOption {
	return func(m *RecoveryManager) {
		if n > 0 {
			m.maxAttempts = n
		}
	}
}

// WithLockoutDuration overrides how long a lockout lasts.
func WithLockoutDuration(d time.Duration) RecoveryOption {
	return func(m *RecoveryManager) {
		if d > 0 {
			m.lockoutDuration = d
		}
	}
}

// NewRecoveryManager constructs an uninitialized recovery manager.
func NewRecoveryManager(log logging.Logger, opts ...RecoveryOption) *RecoveryManager {
	m := &RecoveryManager{
		log:             log,
		maxAttempts:     DefaultMaxRecoveryAttempts,
		lockoutDuration: DefaultRecoveryLockout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize builds the ordered verification chain from the account's stored
// question/digest pairs and resets the attempt counter and lockout. It
// returns the question texts only, in chain order, for display — digests
// never leave the manager.
//
// Fails with common.ErrInsufficientFactors if fewer than
// models.RequiredQuestionCount pairs are supplied.
func (m *RecoveryManager) Initialize(identifier string, pairs []models.SecurityQuestion) ([]string, error) {
	if len(pairs) < models.RequiredQuestionCount {
		return nil, common.ErrInsufficientFactors
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.identifier = identifier
	m.steps = make([]recoveryStep, len(pairs))
	questions := make([]string, len(pairs))
	for i, p := range pairs {
		m.steps[i] = recoveryStep{position: i + 1, question: p.Question, answerDigest: p.AnswerDigest}
		questions[i] = p.Question
	}
	m.attempts = 0
	m.lockedUntil = time.Time{}

	return questions, nil
}

// Verify runs one batch of answers through the chain, strictly in the order
// the chain was built, stopping at the first mismatch.
//
// Failure modes:
//   - *LockedError while a lockout is active (matches common.ErrRecoveryLocked);
//   - common.ErrRecoveryNotInitialized if no chain exists;
//   - *MismatchError naming the 1-based position of the first wrong answer.
//
// Reaching the attempt limit activates a lockout and the call itself returns
// a LockedError. Success returns nil and deliberately does not reset the
// attempt counter: the caller proceeds to password reset, not to another
// round of verification.
func (m *RecoveryManager) Verify(answers []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.lockedUntil.IsZero() {
		remaining := time.Until(m.lockedUntil)
		if remaining > 0 {
			return &LockedError{Remaining: remaining}
		}
		// Lockout expired: it clears itself and attempts start fresh.
		m.lockedUntil = time.Time{}
		m.attempts = 0
	}

	if len(m.steps) == 0 {
		return common.ErrRecoveryNotInitialized
	}

	for _, step := range m.steps {
		answer := ""
		if step.position-1 < len(answers) {
			answer = answers[step.position-1]
		}
		if step.verify(answer) {
			continue
		}

		m.attempts++
		if m.attempts >= m.maxAttempts {
			m.lockedUntil = time.Now().Add(m.lockoutDuration)
			m.log.Warn(context.Background(), "recovery locked out",
				"identifier", m.identifier, "attempts", m.attempts, "duration", m.lockoutDuration)
			return &LockedError{Remaining: m.lockoutDuration}
		}
		return &MismatchError{Position: step.position, Remaining: m.maxAttempts - m.attempts}
	}

	m.log.Info(context.Background(), "recovery verification succeeded", "identifier", m.identifier)
	return nil
}

// Reset clears the chain, the attempt counter and any lockout. Used when
// the UI abandons a recovery flow.
func (m *RecoveryManager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identifier = ""
	m.steps = nil
	m.attempts = 0
	m.lockedUntil = time.Time{}
}

// Questions returns the question texts of the current chain, if any.
func (m *RecoveryManager) Questions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	qs := make([]string, len(m.steps))
	for i, s := range m.steps {
		qs[i] = s.question
	}
	return qs
}
