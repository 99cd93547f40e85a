// Package services contains application services for the Lockbox client:
// the session lifecycle manager, the recovery verification chain, the vault
// record service and the password generator.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avdeev/lockbox/internal/client/models"
	"github.com/avdeev/lockbox/internal/client/repositories/accounts"
	"github.com/avdeev/lockbox/internal/clipboardx"
	"github.com/avdeev/lockbox/internal/common"
	"github.com/avdeev/lockbox/internal/cryptox"
	"github.com/avdeev/lockbox/internal/logging"
)

// SessionState is the lifecycle state of the single process-wide session.
type SessionState int

const (
	// StateUnauthenticated: no account bound.
	StateUnauthenticated SessionState = iota
	// StateAuthenticated: account bound, vault key in memory.
	StateAuthenticated
	// StateLocked: account still bound, but re-authentication is required
	// and the vault key has been wiped.
	StateLocked
)

func (s SessionState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	case StateLocked:
		return "locked"
	default:
		return "unknown"
	}
}

// DefaultInactivityCheckInterval is how often the idle watcher compares the
// elapsed idle time against the configured threshold.
const DefaultInactivityCheckInterval = 10 * time.Second

// QuestionAnswer is the registration-time input for one knowledge factor.
// The answer is digested before persistence and never stored raw.
type QuestionAnswer struct {
	Question string
	Answer   string
}

// SessionManager owns authentication state, the inactivity watcher and the
// clipboard-expiry timer. Exactly one instance exists per process; it is
// created in main and passed down explicitly.
//
// State machine: unauthenticated -> (login) -> authenticated
// -> (idle timeout | explicit lock) -> locked -> (unlock) -> authenticated;
// logout returns to unauthenticated from either non-initial state.
type SessionManager struct {
	repo accounts.Repository
	clip clipboardx.Clipboard
	log  logging.Logger

	mu           sync.Mutex
	state        SessionState
	account      *models.Account
	vaultKey     []byte
	lastActivity time.Time

	checkInterval time.Duration
	// Test overrides for the per-account timeouts. Zero means "use account settings".
	inactivityOverride time.Duration
	clipClearOverride  time.Duration

	// watcherStop belongs to the currently running idle watcher. Starting a
	// new watcher always closes the previous channel first, so a superseded
	// watcher can never fire a stale lock.
	watcherStop chan struct{}
	clipTimer   *time.Timer

	onLock func()
}

// SessionOption configures a SessionManager.
type SessionOption func(*SessionManager)

// WithCheckInterval overrides the idle watcher cadence.
func WithCheckInterval(d time.Duration) SessionOption {
	return func(m *SessionManager) {
		if d > 0 {
			m.checkInterval = d
		}
	}
}

// WithInactivityTimeout overrides the per-account inactivity threshold.
// Intended for tests; production timeouts come from account settings.
func WithInactivityTimeout(d time.Duration) SessionOption {
	return func(m *SessionManager) { m.inactivityOverride = d }
}

// WithClipboardClearDelay overrides the per-account clipboard-clear delay.
// Intended for tests; production delays come from account settings.
func WithClipboardClearDelay(d time.Duration) SessionOption {
	return func(m *SessionManager) { m.clipClearOverride = d }
}

// NewSessionManager constructs the session manager in the unauthenticated state.
func NewSessionManager(repo accounts.Repository, clip clipboardx.Clipboard, log logging.Logger, opts ...SessionOption) *SessionManager {
	m := &SessionManager{
		repo:          repo,
		clip:          clip,
		log:           log,
		state:         StateUnauthenticated,
		checkInterval: DefaultInactivityCheckInterval,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnLock registers a callback invoked every time the session locks
// autonomously due to inactivity. The UI needs to be told about a lock it
// did not initiate; explicit Lock calls do not trigger the callback.
func (m *SessionManager) OnLock(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onLock = fn
}

// State returns the current session state.
func (m *SessionManager) State() SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CurrentAccount returns the identifier of the bound account, or "" if none.
func (m *SessionManager) CurrentAccount() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.account == nil {
		return ""
	}
	return m.account.Identifier
}

// VaultKey returns the in-memory vault key. Nil unless authenticated.
func (m *SessionManager) VaultKey() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vaultKey
}

// Register validates and persists a new account. It does not authenticate
// the caller.
//
// It fails with common.ErrDuplicateAccount if the identifier is taken, and
// with common.ErrInvalidQuestions unless exactly
// models.RequiredQuestionCount pairwise-distinct questions are supplied.
// Answers are normalized (trimmed, lower-cased) before digesting, so
// case/whitespace variants of the same answer are equivalent at recovery time.
func (m *SessionManager) Register(ctx context.Context, identifier, secret string, qa []QuestionAnswer) error {
	if err := validateQuestions(qa); err != nil {
		return err
	}

	_, err := m.repo.Get(ctx, identifier)
	if err == nil {
		return common.ErrDuplicateAccount
	}
	if !errors.Is(err, common.ErrAccountNotFound) {
		return fmt.Errorf("credential store lookup failed: %w", err)
	}

	salt := common.GenerateRandByteArray(32)
	vaultKey := common.GenerateRandByteArray(32)

	masterKey := cryptox.DeriveMasterKey([]byte(secret), salt)
	keyEnvelope, keyNonce, err := cryptox.WrapKey(vaultKey, masterKey)
	if err != nil {
		return fmt.Errorf("failed to wrap vault key: %w", err)
	}

	recoveryKey := deriveRecoveryKey(qa, salt)
	recoveryEnvelope, recoveryNonce, err := cryptox.WrapKey(vaultKey, recoveryKey)
	if err != nil {
		return fmt.Errorf("failed to wrap recovery envelope: %w", err)
	}

	questions := make([]models.SecurityQuestion, len(qa))
	for i, p := range qa {
		questions[i] = models.SecurityQuestion{
			Question:     p.Question,
			AnswerDigest: cryptox.DigestAnswer(p.Answer),
		}
	}

	account := &models.Account{
		Identifier:       identifier,
		CredentialDigest: cryptox.Digest(secret),
		Salt:             salt,
		KeyEnvelope:      keyEnvelope,
		KeyNonce:         keyNonce,
		RecoveryEnvelope: recoveryEnvelope,
		RecoveryNonce:    recoveryNonce,
		Questions:        questions,
		Settings:         models.DefaultSettings(),
	}

	if err := m.repo.Put(ctx, account); err != nil {
		return err
	}

	m.log.Info(ctx, "account registered", "identifier", identifier)
	return nil
}

// Login binds the session to an account after a successful digest
// comparison, stamps activity time and starts the inactivity watcher.
// Logging in over an existing session first cancels that session's timers.
func (m *SessionManager) Login(ctx context.Context, identifier, secret string) error {
	account, err := m.repo.Get(ctx, identifier)
	if err != nil {
		return err
	}

	if cryptox.Digest(secret) != account.CredentialDigest {
		return common.ErrInvalidCredential
	}

	masterKey := cryptox.DeriveMasterKey([]byte(secret), account.Salt)
	vaultKey, err := cryptox.UnwrapKey(account.KeyEnvelope, account.KeyNonce, masterKey)
	if err != nil {
		return fmt.Errorf("failed to unwrap vault key: %w", err)
	}

	m.mu.Lock()
	m.stopClipTimerLocked()
	common.WipeByteArray(m.vaultKey)
	m.account = account
	m.vaultKey = vaultKey
	m.state = StateAuthenticated
	m.lastActivity = time.Now()
	m.startWatcherLocked()
	m.mu.Unlock()

	m.log.Info(ctx, "session authenticated", "identifier", identifier,
		"inactivity_timeout", account.Settings.InactivityTimeout())
	return nil
}

// Unlock re-authenticates a locked session with the bound account's secret
// and restarts the inactivity watcher.
func (m *SessionManager) Unlock(ctx context.Context, secret string) error {
	m.mu.Lock()
	if m.account == nil {
		m.mu.Unlock()
		return common.ErrNoActiveSession
	}
	account := m.account
	m.mu.Unlock()

	if cryptox.Digest(secret) != account.CredentialDigest {
		return common.ErrInvalidCredential
	}

	masterKey := cryptox.DeriveMasterKey([]byte(secret), account.Salt)
	vaultKey, err := cryptox.UnwrapKey(account.KeyEnvelope, account.KeyNonce, masterKey)
	if err != nil {
		return fmt.Errorf("failed to unwrap vault key: %w", err)
	}

	m.mu.Lock()
	common.WipeByteArray(m.vaultKey)
	m.vaultKey = vaultKey
	m.state = StateAuthenticated
	m.lastActivity = time.Now()
	m.startWatcherLocked()
	m.mu.Unlock()

	m.log.Info(ctx, "session unlocked", "identifier", account.Identifier)
	return nil
}

// Lock deauthenticates without clearing the bound account, so the same user
// can unlock with only the secret. The vault key is wiped. No-op unless
// authenticated.
func (m *SessionManager) Lock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthenticated {
		return
	}
	m.lockLocked()
}

// lockLocked transitions authenticated -> locked. Callers hold m.mu.
func (m *SessionManager) lockLocked() {
	m.stopWatcherLocked()
	common.WipeByteArray(m.vaultKey)
	m.vaultKey = nil
	m.state = StateLocked
}

// Logout deauthenticates, clears the bound account, stops both timers and
// clears any copied clipboard content immediately. Safe to call from any state.
func (m *SessionManager) Logout() {
	m.mu.Lock()
	m.stopWatcherLocked()
	m.stopClipTimerLocked()
	common.WipeByteArray(m.vaultKey)
	m.vaultKey = nil
	m.account = nil
	m.state = StateUnauthenticated
	m.mu.Unlock()

	if err := m.clip.Write(""); err != nil {
		m.log.Warn(context.Background(), "failed to clear clipboard on logout", "error", err)
	}
}

// UpdateActivity refreshes the idle timestamp. Called by the UI on detected
// user interaction; a no-op unless authenticated.
func (m *SessionManager) UpdateActivity() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthenticated {
		return
	}
	m.lastActivity = time.Now()
}

// CopyToClipboard writes text to the clipboard and (re)starts the one-shot
// timer that overwrites it with empty content after the configured delay.
// Repeated calls reset the timer rather than scheduling a second clear.
func (m *SessionManager) CopyToClipboard(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthenticated {
		return common.ErrNoActiveSession
	}
	if err := m.clip.Write(text); err != nil {
		return err
	}
	m.lastActivity = time.Now()

	m.stopClipTimerLocked()
	m.clipTimer = time.AfterFunc(m.clipboardClearLocked(), func() {
		if err := m.clip.Write(""); err != nil {
			m.log.Warn(context.Background(), "failed to clear clipboard", "error", err)
		}
	})
	return nil
}

// SettingsUpdate carries a partial settings change; nil fields are left as is.
type SettingsUpdate struct {
	InactivityTimeoutMinutes *int
	ClipboardClearMinutes    *int
}

// UpdateSettings applies a partial settings update to the bound account and
// persists it.
func (m *SessionManager) UpdateSettings(ctx context.Context, update SettingsUpdate) error {
	m.mu.Lock()
	if m.state != StateAuthenticated || m.account == nil {
		m.mu.Unlock()
		return common.ErrNoActiveSession
	}
	if update.InactivityTimeoutMinutes != nil {
		m.account.Settings.InactivityTimeoutMinutes = *update.InactivityTimeoutMinutes
	}
	if update.ClipboardClearMinutes != nil {
		m.account.Settings.ClipboardClearMinutes = *update.ClipboardClearMinutes
	}
	account := m.account
	m.mu.Unlock()

	return m.repo.Put(ctx, account)
}

// UpdatePassword re-digests the credential and re-wraps the vault key
// envelope under the new secret. The session must currently hold the vault
// key for that identifier; password reset without the old secret goes
// through ResetPasswordWithAnswers instead.
func (m *SessionManager) UpdatePassword(ctx context.Context, identifier, newSecret string) error {
	m.mu.Lock()
	if m.state != StateAuthenticated || m.account == nil || m.account.Identifier != identifier {
		m.mu.Unlock()
		return common.ErrNoActiveSession
	}
	account := m.account
	vaultKey := m.vaultKey
	m.mu.Unlock()

	masterKey := cryptox.DeriveMasterKey([]byte(newSecret), account.Salt)
	keyEnvelope, keyNonce, err := cryptox.WrapKey(vaultKey, masterKey)
	if err != nil {
		return fmt.Errorf("failed to wrap vault key: %w", err)
	}

	m.mu.Lock()
	account.CredentialDigest = cryptox.Digest(newSecret)
	account.KeyEnvelope = keyEnvelope
	account.KeyNonce = keyNonce
	m.mu.Unlock()

	if err := m.repo.Put(ctx, account); err != nil {
		return err
	}
	m.log.Info(ctx, "password updated", "identifier", identifier)
	return nil
}

// ResetPasswordWithAnswers completes a recovery flow: the vault key is
// unwrapped from the recovery envelope using the normalized answers, then
// re-wrapped under the new secret. Fails with common.ErrInvalidCredential if
// the answers do not open the envelope.
//
// The caller is expected to have run the recovery verification chain first;
// the envelope itself still refuses wrong answers.
func (m *SessionManager) ResetPasswordWithAnswers(ctx context.Context, identifier string, answers []string, newSecret string) error {
	account, err := m.repo.Get(ctx, identifier)
	if err != nil {
		return err
	}

	recoveryKey := deriveRecoveryKeyFromAnswers(answers, account.Salt)
	vaultKey, err := cryptox.UnwrapKey(account.RecoveryEnvelope, account.RecoveryNonce, recoveryKey)
	if err != nil {
		return common.ErrInvalidCredential
	}

	masterKey := cryptox.DeriveMasterKey([]byte(newSecret), account.Salt)
	keyEnvelope, keyNonce, err := cryptox.WrapKey(vaultKey, masterKey)
	if err != nil {
		return fmt.Errorf("failed to wrap vault key: %w", err)
	}

	account.CredentialDigest = cryptox.Digest(newSecret)
	account.KeyEnvelope = keyEnvelope
	account.KeyNonce = keyNonce

	if err := m.repo.Put(ctx, account); err != nil {
		return err
	}
	m.log.Info(ctx, "password reset via recovery", "identifier", identifier)
	return nil
}

// AccountForRecovery is a persistence pass-through used to start a recovery
// flow for an identifier.
func (m *SessionManager) AccountForRecovery(ctx context.Context, identifier string) (*models.Account, error) {
	return m.repo.Get(ctx, identifier)
}

// ---- idle watcher ----

// startWatcherLocked replaces any running idle watcher with a fresh one.
// Cancel-old-then-start-new: a prior watcher must never outlive the state
// transition that superseded it. Callers hold m.mu.
func (m *SessionManager) startWatcherLocked() {
	m.stopWatcherLocked()
	stop := make(chan struct{})
	m.watcherStop = stop
	go m.watch(stop)
}

// stopWatcherLocked cancels the running idle watcher, if any. Callers hold m.mu.
func (m *SessionManager) stopWatcherLocked() {
	if m.watcherStop != nil {
		close(m.watcherStop)
		m.watcherStop = nil
	}
}

// stopClipTimerLocked cancels the pending clipboard clear, if any. Callers hold m.mu.
func (m *SessionManager) stopClipTimerLocked() {
	if m.clipTimer != nil {
		m.clipTimer.Stop()
		m.clipTimer = nil
	}
}

// watch periodically compares elapsed idle time to the configured threshold
// and locks the session when it is exceeded. It exits when its stop channel
// closes or after performing the lock transition.
func (m *SessionManager) watch(stop chan struct{}) {
	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if m.lockIfIdle() {
				return
			}
		case <-stop:
			return
		}
	}
}

// lockIfIdle performs the autonomous lock transition when the idle threshold
// has been exceeded. Returns true when the watcher should exit.
func (m *SessionManager) lockIfIdle() bool {
	m.mu.Lock()
	if m.state != StateAuthenticated || m.account == nil {
		// Superseded by a state transition; the stop channel is already
		// closed or about to be.
		m.mu.Unlock()
		return true
	}
	if time.Since(m.lastActivity) < m.inactivityTimeoutLocked() {
		m.mu.Unlock()
		return false
	}

	identifier := m.account.Identifier
	m.lockLocked()
	cb := m.onLock
	m.mu.Unlock()

	m.log.Info(context.Background(), "session locked due to inactivity", "identifier", identifier)
	if cb != nil {
		cb()
	}
	return true
}

// inactivityTimeoutLocked resolves the idle threshold. Callers hold m.mu.
func (m *SessionManager) inactivityTimeoutLocked() time.Duration {
	if m.inactivityOverride > 0 {
		return m.inactivityOverride
	}
	return m.account.Settings.InactivityTimeout()
}

// clipboardClearLocked resolves the clipboard-clear delay. Callers hold m.mu.
func (m *SessionManager) clipboardClearLocked() time.Duration {
	if m.clipClearOverride > 0 {
		return m.clipClearOverride
	}
	return m.account.Settings.ClipboardClear()
}

// ---- helpers ----

// validateQuestions enforces the registration invariant: exactly
// models.RequiredQuestionCount questions, pairwise distinct after
// normalization, each with a non-empty question text.
func validateQuestions(qa []QuestionAnswer) error {
	if len(qa) != models.RequiredQuestionCount {
		return common.ErrInvalidQuestions
	}
	seen := make(map[string]struct{}, len(qa))
	for _, p := range qa {
		q := cryptox.NormalizeAnswer(p.Question)
		if q == "" {
			return common.ErrInvalidQuestions
		}
		if _, ok := seen[q]; ok {
			return common.ErrInvalidQuestions
		}
		seen[q] = struct{}{}
	}
	return nil
}

// deriveRecoveryKey derives the answer-based key-encryption key used for the
// recovery envelope.
func deriveRecoveryKey(qa []QuestionAnswer, salt []byte) []byte {
	answers := make([]string, len(qa))
	for i, p := range qa {
		answers[i] = p.Answer
	}
	return deriveRecoveryKeyFromAnswers(answers, salt)
}

// deriveRecoveryKeyFromAnswers joins the normalized answers in chain order
// and feeds them through the same KDF as the master secret. Normalization
// here must match registration, or recovery would never open the envelope.
func deriveRecoveryKeyFromAnswers(answers []string, salt []byte) []byte {
	normalized := make([]byte, 0, 64)
	for i, a := range answers {
		if i > 0 {
			normalized = append(normalized, '\n')
		}
		normalized = append(normalized, cryptox.NormalizeAnswer(a)...)
	}
	return cryptox.DeriveMasterKey(normalized, salt)
}
