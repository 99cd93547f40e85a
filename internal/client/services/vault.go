package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"

	"github.com/avdeev/lockbox/internal/client/models"
	"github.com/avdeev/lockbox/internal/client/repositories/entries"
	"github.com/avdeev/lockbox/internal/cryptox"
)

// ErrNoTOTPSecret is returned when a one-time code is requested for an entry
// that does not carry a TOTP secret.
var ErrNoTOTPSecret = errors.New("entry has no TOTP secret")

// ListItem is the decrypted list-view of one entry.
type ListItem struct {
	ID    string
	Kind  models.EntryKind
	Title string
}

func (i ListItem) String() string {
	return fmt.Sprintf("%s  [%s]  %s", i.ID, i.Kind, i.Title)
}

// VaultService defines CRUD over encrypted vault records. All operations
// take the session's vault key; they never persist plaintext.
type VaultService interface {
	// Add encrypts and stores a new record, returning its generated ID.
	Add(ctx context.Context, accountID, title string, item models.TypedEntry, key []byte) (string, error)

	// List decrypts overviews for all records of the account.
	List(ctx context.Context, accountID string, key []byte) ([]ListItem, error)

	// Get decrypts the full payload of one record.
	Get(ctx context.Context, accountID, id string, key []byte) (*models.Envelope, error)

	// Delete removes a record permanently.
	Delete(ctx context.Context, accountID, id string) error

	// TOTPCode computes the current one-time code for a login record that
	// carries a TOTP secret.
	TOTPCode(ctx context.Context, accountID, id string, key []byte) (string, error)
}

// vaultService is the concrete VaultService backed by the entries repository.
type vaultService struct {
	repo entries.Repository
}

// NewVaultService constructs a VaultService bound to the given repository.
func NewVaultService(repo entries.Repository) VaultService {
	return &vaultService{repo: repo}
}

func (s *vaultService) Add(ctx context.Context, accountID, title string, item models.TypedEntry, key []byte) (string, error) {
	envelope, err := models.Wrap(title, item)
	if err != nil {
		return "", fmt.Errorf("failed to wrap entry: %w", err)
	}

	details, nonceDetails, err := cryptox.EncryptEntry(envelope, key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt entry: %w", err)
	}

	overview, nonceOverview, err := cryptox.EncryptEntry(models.Overview{Kind: envelope.Kind, Title: envelope.Title}, key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt overview: %w", err)
	}

	entry := &models.Entry{
		ID:            uuid.NewString(),
		AccountID:     accountID,
		Kind:          envelope.Kind,
		Overview:      overview,
		NonceOverview: nonceOverview,
		Details:       details,
		NonceDetails:  nonceDetails,
		UpdatedAt:     time.Now().UTC(),
	}

	if err := s.repo.CreateOrUpdate(ctx, entry); err != nil {
		return "", err
	}
	return entry.ID, nil
}

func (s *vaultService) List(ctx context.Context, accountID string, key []byte) ([]ListItem, error) {
	rows, err := s.repo.GetAll(ctx, accountID)
	if err != nil {
		return nil, err
	}

	items := make([]ListItem, 0, len(rows))
	for _, row := range rows {
		var ov models.Overview
		if err := cryptox.DecryptEntry(row.Overview, row.NonceOverview, key, &ov); err != nil {
			return nil, fmt.Errorf("failed to decrypt overview of %s: %w", row.ID, err)
		}
		items = append(items, ListItem{ID: row.ID, Kind: ov.Kind, Title: ov.Title})
	}
	return items, nil
}

func (s *vaultService) Get(ctx context.Context, accountID, id string, key []byte) (*models.Envelope, error) {
	row, err := s.repo.GetByID(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	var envelope models.Envelope
	if err := cryptox.DecryptEntry(row.Details, row.NonceDetails, key, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decrypt entry %s: %w", id, err)
	}
	return &envelope, nil
}

func (s *vaultService) Delete(ctx context.Context, accountID, id string) error {
	return s.repo.DeleteByID(ctx, accountID, id)
}

func (s *vaultService) TOTPCode(ctx context.Context, accountID, id string, key []byte) (string, error) {
	envelope, err := s.Get(ctx, accountID, id, key)
	if err != nil {
		return "", err
	}

	item, err := envelope.Unwrap()
	if err != nil {
		return "", err
	}

	login, ok := item.(models.Login)
	if !ok || login.TOTPSecret == "" {
		return "", ErrNoTOTPSecret
	}

	return totp.GenerateCode(login.TOTPSecret, time.Now())
}
