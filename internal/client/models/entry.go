package models

import (
	"encoding/json"
	"time"
)

// EntryKind classifies a vault record.
type EntryKind string

const (
	EntryKindLogin    EntryKind = "login"
	EntryKindCard     EntryKind = "card"
	EntryKindIdentity EntryKind = "identity"
	EntryKindNote     EntryKind = "note"
)

// Entry is the persisted row: both the short overview and the full details
// are stored as AEAD ciphertext alongside their nonces.
type Entry struct {
	// ID is a globally unique identifier for the entry.
	ID string

	// AccountID is the identifier of the owning account.
	AccountID string

	// Kind classifies the payload; kept in the clear so lists can filter
	// without decrypting details.
	Kind EntryKind

	// Overview contains encrypted, short summary bytes (human preview).
	Overview []byte
	// NonceOverview is the AEAD nonce for Overview.
	NonceOverview []byte

	// Details contains encrypted, full payload bytes (type-specific).
	Details []byte
	// NonceDetails is the AEAD nonce for Details.
	NonceDetails []byte

	// UpdatedAt is the last modification time in UTC.
	UpdatedAt time.Time
}

// Overview is the decrypted list-view projection of an entry.
type Overview struct {
	Kind  EntryKind `json:"kind"`
	Title string    `json:"title"`
}

// Envelope carries a decrypted entry: kind, title and the type-specific
// payload as raw JSON.
type Envelope struct {
	Kind    EntryKind       `json:"kind"`
	Title   string          `json:"title"`
	Details json.RawMessage `json:"details"`
}

// Wrap serializes a typed payload into an Envelope.
func Wrap[T TypedEntry](title string, v T) (Envelope, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Kind: v.GetKind(), Title: title, Details: b}, nil
}

// Unwrap decodes the type-specific payload according to the envelope kind.
func (e Envelope) Unwrap() (TypedEntry, error) {
	switch e.Kind {
	case EntryKindLogin:
		var v Login
		return v, json.Unmarshal(e.Details, &v)
	case EntryKindCard:
		var v Card
		return v, json.Unmarshal(e.Details, &v)
	case EntryKindIdentity:
		var v IdentityDocument
		return v, json.Unmarshal(e.Details, &v)
	case EntryKindNote:
		var v Note
		return v, json.Unmarshal(e.Details, &v)
	default:
		var v Note
		return v, json.Unmarshal(e.Details, &v)
	}
}

// TypedEntry is implemented by all concrete payload types.
type TypedEntry interface {
	GetKind() EntryKind

	// Fields returns the payload as ordered name/value pairs for display.
	// With masked=true, sensitive values are replaced by their masked form.
	Fields(masked bool) []Field
}

// Field is a single displayable name/value pair.
type Field struct {
	Name  string
	Value string
}

// Login stores website or application credentials, optionally with a TOTP
// secret for one-time codes.
type Login struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	URL        string `json:"url"`
	TOTPSecret string `json:"totp_secret,omitempty"`
}

func (x Login) GetKind() EntryKind { return EntryKindLogin }

func (x Login) Fields(masked bool) []Field {
	password := x.Password
	if masked {
		password = MaskSecret(x.Password)
	}
	fields := []Field{
		{Name: "username", Value: x.Username},
		{Name: "password", Value: password},
		{Name: "url", Value: x.URL},
	}
	if x.TOTPSecret != "" {
		totp := x.TOTPSecret
		if masked {
			totp = MaskSecret(x.TOTPSecret)
		}
		fields = append(fields, Field{Name: "totp secret", Value: totp})
	}
	return fields
}

// Card stores payment card details.
type Card struct {
	Number     string `json:"number"`
	Holder     string `json:"holder"`
	Expiration string `json:"expiration"`
	CVV        string `json:"cvv"`
}

func (x Card) GetKind() EntryKind { return EntryKindCard }

func (x Card) Fields(masked bool) []Field {
	number, cvv := x.Number, x.CVV
	if masked {
		number = MaskCardNumber(x.Number)
		cvv = MaskSecret(x.CVV)
	}
	return []Field{
		{Name: "number", Value: number},
		{Name: "holder", Value: x.Holder},
		{Name: "expiration", Value: x.Expiration},
		{Name: "cvv", Value: cvv},
	}
}

// IdentityDocument stores passport/ID style documents.
type IdentityDocument struct {
	DocType  string `json:"doc_type"`
	Number   string `json:"number"`
	FullName string `json:"full_name"`
	Issued   string `json:"issued"`
	Expires  string `json:"expires"`
}

func (x IdentityDocument) GetKind() EntryKind { return EntryKindIdentity }

func (x IdentityDocument) Fields(masked bool) []Field {
	number := x.Number
	if masked {
		number = MaskTail(x.Number, 2)
	}
	return []Field{
		{Name: "type", Value: x.DocType},
		{Name: "number", Value: number},
		{Name: "full name", Value: x.FullName},
		{Name: "issued", Value: x.Issued},
		{Name: "expires", Value: x.Expires},
	}
}

// Note stores free-form text.
type Note struct {
	Text string `json:"text"`
}

func (x Note) GetKind() EntryKind { return EntryKindNote }

func (x Note) Fields(masked bool) []Field {
	return []Field{{Name: "text", Value: x.Text}}
}
