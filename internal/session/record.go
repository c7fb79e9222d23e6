package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"centralfight/gym-app/internal/domain"
)

// RecordVersion is bumped whenever the persisted account layout changes.
const RecordVersion = 1

var (
	ErrUnsupportedVersion = errors.New("unsupported session record version")
	ErrUnknownAccountType = errors.New("unknown account type in session record")
)

// record is the serialized form of the current session: a tagged account.
type record struct {
	Version int             `json:"version"`
	Type    domain.Role     `json:"type"`
	Account json.RawMessage `json:"account"`
}

// EncodeAccount serializes acc with its type tag. Password hashes are never written.
func EncodeAccount(acc domain.Account) ([]byte, error) {
	if acc == nil {
		return nil, fmt.Errorf("encode session: nil account")
	}
	body, err := json.Marshal(acc)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return json.Marshal(record{Version: RecordVersion, Type: acc.Role(), Account: body})
}

// DecodeAccount parses a record written by EncodeAccount.
func DecodeAccount(data []byte) (domain.Account, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if rec.Version != RecordVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, rec.Version)
	}

	switch rec.Type {
	case domain.RoleStudent:
		var s domain.Student
		if err := json.Unmarshal(rec.Account, &s); err != nil {
			return nil, fmt.Errorf("decode student session: %w", err)
		}
		return s, nil
	case domain.RoleTrainer:
		var t domain.Trainer
		if err := json.Unmarshal(rec.Account, &t); err != nil {
			return nil, fmt.Errorf("decode trainer session: %w", err)
		}
		return t, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAccountType, rec.Type)
}
