// Copyright (C) 2019-2026, Aura Network Contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package ceremony

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aura-net/aura/effects"
	"github.com/aura-net/aura/ids"
	"github.com/aura-net/aura/internal/aurerr"
)

// transcriptKeyPrefix follows the frost_keys:{device} storage-key scheme,
// scoped per device since each device stores only its own share plus the
// public transcript. The same key addresses both halves of the record:
// the public transcript in StorageEffects, the sealed signing share in
// SecureStorageEffects.
const transcriptKeyPrefix = "frost_keys:"

func transcriptKey(device ids.DeviceId) string {
	return transcriptKeyPrefix + device.String()
}

// StoredTranscript is the public half of the durable record a device
// keeps after a DKG completes: the group public key and transcript needed
// to participate in future signing rounds. None of it is secret. The
// device's signing share is key material and never enters this record —
// it travels through SecureStorageEffects alongside it (see Put/Get
// versus SigningShare).
type StoredTranscript struct {
	CeremonyID  ids.CeremonyId
	GroupPublic []byte
	Transcript  DkgTranscript
}

// TranscriptStore persists a device's DKG outcome: transcript metadata
// behind StorageEffects, the signing share sealed behind
// SecureStorageEffects.
type TranscriptStore struct {
	storage effects.StorageEffects
	secure  effects.SecureStorageEffects
}

// NewTranscriptStore wraps the two storage boundaries for transcript
// persistence.
func NewTranscriptStore(storage effects.StorageEffects, secure effects.SecureStorageEffects) *TranscriptStore {
	return &TranscriptStore{storage: storage, secure: secure}
}

// Put durably records device's outcome of a ceremony: the sealed signing
// share first, so a crash between the two writes leaves a device that can
// still sign but must refetch the public transcript, never the reverse.
func (s *TranscriptStore) Put(ctx context.Context, device ids.DeviceId, record StoredTranscript, signingShare []byte) error {
	if len(signingShare) > 0 {
		if err := s.secure.StoreSealed(ctx, transcriptKey(device), signingShare); err != nil {
			return fmt.Errorf("%w: %v", aurerr.ErrSecureStoreUnavailable, err)
		}
	}
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: %v", aurerr.ErrEncodeFailed, err)
	}
	if err := s.storage.Put(ctx, transcriptKey(device), body); err != nil {
		return fmt.Errorf("%w: %v", aurerr.ErrStorageIO, err)
	}
	return nil
}

// Get retrieves device's stored public transcript record.
func (s *TranscriptStore) Get(ctx context.Context, device ids.DeviceId) (StoredTranscript, error) {
	body, err := s.storage.Get(ctx, transcriptKey(device))
	if err != nil {
		return StoredTranscript{}, fmt.Errorf("%w: %v", aurerr.ErrStorageIO, err)
	}
	var record StoredTranscript
	if err := json.Unmarshal(body, &record); err != nil {
		return StoredTranscript{}, fmt.Errorf("%w: %v", aurerr.ErrDecodeFailed, err)
	}
	return record, nil
}

// SigningShare opens device's sealed signing share. The caller owns the
// returned bytes and must zeroize them once the signing round completes.
func (s *TranscriptStore) SigningShare(ctx context.Context, device ids.DeviceId) ([]byte, error) {
	share, err := s.secure.OpenSealed(ctx, transcriptKey(device))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", aurerr.ErrSecureStoreUnavailable, err)
	}
	return share, nil
}

// DeleteShare removes device's sealed signing share, e.g. after a reshare
// makes it obsolete.
func (s *TranscriptStore) DeleteShare(ctx context.Context, device ids.DeviceId) error {
	if err := s.secure.DeleteSealed(ctx, transcriptKey(device)); err != nil {
		return fmt.Errorf("%w: %v", aurerr.ErrSecureStoreUnavailable, err)
	}
	return nil
}
