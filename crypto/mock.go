// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
)

// MockSigner is a deterministic, non-cryptographically-meaningful signer
// for tests and local simulation. It derives a fixed key from a peer name,
// exactly as original_source's mock.rs derives a deterministic keypair
// from a hash of the peer's name when built with its "mock" feature.
// NOT FOR PRODUCTION USE.
type MockSigner struct {
	key []byte
}

// NewMockSigner returns a MockSigner deterministically keyed by name, so
// the same name always yields the same signer across peers/processes in
// a test, matching mock.rs's PeerId::new (name -> same PeerId).
func NewMockSigner(name string) *MockSigner {
	sum := sha256.Sum256([]byte("parsec-mock-key:" + name))
	return &MockSigner{key: sum[:]}
}

// PublicKey returns the (mock) public key, which for this HMAC-based mock
// is the key itself: verification recomputes the MAC with the claimed
// public key and compares.
func (s *MockSigner) PublicKey() []byte {
	return s.key
}

// Sign implements Signer.
func (s *MockSigner) Sign(content []byte) ([]byte, error) {
	mac := hmac.New(sha256.New, s.key)
	_, _ = mac.Write(content)
	return mac.Sum(nil), nil
}

// MockVerifier verifies signatures made by MockSigner.
type MockVerifier struct{}

// Verify implements Verifier.
func (MockVerifier) Verify(publicKey, signature, content []byte) bool {
	mac := hmac.New(sha256.New, publicKey)
	_, _ = mac.Write(content)
	expected := mac.Sum(nil)
	return hmac.Equal(expected, signature)
}
