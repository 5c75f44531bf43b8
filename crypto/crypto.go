// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package crypto defines the two capability contracts the consensus core
// consumes as opaque collaborators (§9 DESIGN NOTES): hashing, for content
// addressing, and signing, for event/observation authenticity. Neither
// primitive is implemented here beyond a deterministic mock suitable for
// tests; production embedders wire their own implementation (e.g. backed
// by github.com/luxfi/crypto) through these interfaces.
package crypto

import "github.com/luxfi/ids"

// Hash is a fixed-width content digest. It is the same 32-byte identifier
// type used for event hashes, observation keys and block hashes, reusing
// ids.ID directly as a generic hash rather than defining a parallel type.
type Hash = ids.ID

// Hasher content-addresses serialized bytes.
type Hasher interface {
	Hash(content []byte) Hash
}

// Signer signs content on behalf of one peer identity and reports that
// identity's public key, used to verify signatures made by this signer.
type Signer interface {
	Sign(content []byte) (signature []byte, err error)
	PublicKey() []byte
}

// Verifier verifies a signature made by the holder of publicKey over
// content.
type Verifier interface {
	Verify(publicKey, signature, content []byte) bool
}
