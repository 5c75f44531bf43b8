// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package crypto

import "crypto/sha256"

// SHA256Hasher is the default Hasher. Hashing is explicitly out of scope
// for the consensus core (§1): it is consumed only through the Hasher
// interface, and no pack dependency offers a general-purpose content hash
// independent of a specific chain's signature scheme, so this wraps the
// standard library rather than pulling in an unrelated chain's crypto
// package for one function (see DESIGN.md).
type SHA256Hasher struct{}

// Hash implements Hasher.
func (SHA256Hasher) Hash(content []byte) Hash {
	sum := sha256.Sum256(content)
	var h Hash
	copy(h[:], sum[:])
	return h
}
