// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/luxfi/parsec/crypto"
	"github.com/luxfi/parsec/internal/cryptomock"
)

// TestBuildSignsSerializedContentExactlyOnce exercises Build against a
// gomock-recorded Signer expectation, rather than the deterministic
// crypto.Mock* used everywhere else in this package's tests.
func TestBuildSignsSerializedContentExactlyOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	signer := cryptomock.NewMockSigner(ctrl)
	signer.EXPECT().Sign(gomock.Any()).Times(1).Return([]byte("sig"), nil)

	creator := ids.GenerateTestNodeID()
	cause := Cause{Kind: Initial}

	e, err := Build(creator, cause, signer, crypto.SHA256Hasher{})
	require.NoError(t, err)
	require.Equal(t, []byte("sig"), e.Signature)
}
