// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import "errors"

// Errors returned by Graph.Insert and PackedEvent.Unpack (§4.1, §7).
var (
	// ErrDuplicateEvent is returned when an event's hash is already present.
	ErrDuplicateEvent = errors.New("event: duplicate event")
	// ErrUnknownParent is returned when a referenced parent hash is absent.
	ErrUnknownParent = errors.New("event: unknown parent")
	// ErrSignatureFailure is returned when signature verification fails.
	ErrSignatureFailure = errors.New("event: signature verification failed")
	// ErrUnknownCreator is returned when an event's creator is not a
	// known peer.
	ErrUnknownCreator = errors.New("event: unknown creator")
)
