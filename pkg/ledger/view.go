/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package ledger defines the read-only ledger view the validator is
// injected with. It never mutates the ledger and holds no state of its
// own beyond what the caller passes in.
package ledger

import (
	"errors"

	"github.com/veres-one/validator/pkg/document"
)

// ErrNotFound is returned by View.GetRecord when the DID has no record
// on the ledger at the view's basis block height.
var ErrNotFound = errors.New("ledger: record not found")

// View is the read-only interface the validator's document loader uses
// to resolve DIDs against the ledger's current state. Implementations
// are expected to honor whatever basisBlockHeight they were constructed
// with; the validator package never asks for a different height mid-call.
type View interface {
	// GetRecord returns the current DID document for did, or
	// ErrNotFound if none exists.
	GetRecord(did string) (document.DIDDocument, error)
}
