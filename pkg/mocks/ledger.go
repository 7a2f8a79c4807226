/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package mocks provides in-memory test doubles for the validator's
// external collaborators, grounded on the teacher's pkg/mocks package.
package mocks

import (
	"sync"

	"github.com/veres-one/validator/pkg/document"
	"github.com/veres-one/validator/pkg/ledger"
)

// LedgerView mocks ledger.View for testing purposes.
type LedgerView struct {
	sync.RWMutex
	records map[string]document.DIDDocument
	Err     error
}

// NewLedgerView creates an empty mock ledger view.
func NewLedgerView() *LedgerView {
	return &LedgerView{records: make(map[string]document.DIDDocument)}
}

// Put stores doc under its own id, as if a prior create operation had
// already been validated and committed.
func (m *LedgerView) Put(doc document.DIDDocument) {
	m.Lock()
	defer m.Unlock()

	m.records[doc.ID()] = doc
}

// GetRecord mocks ledger.View.GetRecord.
func (m *LedgerView) GetRecord(did string) (document.DIDDocument, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.RLock()
	defer m.RUnlock()

	doc, ok := m.records[did]
	if !ok {
		return nil, ledger.ErrNotFound
	}

	return doc, nil
}
