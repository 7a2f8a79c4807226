/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package loader implements the validator's document loader (spec.md
// §4.4): the sole ledger read path used during verification, also
// serving a static table of built-in JSON-LD context documents and
// resolving "<did>#<fragment>" references into the matching subtree of
// a loaded DID document.
package loader

import (
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/multiformats/go-multihash"
	"github.com/piprate/json-gold/ld"

	"github.com/veres-one/validator/pkg/document"
	internallog "github.com/veres-one/validator/pkg/internal/log"
	"github.com/veres-one/validator/pkg/ledger"
	"github.com/veres-one/validator/pkg/log"
	"github.com/veres-one/validator/pkg/verror"
)

// Built-in JSON-LD context URLs the loader serves without ever touching
// the network, mirroring the two constants the teacher's did validator
// hard-codes (didContext, didResolutionContext).
const (
	DidContextURL           = "https://w3id.org/did/v1"
	DidResolutionContextURL = "https://www.w3.org/ns/did-resolution/v1"
)

// builtinContexts are minimal, deterministic JSON-LD context documents.
// Every unrecognized term falls back to the @vocab IRI, so canonicalizing
// a DID document never silently drops a property the signer and verifier
// both need to see.
var builtinContexts = map[string]map[string]interface{}{
	DidContextURL: {
		"@context": map[string]interface{}{
			"@vocab": "https://w3id.org/did#",
			"id":     "@id",
			"type":   "@type",
		},
	},
	DidResolutionContextURL: {
		"@context": map[string]interface{}{
			"@vocab": "https://www.w3.org/ns/did-resolution#",
			"id":     "@id",
			"type":   "@type",
		},
	},
}

var logger = log.New("loader")

// Loader resolves DIDs, known JSON-LD context URLs, and <did>#<fragment>
// references. It is meant to be constructed once per validate call and
// discarded on return; its memoization map must never outlive one call.
type Loader struct {
	view ledger.View

	mu    sync.Mutex
	cache map[string]document.DIDDocument
}

// New creates a document loader reading through view.
func New(view ledger.View) *Loader {
	return &Loader{view: view, cache: make(map[string]document.DIDDocument)}
}

// Load resolves url to a document, per spec.md §4.4:
//   - a DID resolves through the ledger view;
//   - a known JSON-LD context URL resolves to a built-in copy;
//   - a "<did>#<fragment>" reference resolves to the subtree with that
//     id inside the loaded DID document.
func (l *Loader) Load(url string) (document.DIDDocument, error) {
	if cached, ok := l.fromCache(url); ok {
		return cached, nil
	}

	var doc document.DIDDocument

	switch {
	case strings.HasPrefix(url, "did:v1:") && !strings.Contains(url, "#"):
		resolved, err := l.loadDID(url)
		if err != nil {
			return nil, err
		}

		doc = resolved
	case isBuiltinContext(url):
		doc = document.FromJSONLDObject(builtinContexts[url])
	case strings.Contains(url, "#"):
		resolved, err := l.loadFragment(url)
		if err != nil {
			return nil, err
		}

		doc = resolved
	default:
		return nil, verror.New(verror.NotFoundError, fmt.Sprintf("loader: unsupported url: %s", url))
	}

	l.storeCache(url, doc)

	return doc, nil
}

func (l *Loader) loadDID(didURL string) (document.DIDDocument, error) {
	doc, err := l.view.GetRecord(didURL)
	if err != nil {
		if err == ledger.ErrNotFound {
			logger.Debugw("did not found on ledger", internallog.WithDID(didURL))

			return nil, verror.New(verror.NotFoundError, fmt.Sprintf("did not found: %s", didURL))
		}

		return nil, verror.Wrap(verror.NotFoundError, fmt.Sprintf("failed to load did: %s", didURL), err)
	}

	return doc, nil
}

func (l *Loader) loadFragment(fragmentURL string) (document.DIDDocument, error) {
	parts := strings.SplitN(fragmentURL, "#", 2)

	didDoc, err := l.loadDID(parts[0])
	if err != nil {
		return nil, err
	}

	for _, section := range [][]document.VerificationMethod{
		didDoc.Authentication(),
		didDoc.CapabilityInvocation(),
		didDoc.CapabilityDelegation(),
	} {
		for _, vm := range section {
			if vm.ID() == fragmentURL {
				return document.DIDDocument(vm), nil
			}
		}
	}

	return nil, verror.New(verror.NotFoundError, fmt.Sprintf("verification method not found: %s", fragmentURL))
}

func isBuiltinContext(url string) bool {
	_, ok := builtinContexts[url]

	return ok
}

func (l *Loader) fromCache(url string) (document.DIDDocument, bool) {
	key := cacheKey(url)

	l.mu.Lock()
	defer l.mu.Unlock()

	doc, ok := l.cache[key]

	return doc, ok
}

func (l *Loader) storeCache(url string, doc document.DIDDocument) {
	key := cacheKey(url)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.cache[key] = doc
}

// cacheKey derives a content-addressed memoization key from the
// requested url using a multihash digest, the same primitive the
// teacher's docutil package uses to derive unique suffixes from encoded
// documents.
func cacheKey(url string) string {
	digest, err := multihash.Sum([]byte(url), multihash.SHA2_256, -1)
	if err != nil {
		// multihash.Sum only fails for unsupported codes/lengths, never
		// for SHA2_256 with the default length; fall back to the raw
		// url so memoization degrades to exact-string matching.
		return url
	}

	return hex.EncodeToString([]byte(digest))
}

// LoadDocument implements github.com/piprate/json-gold/ld.DocumentLoader,
// letting the canonicalizer (C5's external collaborator) resolve the
// same built-in context documents Load serves, without ever reaching
// out to the network.
func (l *Loader) LoadDocument(u string) (*ld.RemoteDocument, error) {
	doc, ok := builtinContexts[u]
	if !ok {
		return nil, fmt.Errorf("loader: context not available offline: %s", u)
	}

	return &ld.RemoteDocument{DocumentURL: u, Document: doc}, nil
}
