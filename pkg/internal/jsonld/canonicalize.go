/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package jsonld is the concrete implementation behind spec.md §9's
// "JSON-LD canonicalization is a black box" note: a single
// Canonicalize function, shared between the test-fixture signer and
// the C5 proof verifier, wrapping github.com/piprate/json-gold's
// URDNA2015 normalization.
package jsonld

import (
	"fmt"

	"github.com/piprate/json-gold/ld"

	"github.com/veres-one/validator/pkg/loader"
)

const (
	format    = "application/n-quads"
	algorithm = "URDNA2015"
)

// Canonicalize produces the deterministic N-Quads serialization of doc.
// loader resolves any @context URLs the document references; pass the
// same loader implementation used elsewhere in a given validate call so
// context resolution never reaches the network. A doc with no @context
// (such as an operation envelope) is canonicalized under the built-in
// DID context, whose @vocab maps every term to an IRI, so none of its
// properties is dropped from the output; doc itself is not modified.
func Canonicalize(doc map[string]interface{}, docLoader ld.DocumentLoader) ([]byte, error) {
	if _, ok := doc["@context"]; !ok {
		withContext := make(map[string]interface{}, len(doc)+1)
		for k, v := range doc {
			withContext[k] = v
		}

		withContext["@context"] = loader.DidContextURL
		doc = withContext
	}

	options := ld.NewJsonLdOptions("")
	options.Algorithm = algorithm
	options.Format = format
	options.ProcessingMode = ld.JsonLd_1_1
	options.DocumentLoader = docLoader

	processor := ld.NewJsonLdProcessor()

	normalized, err := processor.Normalize(doc, options)
	if err != nil {
		return nil, fmt.Errorf("jsonld: normalize: %w", err)
	}

	result, ok := normalized.(string)
	if !ok {
		return nil, fmt.Errorf("jsonld: normalize: unexpected result type")
	}

	return []byte(result), nil
}
