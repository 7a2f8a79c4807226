/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package document

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mr-tron/base58"

	"github.com/veres-one/validator/pkg/fingerprint"
	"github.com/veres-one/validator/pkg/verror"
)

// proofPurposeSections are the sections every DID document must carry,
// each a nonempty ordered sequence of verification methods.
var proofPurposeSections = []string{
	AuthenticationProperty,
	CapabilityInvocationProperty,
	CapabilityDelegationProperty,
}

// Validate enforces the DID document's structural well-formedness
// invariants (spec.md §4.3): id present, nonempty proof-purpose
// sections, well-formed verification methods and service descriptors.
// It does not check that id is a well-formed DID, nor perform cryptonym
// binding — both are pkg/did's job (Parse and Bind), composed separately
// by the orchestrator and the patch engine.
func Validate(doc DIDDocument) *verror.Error {
	id := doc.ID()
	if id == "" {
		return verror.New(verror.ValidationError, "document is missing the id property")
	}

	seenIDs := make(map[string]bool)

	for _, section := range proofPurposeSections {
		entry, ok := doc[section]
		if !ok {
			return verror.New(verror.ValidationError, fmt.Sprintf("document is missing %s", section))
		}

		arr := interfaceArray(entry)
		if len(arr) == 0 {
			return verror.New(verror.ValidationError, fmt.Sprintf("%s must be a nonempty array", section))
		}

		methods := parseVerificationMethods(entry)
		if len(methods) == 0 {
			return verror.New(verror.ValidationError, fmt.Sprintf("%s must contain verification methods", section))
		}

		for _, vm := range methods {
			if err := validateVerificationMethod(id, vm); err != nil {
				return err
			}

			if seenIDs[vm.ID()] {
				return verror.New(verror.ValidationError, fmt.Sprintf("duplicate verification method id: %s", vm.ID()))
			}

			seenIDs[vm.ID()] = true
		}
	}

	if err := validateServices(id, doc.Service()); err != nil {
		return err
	}

	return nil
}

func validateVerificationMethod(docID string, vm VerificationMethod) *verror.Error {
	if vm.Type() != Ed25519VerificationKey2018 {
		return verror.New(verror.ValidationError,
			fmt.Sprintf("verification method %q has unsupported type %q", vm.ID(), vm.Type()))
	}

	if vm.Controller() != docID {
		return verror.New(verror.ValidationError,
			fmt.Sprintf("verification method %q has controller %q, expected %q", vm.ID(), vm.Controller(), docID))
	}

	pkBase58 := vm.PublicKeyBase58()
	if pkBase58 == "" {
		return verror.New(verror.ValidationError, fmt.Sprintf("verification method %q is missing publicKeyBase58", vm.ID()))
	}

	pubKey, err := base58.Decode(pkBase58)
	if err != nil {
		return verror.New(verror.ValidationError, fmt.Sprintf("verification method %q has invalid publicKeyBase58: %s", vm.ID(), err))
	}

	fp, err := fingerprint.Encode(pubKey)
	if err != nil {
		return verror.New(verror.ValidationError, fmt.Sprintf("verification method %q has invalid key: %s", vm.ID(), err))
	}

	expectedID := docID + "#" + fp
	if vm.ID() != expectedID {
		return verror.New(verror.ValidationError,
			fmt.Sprintf("verification method id %q does not equal the fragment-fingerprint of its key (expected %q)", vm.ID(), expectedID))
	}

	return nil
}

func validateServices(docID string, services []Service) *verror.Error {
	for _, svc := range services {
		if err := validateService(docID, svc); err != nil {
			return err
		}
	}

	return nil
}

func validateService(docID string, svc Service) *verror.Error {
	id := svc.ID()
	if id == "" || !strings.HasPrefix(id, docID+"#") || id == docID+"#" {
		return verror.New(verror.ValidationError, fmt.Sprintf("service id %q must be of the form <did>#<fragment>", id))
	}

	if svc.Type() == "" {
		return verror.New(verror.ValidationError, fmt.Sprintf("service %q is missing type", id))
	}

	endpoint := svc.Endpoint()
	if endpoint == "" {
		return verror.New(verror.ValidationError, fmt.Sprintf("service %q is missing serviceEndpoint", id))
	}

	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Scheme != "https" || parsed.Host == "" {
		return verror.New(verror.ValidationError, fmt.Sprintf("service %q serviceEndpoint must be an absolute https:// URL", id))
	}

	return nil
}
