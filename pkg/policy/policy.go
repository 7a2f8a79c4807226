/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package policy implements the service-endpoint allowlist (C7):
// optional, ledger-resident configuration restricting which origins a
// DID document's service descriptors may point at.
package policy

import (
	"fmt"
	"net/url"

	"github.com/veres-one/validator/pkg/config"
	"github.com/veres-one/validator/pkg/document"
	internallog "github.com/veres-one/validator/pkg/internal/log"
	"github.com/veres-one/validator/pkg/ledger"
	"github.com/veres-one/validator/pkg/log"
	"github.com/veres-one/validator/pkg/loader"
	"github.com/veres-one/validator/pkg/verror"
)

// AllowedServiceBaseURLProperty is the property key on a
// ValidatorParameterSet document carrying the allowlist.
const AllowedServiceBaseURLProperty = "allowedServiceBaseUrl"

var logger = log.New("policy")

// Check implements spec.md §4.7: if cfg.ValidatorParameterSet is set,
// every service descriptor in doc must have a serviceEndpoint whose
// scheme+host(+port) matches at least one of the parameter set's
// allowedServiceBaseUrl entries. With no parameter set configured,
// service descriptors are admitted unconditionally (permissive mode).
func Check(l *loader.Loader, cfg config.Validator, doc document.DIDDocument) *verror.Error {
	services := doc.Service()
	if len(services) == 0 {
		return nil
	}

	if cfg.ValidatorParameterSet == "" {
		logger.Debugw("no validatorParameterSet configured, admitting service descriptors permissively",
			internallog.WithTargetDID(doc.ID()))

		return nil
	}

	allowed, verr := loadAllowedBaseURLs(l, cfg.ValidatorParameterSet)
	if verr != nil {
		return verr
	}

	for _, svc := range services {
		if !matchesAllowedBase(svc.Endpoint(), allowed) {
			return verror.New(verror.ValidationError,
				fmt.Sprintf("service endpoint %q is not under an allowed base url", svc.Endpoint())).
				WithDetails(map[string]interface{}{AllowedServiceBaseURLProperty: allowed})
		}
	}

	return nil
}

func loadAllowedBaseURLs(l *loader.Loader, parameterSetDID string) ([]string, *verror.Error) {
	doc, err := l.Load(parameterSetDID)
	if err != nil {
		if err == ledger.ErrNotFound {
			return nil, verror.New(verror.InvalidStateError,
				fmt.Sprintf("validatorParameterSet not found: %s", parameterSetDID))
		}

		return nil, verror.Wrap(verror.InvalidStateError,
			fmt.Sprintf("failed to load validatorParameterSet: %s", parameterSetDID), err)
	}

	entries, ok := doc[AllowedServiceBaseURLProperty].([]interface{})
	if !ok {
		return nil, verror.New(verror.InvalidStateError,
			fmt.Sprintf("validatorParameterSet %s is missing %s", parameterSetDID, AllowedServiceBaseURLProperty))
	}

	allowed := make([]string, 0, len(entries))

	for _, e := range entries {
		if s, ok := e.(string); ok {
			allowed = append(allowed, s)
		}
	}

	return allowed, nil
}

// matchesAllowedBase reports whether endpoint's scheme+host(+port)
// exactly matches at least one allowed base URL's scheme+host(+port),
// the way the teacher's document.validateServiceEndpoint parses
// endpoints with net/url, generalized from "is it a well-formed URI"
// to "is it a well-formed URI under an allowed origin".
func matchesAllowedBase(endpoint string, allowed []string) bool {
	endpointURL, err := url.Parse(endpoint)
	if err != nil {
		return false
	}

	for _, base := range allowed {
		baseURL, err := url.Parse(base)
		if err != nil {
			continue
		}

		if origin(endpointURL) == origin(baseURL) {
			return true
		}
	}

	return false
}

func origin(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}
