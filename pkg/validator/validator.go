/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package validator is the orchestrator (C8): the single exported
// entry point that composes DID binding, schema, proof, patch, and
// service-endpoint policy checks into one validate call, mirroring the
// dispatch-by-operation-type shape of the teacher's
// pkg/processor.OperationProcessor.applyOperation, generalized from
// four Sidetree operation kinds to this method's two.
package validator

import (
	"context"
	"fmt"

	"github.com/veres-one/validator/pkg/config"
	"github.com/veres-one/validator/pkg/did"
	"github.com/veres-one/validator/pkg/document"
	internallog "github.com/veres-one/validator/pkg/internal/log"
	"github.com/veres-one/validator/pkg/ledger"
	"github.com/veres-one/validator/pkg/log"
	"github.com/veres-one/validator/pkg/loader"
	"github.com/veres-one/validator/pkg/operation"
	"github.com/veres-one/validator/pkg/patch"
	"github.com/veres-one/validator/pkg/policy"
	"github.com/veres-one/validator/pkg/proof"
	"github.com/veres-one/validator/pkg/verror"
)

var logger = log.New("validator")

// Input bundles everything one validate call needs.
type Input struct {
	// BasisBlockHeight is the ledger height the caller's LedgerNode is
	// scoped to. The validator never requests a different height.
	BasisBlockHeight uint64

	// LedgerNode is the read-only ledger view operations are checked
	// against.
	LedgerNode ledger.View

	// ValidatorInput is the signed operation to validate.
	ValidatorInput *operation.Operation

	// ValidatorConfig carries the action allowlist and, optionally, the
	// DID of a service-endpoint parameter set.
	ValidatorConfig config.Validator

	// Environment selects the cryptonym DID pattern (prod vs test).
	Environment config.Environment
}

// Result is the outcome of a validate call: never an error return, so
// the boundary contract of spec.md §7 holds (no throw across the API).
type Result struct {
	Valid bool
	Error *verror.Error
}

// Validate runs the full C2-C7 pipeline against in.ValidatorInput,
// dispatching on its operation kind. ctx is checked before dispatch and
// again after duplicate/target resolution; the document loader's calls
// themselves take no ctx. A canceled or deadline-exceeded ctx surfaces
// as TimeoutError.
func Validate(ctx context.Context, in Input) Result {
	if err := ctx.Err(); err != nil {
		return failure(verror.New(verror.TimeoutError, err.Error()))
	}

	kind, err := in.ValidatorInput.Kind()
	if err != nil {
		return failure(verror.New(verror.ValidationError, err.Error()))
	}

	l := loader.New(in.LedgerNode)

	logger.Infow("validating operation", internallog.WithOperationType(in.ValidatorInput.Type))

	switch kind {
	case config.OperationCreate:
		return validateCreate(ctx, l, in)
	case config.OperationUpdate:
		return validateUpdate(ctx, l, in)
	default:
		return failure(verror.New(verror.ValidationError, fmt.Sprintf("unsupported operation kind: %s", kind)))
	}
}

func validateCreate(ctx context.Context, l *loader.Loader, in Input) Result {
	record := in.ValidatorInput.Record
	if record == nil {
		return failure(verror.New(verror.ValidationError, "create operation is missing record"))
	}

	if verr := document.Validate(record); verr != nil {
		return failure(verr)
	}

	didValue, err := did.Parse(record.ID(), in.Environment)
	if err != nil {
		return failure(verror.New(verror.ValidationError, err.Error()))
	}

	invocationKey, verr := firstInvocationKey(record)
	if verr != nil {
		return failure(verr)
	}

	if err := did.Bind(record.ID(), didValue, invocationKey); err != nil {
		return failure(verror.New(verror.ValidationError, err.Error()))
	}

	if _, err := in.LedgerNode.GetRecord(record.ID()); err == nil {
		return failure(verror.New(verror.DuplicateError, fmt.Sprintf("record already exists: %s", record.ID())))
	} else if err != ledger.ErrNotFound {
		return failure(verror.Wrap(verror.ValidationError, "failed to check for duplicate record", err))
	}

	if err := ctx.Err(); err != nil {
		return failure(verror.New(verror.TimeoutError, err.Error()))
	}

	if verr := proof.Verify(l, in.ValidatorInput, record.ID(), config.OperationCreate, in.ValidatorConfig, record); verr != nil {
		return failure(verr)
	}

	if verr := policy.Check(l, in.ValidatorConfig, record); verr != nil {
		return failure(verr)
	}

	return success()
}

func validateUpdate(ctx context.Context, l *loader.Loader, in Input) Result {
	recordPatch := in.ValidatorInput.RecordPatch
	if recordPatch == nil {
		return failure(verror.New(verror.ValidationError, "update operation is missing recordPatch"))
	}

	current, err := l.Load(recordPatch.Target)
	if err != nil {
		if err == ledger.ErrNotFound {
			return failure(verror.New(verror.NotFoundError, fmt.Sprintf("target not found: %s", recordPatch.Target)))
		}

		return failure(verror.Wrap(verror.NotFoundError, "failed to load target", err))
	}

	if err := ctx.Err(); err != nil {
		return failure(verror.New(verror.TimeoutError, err.Error()))
	}

	if verr := proof.Verify(l, in.ValidatorInput, recordPatch.Target, config.OperationUpdate, in.ValidatorConfig, current); verr != nil {
		return failure(verr)
	}

	next, verr := patch.Apply(current, recordPatch.Sequence, recordPatch.Patch, in.Environment)
	if verr != nil {
		return failure(verr)
	}

	if verr := policy.Check(l, in.ValidatorConfig, next); verr != nil {
		return failure(verr)
	}

	return success()
}

func firstInvocationKey(doc document.DIDDocument) (did.InvocationKey, *verror.Error) {
	methods := doc.CapabilityInvocation()
	if len(methods) == 0 {
		return did.InvocationKey{}, verror.New(verror.ValidationError, "document has no capabilityInvocation key")
	}

	return did.InvocationKey{ID: methods[0].ID(), PublicKeyBase58: methods[0].PublicKeyBase58()}, nil
}

func success() Result {
	return Result{Valid: true}
}

func failure(err *verror.Error) Result {
	logger.Errorw("validation failed", internallog.WithError(err))

	return Result{Valid: false, Error: err}
}
