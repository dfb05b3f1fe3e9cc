// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"fmt"
	"regexp"

	"github.com/MKhiriev/go-session-keeper/models"
)

// namePattern restricts account names to characters that are safe as vault
// file names. The name keys the registry, the scheduler, and the on-disk
// token record, so path separators and the like must never appear in it.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

var allowedGuardModes = map[models.GuardMode]struct{}{
	models.GuardNone:   {},
	models.GuardMobile: {},
	models.GuardEmail:  {},
	models.GuardSecret: {},
}

// AccountValidator validates account records submitted by the front end or
// the admin API.
type AccountValidator struct {
}

// NewAccountValidator constructs a [Validator] for account records.
func NewAccountValidator() Validator {
	return &AccountValidator{}
}

// Validate implements [Validator].
func (v *AccountValidator) Validate(account models.Account) error {
	if !namePattern.MatchString(account.Name) {
		return fmt.Errorf("%w: name", ErrInvalidField)
	}

	if account.Password == "" {
		return fmt.Errorf("%w: password", ErrInvalidField)
	}

	if _, ok := allowedGuardModes[account.GuardMode]; !ok {
		return fmt.Errorf("%w: guard_mode %q", ErrInvalidField, account.GuardMode)
	}

	if account.GuardMode == models.GuardSecret && account.SharedSecret == "" {
		return fmt.Errorf("%w: shared_secret required for guard_mode secret", ErrInvalidField)
	}

	for _, selector := range account.Activities {
		if selector.AppID != 0 && selector.Label != "" {
			return fmt.Errorf("%w: activity selector sets both app_id and label", ErrInvalidField)
		}
		if selector.AppID == 0 && selector.Label == "" {
			return fmt.Errorf("%w: empty activity selector", ErrInvalidField)
		}
	}

	return nil
}
