// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks account records before they reach the session
// manager or the vault.
package validators

import "github.com/MKhiriev/go-session-keeper/models"

// Validator validates one account record.
type Validator interface {
	Validate(account models.Account) error
}
