// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package session

import (
	"context"

	"github.com/MKhiriev/go-session-keeper/internal/steam"
	"github.com/MKhiriev/go-session-keeper/models"
)

// buildActivities turns an account's ordered selector list into the
// activity set submitted to the remote service.
//
// Policy, explicit and documented rather than incidental: at most one
// display-label selector is honored — the first encountered — and any
// further labels are dropped with a warning. Numeric selectors pass through
// as application identifiers, each enriched best-effort with a
// human-readable name from the metadata resolver; a failed lookup leaves
// the entry unlabelled and is otherwise ignored.
func (m *Manager) buildActivities(ctx context.Context, account models.Account) []steam.Activity {
	out := make([]steam.Activity, 0, len(account.Activities))
	labelSeen := false

	for _, selector := range account.Activities {
		if selector.IsLabel() {
			if labelSeen {
				m.logger.Warn().
					Str("account", account.Name).
					Str("label", selector.Label).
					Msg("extra display label dropped, only the first one is honored")
				continue
			}
			labelSeen = true
			out = append(out, steam.Activity{Name: selector.Label})
			continue
		}

		activity := steam.Activity{AppID: selector.AppID}
		if name, ok := m.resolver.AppName(ctx, selector.AppID); ok {
			activity.Name = name
		}
		out = append(out, activity)
	}

	return out
}

// submitActivities pushes the account's activity set to the connection.
// Re-submission (after an edit or an unblock notice) replaces the previous
// set atomically from the remote service's point of view.
func (m *Manager) submitActivities(ctx context.Context, h *Handle) {
	activities := m.buildActivities(ctx, h.Account)
	h.Conn.SetActivities(activities)
	m.logger.Debug().
		Str("account", h.Account.Name).
		Int("count", len(activities)).
		Msg("activities submitted")
}
