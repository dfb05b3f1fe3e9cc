package journal

import (
	"context"

	"github.com/MKhiriev/go-session-keeper/models"
)

// nopJournal discards every event. Used when journaling is disabled and in
// tests that do not care about the event log.
type nopJournal struct{}

// Nop returns a [Journal] that records nothing and reads back nothing.
func Nop() Journal {
	return nopJournal{}
}

func (nopJournal) Record(context.Context, string, string, string) error {
	return nil
}

func (nopJournal) RecentEvents(context.Context, string, uint64) ([]models.SessionEvent, error) {
	return nil, nil
}

func (nopJournal) Close() error {
	return nil
}
