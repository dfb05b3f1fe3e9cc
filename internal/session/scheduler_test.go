package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-session-keeper/internal/logger"
	"github.com/MKhiriev/go-session-keeper/internal/metrics"
	"github.com/MKhiriev/go-session-keeper/models"
)

func newTestScheduler(delay time.Duration, vlt *memVault, onFire func(models.Account)) *Scheduler {
	if onFire == nil {
		onFire = func(models.Account) {}
	}
	return NewScheduler(delay, vlt, metrics.New(nil), logger.Nop(), onFire)
}

func TestScheduler_ScheduleIsIdempotent(t *testing.T) {
	s := newTestScheduler(time.Hour, newMemVault(), nil)
	account := models.Account{Name: "alice", GuardMode: models.GuardNone}

	assert.True(t, s.Schedule(account))
	// Второе уведомление об отключении не должно взводить второй таймер.
	assert.False(t, s.Schedule(account))
	assert.Equal(t, []string{"alice"}, s.Pending())
}

func TestScheduler_IneligibleAccountNotScheduled(t *testing.T) {
	s := newTestScheduler(time.Hour, newMemVault(), nil)

	// Mobile guard, no shared secret, no saved token: the next logon needs a
	// human, so no timer.
	account := models.Account{Name: "bob", GuardMode: models.GuardMobile}

	assert.False(t, s.Schedule(account))
	assert.Empty(t, s.Pending())
}

func TestScheduler_SavedTokenMakesAccountEligible(t *testing.T) {
	vlt := newMemVault()
	require.NoError(t, vlt.SaveToken("bob", "opaque-token"))
	s := newTestScheduler(time.Hour, vlt, nil)

	account := models.Account{Name: "bob", GuardMode: models.GuardMobile}

	assert.True(t, s.Schedule(account))
}

func TestScheduler_SharedSecretMakesAccountEligible(t *testing.T) {
	s := newTestScheduler(time.Hour, newMemVault(), nil)

	account := models.Account{Name: "carol", GuardMode: models.GuardSecret, SharedSecret: "c2VjcmV0"}

	assert.True(t, s.Schedule(account))
}

func TestScheduler_CancelDisarmsTimer(t *testing.T) {
	fired := make(chan models.Account, 1)
	s := newTestScheduler(20*time.Millisecond, newMemVault(), func(a models.Account) { fired <- a })

	require.True(t, s.Schedule(models.Account{Name: "alice", GuardMode: models.GuardNone}))
	s.Cancel("alice")

	assert.Empty(t, s.Pending())
	select {
	case <-fired:
		t.Fatal("cancelled timer must not fire")
	case <-time.After(80 * time.Millisecond):
	}
}

func TestScheduler_CancelUnknownIsNoOp(t *testing.T) {
	s := newTestScheduler(time.Hour, newMemVault(), nil)
	s.Cancel("nobody")
}

func TestScheduler_FireDeliversAccountSnapshot(t *testing.T) {
	fired := make(chan models.Account, 1)
	s := newTestScheduler(10*time.Millisecond, newMemVault(), func(a models.Account) { fired <- a })

	account := models.Account{Name: "alice", GuardMode: models.GuardNone, OwnerID: 42}
	require.True(t, s.Schedule(account))

	select {
	case got := <-fired:
		assert.Equal(t, account, got)
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
	assert.Empty(t, s.Pending())
}

func TestScheduler_ReschedulePossibleAfterFire(t *testing.T) {
	fired := make(chan models.Account, 2)
	s := newTestScheduler(10*time.Millisecond, newMemVault(), func(a models.Account) { fired <- a })

	account := models.Account{Name: "alice", GuardMode: models.GuardNone}
	require.True(t, s.Schedule(account))

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}

	// The pending record is cleared before onFire runs, so a retry that
	// fails transiently can arm the next timer immediately.
	assert.True(t, s.Schedule(account))
}
