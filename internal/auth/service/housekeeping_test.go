package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/branchauth/internal/auth/service"
	"github.com/aussiebroadwan/branchauth/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestHousekeepingClearsExpiredHashes(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	m := newTestManager(t, st)
	reg := mustRegister(t, m, "a@x.com")

	hk := service.NewHousekeepingService(st, slogx.Discard(), time.Hour)

	// Nothing has expired yet.
	require.Zero(t, hk.Cleanup(ctx))

	before := testutil.ToFloat64(service.RefreshHashesCleared)
	hk.Now = func() time.Time { return time.Now().Add(testConfig.RefreshTTL + time.Hour) }
	require.EqualValues(t, 1, hk.Cleanup(ctx))
	require.Equal(t, before+1, testutil.ToFloat64(service.RefreshHashesCleared))

	stored, err := st.Users().GetUserByID(ctx, reg.User.ID)
	require.NoError(t, err)
	require.False(t, stored.HasSession())
}

func TestHousekeepingStartStop(t *testing.T) {
	st := newTestStore(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hk := service.NewHousekeepingService(st, slogx.Discard(), 10*time.Millisecond)
	hk.Start()
	time.Sleep(30 * time.Millisecond)
	hk.Stop()
}

func TestHousekeepingDefaultInterval(t *testing.T) {
	hk := service.NewHousekeepingService(nil, slogx.Discard(), 0)
	require.Equal(t, time.Hour, hk.Interval)
}
