package sampler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aspectscan/internal/core/catalog"
	"aspectscan/internal/core/ephem"
)

var (
	epoch = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	mars  = catalog.Single(catalog.Mars)
	venus = catalog.Single(catalog.Venus)
	sun   = catalog.Single(catalog.Sun)
)

func scripted(noSpeed bool) ephem.Scripted {
	return ephem.Scripted{
		Epoch: epoch,
		Tracks: map[catalog.Body]ephem.Track{
			catalog.Mars:  ephem.Linear(359, 1.5),
			catalog.Venus: ephem.Linear(1, 0.5),
			catalog.Sun:   ephem.Linear(90, 1),
		},
		NoSpeed: noSpeed,
	}
}

func TestSample_SeparationAndRate(t *testing.T) {
	s := New(scripted(false), ephem.Frame{}, 0)
	got, err := s.Sample(context.Background(), mars, venus, epoch)
	require.NoError(t, err)
	assert.InDelta(t, -2, got.Separation, 1e-9, "wrap-safe across the seam")
	assert.InDelta(t, 1, got.Rate, 1e-12)
	assert.InDelta(t, -2, got.Residual(0), 1e-9)
	assert.InDelta(t, -92, got.Residual(90), 1e-9)
	assert.InDelta(t, 88, got.Residual(-90), 1e-9)
}

func TestSample_CentralDifferenceFallback(t *testing.T) {
	s := New(scripted(true), ephem.Frame{}, time.Hour)
	got, err := s.Sample(context.Background(), mars, venus, epoch.Add(12*time.Hour))
	require.NoError(t, err)
	assert.InDelta(t, 1.5, got.A.Speed, 1e-9)
	assert.InDelta(t, 0.5, got.B.Speed, 1e-9)
	assert.InDelta(t, 1, got.Rate, 1e-9)
}

func TestSample_Midpoint(t *testing.T) {
	s := New(scripted(false), ephem.Frame{}, 0)
	mid := catalog.Midpoint(catalog.Mars, catalog.Venus)
	got, err := s.Sample(context.Background(), mid, sun, epoch)
	require.NoError(t, err)
	assert.InDelta(t, 0, got.A.Longitude, 1e-9, "midpoint of 359 and 1 is 0, not 180")
	assert.InDelta(t, 1, got.A.Speed, 1e-12)
	assert.InDelta(t, -90, got.Separation, 1e-9)
}

func TestTimes(t *testing.T) {
	end := epoch.Add(50 * time.Hour)
	ts := Times(epoch, end, 24*time.Hour)
	require.Len(t, ts, 4)
	assert.Equal(t, epoch, ts[0])
	assert.Equal(t, end, ts[3])
	assert.Nil(t, Times(end, epoch, time.Hour))
	assert.Nil(t, Times(epoch, end, 0))
}

func TestGrid_RecordsGaps(t *testing.T) {
	o := scripted(false)
	gap := epoch.Add(48 * time.Hour)
	o.Fail = func(t time.Time) bool { return t.Equal(gap) }
	s := New(o, ephem.Frame{}, 0)

	ts := Times(epoch, epoch.Add(96*time.Hour), 24*time.Hour)
	g, err := s.Grid(context.Background(), []catalog.Point{mars, venus}, ts, 3)
	require.NoError(t, err)
	require.Len(t, g.States, 5)
	assert.True(t, g.Missing(2))
	assert.ErrorIs(t, g.Errs[2], ephem.ErrOracleUnavailable)

	smp, ok := g.Pair(1, mars, venus)
	require.True(t, ok)
	assert.InDelta(t, -1, smp.Separation, 1e-9)
	_, ok = g.Pair(2, mars, venus)
	assert.False(t, ok)
}

func TestGrid_Cancelled(t *testing.T) {
	s := New(scripted(false), ephem.Frame{}, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Grid(ctx, []catalog.Point{mars}, Times(epoch, epoch.Add(time.Hour), time.Minute), 2)
	assert.ErrorIs(t, err, context.Canceled)
}
