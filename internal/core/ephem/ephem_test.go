package ephem

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aspectscan/internal/core/angle"
	"aspectscan/internal/core/catalog"
)

var tropical = Frame{}

func TestMeanElements_SunAndMoonAtJ2000(t *testing.T) {
	m := NewMeanElements()
	got, err := m.Positions(context.Background(), []catalog.Body{catalog.Sun, catalog.Moon, catalog.NorthNode, catalog.SouthNode}, J2000, tropical)
	require.NoError(t, err)

	assert.InDelta(t, 280.46, got[catalog.Sun].Longitude, 0.01)
	assert.InDelta(t, 218.32, got[catalog.Moon].Longitude, 0.01)
	assert.InDelta(t, 13.176, got[catalog.Moon].Speed, 1e-3)
	assert.InDelta(t, 180, angle.Separation(got[catalog.NorthNode].Longitude, got[catalog.SouthNode].Longitude), 1e-9)
	assert.Less(t, got[catalog.NorthNode].Speed, 0.0)
	assert.InDelta(t, -23.0, got[catalog.Sun].Declination, 0.5)
}

func TestMeanElements_SpeedMatchesDifference(t *testing.T) {
	m := NewMeanElements()
	ctx := context.Background()
	h := time.Hour
	for _, b := range []catalog.Body{catalog.Mercury, catalog.Mars, catalog.Jupiter, catalog.Pluto} {
		for _, at := range []time.Time{J2000, J2000.AddDate(0, 5, 3), J2000.AddDate(7, 1, 0)} {
			mid, err := m.Positions(ctx, []catalog.Body{b}, at, tropical)
			require.NoError(t, err)
			lo, _ := m.Positions(ctx, []catalog.Body{b}, at.Add(-h), tropical)
			hi, _ := m.Positions(ctx, []catalog.Body{b}, at.Add(h), tropical)
			fd := angle.WrapDelta(hi[b].Longitude, lo[b].Longitude) / (2.0 / 24)
			assert.InDelta(t, fd, mid[b].Speed, 1e-4, "%s at %s", b, at)
		}
	}
}

func TestMeanElements_MarsRetrogrades(t *testing.T) {
	m := NewMeanElements()
	ctx := context.Background()
	var sawRetro, sawDirect bool
	for d := 0; d < 800; d += 5 {
		p, err := m.Positions(ctx, []catalog.Body{catalog.Mars}, J2000.AddDate(0, 0, d), tropical)
		require.NoError(t, err)
		if p[catalog.Mars].Speed < 0 {
			sawRetro = true
		} else {
			sawDirect = true
		}
	}
	assert.True(t, sawRetro)
	assert.True(t, sawDirect)
}

func TestMeanElements_FramesAndSupport(t *testing.T) {
	m := NewMeanElements()
	ctx := context.Background()
	assert.False(t, m.Supports(catalog.Ascendant, tropical))
	assert.False(t, m.Supports(catalog.Moon, Frame{Center: Heliocentric}))
	assert.True(t, m.Supports(catalog.Saturn, Frame{Center: Heliocentric}))

	_, err := m.Positions(ctx, []catalog.Body{catalog.Ascendant}, J2000, tropical)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOracleUnavailable))

	sid := Frame{Zodiac: Sidereal, Ayanamsa: LahiriJ2000}
	require.NoError(t, sid.Validate())
	trop, _ := m.Positions(ctx, []catalog.Body{catalog.Sun}, J2000, tropical)
	side, _ := m.Positions(ctx, []catalog.Body{catalog.Sun}, J2000, sid)
	assert.InDelta(t, LahiriJ2000, angle.WrapDelta(trop[catalog.Sun].Longitude, side[catalog.Sun].Longitude), 1e-9)

	assert.Error(t, Frame{Zodiac: Sidereal}.Validate())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = m.Positions(cancelled, []catalog.Body{catalog.Sun}, J2000, tropical)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithFixed(t *testing.T) {
	o := WithFixed(NewMeanElements(), map[catalog.Body]float64{catalog.Ascendant: 370})
	got, err := o.Positions(context.Background(), []catalog.Body{catalog.Ascendant, catalog.Sun}, J2000, tropical)
	require.NoError(t, err)
	assert.InDelta(t, 10, got[catalog.Ascendant].Longitude, 1e-12)
	assert.Equal(t, 0.0, got[catalog.Ascendant].Speed)
	assert.Contains(t, got, catalog.Sun)
	assert.True(t, Supports(o, catalog.Ascendant, tropical))
	assert.False(t, Supports(o, catalog.Midheaven, tropical))

	only := WithFixed(nil, map[catalog.Body]float64{catalog.Midheaven: 90})
	_, err = only.Positions(context.Background(), []catalog.Body{catalog.Sun}, J2000, tropical)
	assert.ErrorIs(t, err, ErrOracleUnavailable)
}

func TestMemo_ReadsThroughAndSkipsFailures(t *testing.T) {
	var calls int
	var mu sync.Mutex
	fail := true
	inner := Func(func(_ context.Context, bodies []catalog.Body, tm time.Time, _ Frame) (map[catalog.Body]Position, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if fail {
			fail = false
			return nil, Unavailable(bodies[0], tm, errors.New("boom"))
		}
		return map[catalog.Body]Position{catalog.Sun: {Longitude: 1, SpeedKnown: true}}, nil
	})
	cache := NewMapCache(0)
	m := Memo(inner, cache)
	ctx := context.Background()

	_, err := m.Positions(ctx, []catalog.Body{catalog.Sun}, J2000, tropical)
	require.Error(t, err)
	for i := 0; i < 3; i++ {
		got, err := m.Positions(ctx, []catalog.Body{catalog.Sun}, J2000, tropical)
		require.NoError(t, err)
		got[catalog.Sun] = Position{Longitude: 99}
	}
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, cache.Len())
	hits, misses := m.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(2), misses)

	again, _ := m.Positions(ctx, []catalog.Body{catalog.Sun}, J2000, tropical)
	assert.Equal(t, 1.0, again[catalog.Sun].Longitude, "cached value is isolated from callers")
}

func TestMapCache_Bounded(t *testing.T) {
	c := NewMapCache(2)
	for i := 0; i < 3; i++ {
		c.Put(Key{UnixNano: int64(i)}, nil)
	}
	assert.Equal(t, 1, c.Len())
}

func TestScripted(t *testing.T) {
	s := Scripted{
		Epoch: J2000,
		Tracks: map[catalog.Body]Track{
			catalog.Mars:  Linear(359, 1),
			catalog.Venus: Swing(100, 2, 40),
		},
	}
	got, err := s.Positions(context.Background(), []catalog.Body{catalog.Mars, catalog.Venus}, J2000.Add(36*time.Hour), tropical)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got[catalog.Mars].Longitude, 1e-9)
	assert.InDelta(t, 1, got[catalog.Mars].Speed, 1e-12)
	assert.Greater(t, got[catalog.Venus].Speed, 0.0)

	_, err = s.Positions(context.Background(), []catalog.Body{catalog.Sun}, J2000, tropical)
	assert.ErrorIs(t, err, ErrOracleUnavailable)
}
