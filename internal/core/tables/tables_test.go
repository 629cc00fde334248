package tables

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aspectscan/internal/core/catalog"
)

func TestLoadEmbedded(t *testing.T) {
	tb, err := Load()
	require.NoError(t, err)
	assert.Same(t, tb, MustLoad())

	assert.Equal(t, 1, tb.Version)
	for _, b := range catalog.AllBodies() {
		assert.Greater(t, tb.BodyWeight(b), 0.0, b.String())
	}
	assert.InDelta(t, 0.85, tb.AspectWeight(catalog.Named(catalog.Trine)), 1e-12)
	// harmonic angles fall back to the family weight
	assert.InDelta(t, tb.Aspects[catalog.FamilyHarmonic], tb.AspectWeight(catalog.HarmonicAngle(7, 2)), 1e-12)
}

func TestDignityPrecedence(t *testing.T) {
	tb := MustLoad()

	assert.Equal(t, Domicile, tb.DignityOf(catalog.Sun, catalog.Leo))
	assert.Equal(t, Exaltation, tb.DignityOf(catalog.Sun, catalog.Aries))
	// mercury is both domicile and exalted in virgo; domicile wins
	assert.Equal(t, Domicile, tb.DignityOf(catalog.Mercury, catalog.Virgo))
	// detriment and fall in pisces; detriment wins
	assert.Equal(t, Detriment, tb.DignityOf(catalog.Mercury, catalog.Pisces))
	assert.Equal(t, Peregrine, tb.DignityOf(catalog.Ascendant, catalog.Leo))

	assert.InDelta(t, tb.Modifiers.Fall, tb.DignityFactor(Fall), 1e-12)
	assert.InDelta(t, 1.0, tb.DignityFactor(Peregrine), 1e-12)
	assert.Equal(t, "exaltation", Exaltation.String())
	assert.Equal(t, "dignity(9)", Dignity(9).String())
}

func TestPointWeightAverages(t *testing.T) {
	tb := MustLoad()
	want := (tb.BodyWeight(catalog.Sun) + tb.BodyWeight(catalog.Mars)) / 2
	assert.InDelta(t, want, tb.PointWeight(catalog.Midpoint(catalog.Sun, catalog.Mars)), 1e-12)
	assert.InDelta(t, tb.BodyWeight(catalog.Moon), tb.PointWeight(catalog.Single(catalog.Moon)), 1e-12)
}

func TestStationary(t *testing.T) {
	tb := MustLoad()
	mean := tb.Bodies[catalog.Mars].MeanSpeed

	assert.True(t, tb.Stationary(catalog.Mars, 0))
	assert.True(t, tb.Stationary(catalog.Mars, -0.05*mean))
	assert.False(t, tb.Stationary(catalog.Mars, mean))
	// angles have no mean motion and never station
	assert.False(t, tb.Stationary(catalog.Ascendant, 0))
}

func TestParseRejects(t *testing.T) {
	cases := map[string]struct {
		doc  string
		want string
	}{
		"yaml":    {doc: "version: [", want: "parse"},
		"version": {doc: "version: 2", want: "unsupported version"},
		"body":    {doc: "version: 1\nbodies:\n  vulcan: { weight: 1, mean_speed: 1 }", want: "bodies"},
		"missing": {doc: "version: 1\nbodies:\n  sun: { weight: 1, mean_speed: 1 }", want: "missing"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestParseRejectsBadBands(t *testing.T) {
	doc := strings.Replace(string(embedded), "peak:     0.80", "peak:     0.40", 1)
	require.NotEqual(t, string(embedded), doc)

	_, err := Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bands")
}
