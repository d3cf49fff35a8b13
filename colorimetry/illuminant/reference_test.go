package illuminant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectFamily(t *testing.T) {
	assert.Equal(t, FamilyBlackbody, SelectFamily(3999.99, DefaultBlackbodyThreshold))
	assert.Equal(t, FamilyDaylight, SelectFamily(4000, DefaultBlackbodyThreshold))
	assert.Equal(t, FamilyDaylight, SelectFamily(30000, DefaultBlackbodyThreshold))
}

func TestPresets(t *testing.T) {
	assert.Equal(t, []string{"A", "D50", "D55", "D65", "D75"}, PresetNames())

	d65, ok := LookupPreset("d65")
	require.True(t, ok)
	assert.Equal(t, FamilyDaylight, d65.Family)
	assert.InDelta(t, 6503.616, d65.CCT, 1e-3)

	a, ok := LookupPreset(" A ")
	require.True(t, ok)
	assert.Equal(t, FamilyBlackbody, a.Family)
	assert.Equal(t, 2855.542, a.CCT)

	_, ok = LookupPreset("F2")
	assert.False(t, ok)

	assert.InDelta(t, 1.000556, DaylightCorrection, 1e-6)
}

func TestParseFamily(t *testing.T) {
	f, err := ParseFamily(" Daylight")
	require.NoError(t, err)
	assert.Equal(t, FamilyDaylight, f)

	_, err = ParseFamily("fluorescent")
	assert.Error(t, err)
}

func TestSources(t *testing.T) {
	sources := StandardSources()

	bb, err := sources.For(FamilyBlackbody)
	require.NoError(t, err)
	assert.Equal(t, FamilyBlackbody, bb.Family())

	dl, err := sources.For(FamilyDaylight)
	require.NoError(t, err)
	assert.Equal(t, FamilyDaylight, dl.Family())

	_, err = Sources{}.For(FamilyDaylight)
	assert.Error(t, err)
	_, err = sources.For("led")
	assert.Error(t, err)
}
