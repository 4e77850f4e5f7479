package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetValueDefaultsToZero(t *testing.T) {
	m := NewMock(nil)
	assert.Equal(t, "0", m.GetValue("NoSuchVariable"))
	assert.Equal(t, float64(0), m.GetNumber("NoSuchVariable"))
}

func TestGetValueFormatsNumbers(t *testing.T) {
	m := NewMock(map[string]any{
		"DoseWeightKG": 3.2,
		"Volume":       4.0,
		"Count":        7,
		"Drug":         "aspirin",
	})
	assert.Equal(t, "3.2", m.GetValue("DoseWeightKG"))
	assert.Equal(t, "4", m.GetValue("Volume"))
	assert.Equal(t, "7", m.GetValue("Count"))
	assert.Equal(t, "aspirin", m.GetValue("Drug"))
}

func TestGetNumberParsesStrings(t *testing.T) {
	m := NewMock(map[string]any{"Rate": "12.5", "Bad": "abc"})
	assert.Equal(t, 12.5, m.GetNumber("Rate"))
	assert.Equal(t, float64(0), m.GetNumber("Bad"))
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		v         float64
		precision int
		want      string
	}{
		{12.3456, 2, "12.35"},
		{3.1000, 2, "3.1"},
		{4, 0, "4"},
		{4, 3, "4"},
		{0.5, 1, "0.5"},
		{-2.50, 2, "-2.5"},
		{1.005, -1, "1"},
	}
	for _, tc := range cases {
		if got := FormatNumber(tc.v, tc.precision); got != tc.want {
			t.Errorf("FormatNumber(%v, %d) = %q, want %q", tc.v, tc.precision, got, tc.want)
		}
	}
}

func TestElementReadWrite(t *testing.T) {
	vars := map[string]any{"Rate": 5.0}
	m := NewMock(vars)

	el := m.El("#Rate")
	require.NotNil(t, el)
	assert.Equal(t, "5", el.Value())
	assert.Equal(t, 5.0, el.Number())

	el.SetValue(7.5)
	assert.Equal(t, "7.5", m.GetValue("Rate"))

	// Selector without '#' resolves the same variable.
	assert.Equal(t, "7.5", m.El("Rate").Value())
}

func TestPrefLookup(t *testing.T) {
	m := NewMock(nil)
	assert.Equal(t, "kg", m.Pref("weightUnit", "lb"))
	assert.Equal(t, "fallback", m.Pref("noSuchPref", "fallback"))
}

func TestStubsAreSafe(t *testing.T) {
	m := NewMock(nil)
	m.Recalculate()
	assert.Equal(t, 3.3, m.ConvertUnits(3.3, "mg", "mcg"))
}

func TestInstanceIDPerMock(t *testing.T) {
	a, b := NewMock(nil), NewMock(nil)
	require.NotEmpty(t, a.InstanceID())
	assert.Equal(t, a.InstanceID(), a.InstanceID())
	assert.NotEqual(t, a.InstanceID(), b.InstanceID())
}

func TestContextDelegates(t *testing.T) {
	m := NewMock(map[string]any{"DoseWeightKG": 3.2})
	c := NewContext(m)
	assert.Equal(t, "3.2", c.GetValue("DoseWeightKG"))
	assert.Equal(t, 3.2, c.GetNumber("DoseWeightKG"))
	assert.Equal(t, m.InstanceID(), c.InstanceID())
	assert.Equal(t, "3.14", c.Format(3.14159, 2))
}
