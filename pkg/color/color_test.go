package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHex(t *testing.T) {
	c, err := Hex("#ff8400")
	require.NoError(t, err)
	r, g, b := c.RGB255()
	assert.Equal(t, [3]uint8{255, 132, 0}, [3]uint8{r, g, b})
	assert.Equal(t, 1.0, c.A)

	short, err := Hex("fff")
	require.NoError(t, err)
	assert.Equal(t, "#ffffff", short.Hex())

	for _, bad := range []string{"", "#ff84zz", "#ff84000", "red"} {
		_, err := Hex(bad)
		assert.Error(t, err, bad)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"#ff8000", "rgba(255, 128, 0, 1)", true},
		{" rgba(1, 2, 3, 0.5) ", "rgba(1, 2, 3, 0.5)", true},
		{"rgb(1,2,3)", "rgba(1, 2, 3, 1)", true},
		{"red", "", false},
		{"rgba(1, 2)", "", false},
		{"rgb(a, b, c)", "", false},
	}
	for _, tt := range tests {
		c, ok := Parse(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if ok {
			assert.Equal(t, tt.want, c.String(), tt.in)
		}
	}
}

func TestBlend(t *testing.T) {
	from, _ := Parse("#000000")
	to, _ := Parse("rgba(255, 0, 0, 0.5)")

	assert.Equal(t, "rgba(0, 0, 0, 1)", from.Blend(to, 0).String())
	assert.Equal(t, "rgba(128, 0, 0, 0.75)", from.Blend(to, 0.5).String())
	assert.Equal(t, "rgba(255, 0, 0, 0.5)", from.Blend(to, 1).String())
}

func TestStringClamps(t *testing.T) {
	c, ok := Parse("rgba(300, -5, 10, 2)")
	require.True(t, ok)
	assert.Equal(t, "rgba(255, 0, 10, 1)", c.String())
}

func TestRGBA(t *testing.T) {
	tests := []struct {
		hex   string
		alpha float64
		want  string
	}{
		{"#ff8400", 0.2, "rgba(255, 132, 0, 0.2)"},
		{"ff8400", 1, "rgba(255, 132, 0, 1)"},
		{"#000000", 3, "rgba(0, 0, 0, 1)"},
		{"", 0.5, ""},
		{"red", 0.5, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RGBA(tt.hex, tt.alpha), "%s %v", tt.hex, tt.alpha)
	}
}
