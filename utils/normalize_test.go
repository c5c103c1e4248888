package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripDiacritics(t *testing.T) {
	assert.Equal(t, "Nguyen", StripDiacritics("Nguyễn"))
	assert.Equal(t, "Francois Hollande", StripDiacritics("François Hollande"))
	assert.Equal(t, "plain ascii", StripDiacritics("plain ascii"))
}

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  Ann   Chen  ", "ann chen"},
		{"NGUYỄN Văn A", "nguyen van a"},
		{"José\tGarcía", "jose garcia"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeName(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "a study of x", NormalizeTitle("  A Study   of X "))
	// titles keep their diacritics, only case and spacing are normalized
	assert.Equal(t, "étude générale", NormalizeTitle("Étude  Générale"))
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Labour Law", "labour-law"},
		{"Minimum Wage & Employment", "minimum-wage-employment"},
		{"Nguyễn Văn A", "nguyen-van-a"},
		{"  --weird--  input!!  ", "weird-input"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}
