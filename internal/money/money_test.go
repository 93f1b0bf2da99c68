package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Amount
	}{
		{"1.0", 10000},
		{"1", 10000},
		{"0.0001", 1},
		{"1.5", 15000},
		{" 2.25 ", 22500},
		{"-0.5", -5000},
		{"0", 0},
		{"10.12345", 101234}, // extra precision truncated
		{"-10.12345", -101234},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		require.NoError(t, err, "input %q", c.in)
		assert.Equal(t, c.want, got, "input %q", c.in)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "1.2.3", "1,5"} {
		_, err := Parse(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestParseOverflow(t *testing.T) {
	_, err := Parse("99999999999999999999.0")
	require.ErrorIs(t, err, ErrRange)
}

func TestString(t *testing.T) {
	cases := []struct {
		in   Amount
		want string
	}{
		{10000, "1"},
		{15000, "1.5"},
		{1, "0.0001"},
		{-5000, "-0.5"},
		{0, "0"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.in.String())
	}
}

func TestArithmeticIsExact(t *testing.T) {
	// 0.1 + 0.2 drifts in floats; it must not drift here.
	sum := MustParse("0.1").Add(MustParse("0.2"))
	assert.Equal(t, MustParse("0.3"), sum)

	total := Amount(0)
	for i := 0; i < 1000; i++ {
		total = total.Add(MustParse("0.1"))
	}
	assert.Equal(t, MustParse("100"), total)
}
