package payterm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMinor(t *testing.T) {
	assert.Equal(t, "25.50", FormatMinor(2550))
	assert.Equal(t, "0.00", FormatMinor(0))
	assert.Equal(t, "0.05", FormatMinor(5))
	assert.Equal(t, "100.00", FormatMinor(10000))
	assert.Equal(t, "1.99", FormatMinor(199))
}

func TestParseMinor(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"25.50", 2550},
		{"25.5", 2550},
		{"25", 2500},
		{"0.01", 1},
		{".50", 50},
		{"", 0},
		{" 100.00 ", 10000},
	}
	for _, tc := range cases {
		got, err := ParseMinor(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, in := range []string{"abc", "1.999", "25.509", "0.123"} {
		_, err := ParseMinor(in)
		assert.Error(t, err, in)
	}
}

func TestParseMinorRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, 99, 100, 2550, 999999} {
		got, err := ParseMinor(FormatMinor(v))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestAmountValidate(t *testing.T) {
	assert.NoError(t, Amount{Purchase: 1000}.Validate())
	assert.NoError(t, Amount{Purchase: 1000, Authorize: 1000}.Validate())
	assert.NoError(t, Amount{Purchase: 1000, Authorize: 1500}.Validate())

	assert.ErrorIs(t, Amount{Purchase: -1}.Validate(), ErrNegativeAmount)
	assert.ErrorIs(t, Amount{Purchase: 1000, Authorize: 500}.Validate(), ErrAuthorizeTooSmall)
}
