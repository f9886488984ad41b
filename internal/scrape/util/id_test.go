package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIntID(t *testing.T) {
	cases := []struct {
		in   string
		want *int
	}{
		{"905", intp(905)},
		{"1.234", intp(1234)},
		{"12.345.678 pelamar", intp(12345678)},
		{"Ditemukan 2.847 lowongan", intp(2847)},
		{"no numbers here", nil},
		{"", nil},
	}
	for _, c := range cases {
		got := ParseIntID(c.in)
		if c.want == nil {
			assert.Nil(t, got, "input %q", c.in)
			continue
		}
		require.NotNil(t, got, "input %q", c.in)
		assert.Equal(t, *c.want, *got, "input %q", c.in)
	}
}

func TestDateIDToISO(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"3 Oktober 2025", "2025-10-03"},
		{"31 Des 2024", "2024-12-31"},
		{"1 Januari 2026", "2026-01-01"},
		{"17 Agustus 2025", "2025-08-17"},
		{"  5 Mei 2025 ", "2025-05-05"},
		{"3 October 2025", ""},  // English month
		{"Oktober 2025", ""},    // missing day
		{"32 Oktober 2025", ""}, // impossible day
		{"3 Oktober 25", ""},    // two-digit year
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DateIDToISO(c.in), "input %q", c.in)
	}
}

func TestParseApplicantsQuota(t *testing.T) {
	a, q := ParseApplicantsQuota("905 pelamar | 1 kebutuhan")
	require.NotNil(t, a)
	require.NotNil(t, q)
	assert.Equal(t, 905, *a)
	assert.Equal(t, 1, *q)

	a, q = ParseApplicantsQuota("1.234 Pelamar")
	require.NotNil(t, a)
	assert.Equal(t, 1234, *a)
	assert.Nil(t, q)

	a, q = ParseApplicantsQuota("Kuota: 10")
	assert.Nil(t, a)
	assert.Nil(t, q)

	a, q = ParseApplicantsQuota("10 kuota")
	assert.Nil(t, a)
	require.NotNil(t, q)
	assert.Equal(t, 10, *q)

	a, q = ParseApplicantsQuota("")
	assert.Nil(t, a)
	assert.Nil(t, q)
}

func TestParseTotalListings(t *testing.T) {
	got := ParseTotalListings("some header Ditemukan 2.847 lowongan magang")
	require.NotNil(t, got)
	assert.Equal(t, 2847, *got)

	assert.Nil(t, ParseTotalListings("Ditemukan banyak lowongan"))
	assert.Nil(t, ParseTotalListings(""))
}

func intp(v int) *int { return &v }
