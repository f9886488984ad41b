package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	assert.Equal(t, "PT Maju Jaya", CleanText("  PT   Maju \n Jaya  "))
	assert.Equal(t, "a b", CleanText("a b")) // non-breaking space
	assert.Equal(t, "", CleanText("   \n\t "))
}

func TestNormalizeLocation(t *testing.T) {
	assert.Equal(t, "KAB. TANGERANG , BANTEN", NormalizeLocation("KAB. TANGERANG ,   BANTEN"))
	assert.Equal(t, "KOTA BANDUNG , JAWA BARAT", NormalizeLocation("KOTA BANDUNG,JAWA BARAT"))
	assert.Equal(t, "", NormalizeLocation("  "))
}

func TestLooksLikeLocation(t *testing.T) {
	assert.True(t, LooksLikeLocation("KAB. TANGERANG , BANTEN"))
	assert.True(t, LooksLikeLocation("KOTA SURABAYA"))
	assert.True(t, LooksLikeLocation("anything, with a comma"))
	assert.False(t, LooksLikeLocation("Software Engineer Intern"))
	assert.False(t, LooksLikeLocation(""))
}
