package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullCard = `
<div class="v-container">
  <a class="v-card v-card--flat v-card--link" href="/lowongan/view/101">
    <div class="v-card-text">
      <h6 class="text-h6">PT MAJU BERSAMA</h6>
      <div style="font-size: 12px;">KAB. TANGERANG ,  BANTEN</div>
      <h5 class="text-h5">Backend Developer Intern</h5>
      <div class="d-flex">
        <i class="tabler-calendar"></i><span>3 Oktober 2025</span>
      </div>
      <div class="d-flex">
        <i class="tabler-users"></i><span>905 pelamar | 1 kebutuhan</span>
      </div>
    </div>
  </a>
  <a class="v-card v-card--flat v-card--link" href="/lowongan/view/102">
    <div class="v-card-text">
      <h6>CV Sukses</h6>
      <h5>Data Entry</h5>
    </div>
  </a>
  <a class="v-card v-card--flat" href="/lowongan/view/999">not a link card</a>
  <a class="v-card v-card--flat v-card--link" href="/karir/view/1">wrong path</a>
</div>`

func TestExtract(t *testing.T) {
	out := Extract(fullCard)
	require.Len(t, out, 2)

	first := out[0]
	assert.Equal(t, "/lowongan/view/101", first.SourceURL)
	assert.Equal(t, "PT MAJU BERSAMA", first.Company)
	assert.Equal(t, "Backend Developer Intern", first.Title)
	assert.Equal(t, "KAB. TANGERANG , BANTEN", first.Location)
	assert.Equal(t, "2025-10-03", first.PostingDate)
	require.NotNil(t, first.Applicants)
	require.NotNil(t, first.Quota)
	assert.Equal(t, 905, *first.Applicants)
	assert.Equal(t, 1, *first.Quota)
	require.NotNil(t, first.AcceptanceRate)
	assert.InDelta(t, 1.0/905.0, *first.AcceptanceRate, 1e-9)
	assert.Equal(t, "open", first.Status)
	assert.False(t, first.FetchedAt.IsZero())

	// Partial card: bare h5/h6 fallback, everything else stays empty.
	second := out[1]
	assert.Equal(t, "/lowongan/view/102", second.SourceURL)
	assert.Equal(t, "CV Sukses", second.Company)
	assert.Equal(t, "Data Entry", second.Title)
	assert.Equal(t, "", second.Location)
	assert.Equal(t, "", second.PostingDate)
	assert.Nil(t, second.Applicants)
	assert.Nil(t, second.Quota)
}

func TestExtractDeterministicOrder(t *testing.T) {
	a := Extract(fullCard)
	b := Extract(fullCard)
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].SourceURL, b[i].SourceURL, "index %d", i)
	}
}

func TestExtractSkipsCardsWithoutHref(t *testing.T) {
	src := `<a class="v-card v-card--flat v-card--link" href="">
	  <h5>No URL</h5></a>`
	assert.Empty(t, Extract(src))
}

func TestExtractEmptyAndGarbageInput(t *testing.T) {
	assert.Empty(t, Extract(""))
	assert.Empty(t, Extract("<div>no cards here</div>"))
	// Truncated markup still parses; no cards, no panic.
	assert.Empty(t, Extract("<div><a class=\"v-card"))
}

func TestExtractLocationFallbackAfterCompany(t *testing.T) {
	src := `
<a class="v-card v-card--flat v-card--link" href="/lowongan/view/7">
  <h6 class="text-h6">PT Contoh</h6>
  <div>KOTA BANDUNG, JAWA BARAT</div>
  <h5 class="text-h5">QA Intern</h5>
</a>`
	out := Extract(src)
	require.Len(t, out, 1)
	assert.Equal(t, "KOTA BANDUNG , JAWA BARAT", out[0].Location)
}
