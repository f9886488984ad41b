package home

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const homePage = `
<div class="stats">
  <div class="stat-card">
    <h4>1.250</h4>
    <div>Jumlah Perusahaan</div>
  </div>
  <div class="stat-card">
    <h4>98.431</h4>
    <div>Jumlah Lamaran</div>
  </div>
</div>
<div class="timeline-section">
  <h3>Jadwal Batch 3</h3>
  <div class="timeline">
    <div class="timeline-item active">
      <h5>Pendaftaran</h5>
      <div class="text-muted">1 September 2025 - 30 September 2025</div>
    </div>
    <div class="timeline-item upcoming">
      <h6>Seleksi</h6>
      <div class="small">1 Oktober 2025 - 15 Oktober 2025</div>
    </div>
    <div class="timeline-item">
      <h5>Pelaksanaan</h5>
      <div class="text-body">TBD</div>
    </div>
  </div>
</div>`

func TestStats(t *testing.T) {
	companies, applications := Stats(homePage)
	require.NotNil(t, companies)
	require.NotNil(t, applications)
	assert.Equal(t, 1250, *companies)
	assert.Equal(t, 98431, *applications)
}

func TestStatsMissingLabels(t *testing.T) {
	companies, applications := Stats("<div><h4>42</h4></div>")
	assert.Nil(t, companies)
	assert.Nil(t, applications)
}

func TestTimeline(t *testing.T) {
	items := Timeline(homePage)
	require.Len(t, items, 3)

	assert.Equal(t, "Batch 3", items[0].Batch)
	assert.Equal(t, "Pendaftaran", items[0].Title)
	assert.Equal(t, "2025-09-01", items[0].StartDate)
	assert.Equal(t, "2025-09-30", items[0].EndDate)
	assert.Equal(t, "active", items[0].Status)
	assert.Equal(t, 0, items[0].OrderIndex)

	assert.Equal(t, "Seleksi", items[1].Title)
	assert.Equal(t, "upcoming", items[1].Status)
	assert.Equal(t, 1, items[1].OrderIndex)

	// Unparseable dates degrade to empty, the entry survives.
	assert.Equal(t, "Pelaksanaan", items[2].Title)
	assert.Equal(t, "", items[2].StartDate)
	assert.Equal(t, "", items[2].EndDate)
	assert.Equal(t, "", items[2].Status)
}

func TestTimelineEmptyPage(t *testing.T) {
	assert.Empty(t, Timeline("<div>no schedule</div>"))
	assert.Empty(t, Timeline(""))
}
