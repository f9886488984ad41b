package detail

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detailPage = `
<div class="v-container">
  <div class="v-row">
    <div class="v-col-md-4"><label>Program Studi</label></div>
    <div class="v-col-md-8">
      <div class="d-flex flex-wrap gap-2">
        <div class="v-chip"><span class="v-chip__content">Teknik Informatika</span></div>
        <div class="v-chip"><span class="v-chip__content">Sistem Informasi</span></div>
        <div class="v-chip"><span class="v-chip__content">Teknik Informatika</span></div>
      </div>
    </div>
  </div>
  <div class="v-row">
    <div class="v-col-md-4"><label>Deskripsi</label></div>
    <div class="v-col-md-8">
      <div class="text-body-1">
        <p>Magang backend selama 6 bulan.</p>
        <p>- Menulis kode Go</p>
        <p>- Review bersama mentor</p>
      </div>
    </div>
  </div>
</div>`

func TestProgramStudi(t *testing.T) {
	tags := ProgramStudi(detailPage)
	require.Len(t, tags, 2)
	assert.Equal(t, []string{"Teknik Informatika", "Sistem Informasi"}, tags)
}

func TestProgramStudiNoLabelSweepsChips(t *testing.T) {
	src := `
<div class="chips flex-wrap">
  <span class="v-chip__content">Akuntansi</span>
  <span class="v-chip__content">Manajemen</span>
</div>`
	assert.Equal(t, []string{"Akuntansi", "Manajemen"}, ProgramStudi(src))
}

func TestProgramStudiEmpty(t *testing.T) {
	assert.Empty(t, ProgramStudi("<div>nothing</div>"))
	assert.Empty(t, ProgramStudi(""))
}

func TestDescription(t *testing.T) {
	got := Description(detailPage)
	want := "Magang backend selama 6 bulan.\n• Menulis kode Go\n• Review bersama mentor"
	assert.Equal(t, want, got)
}

func TestDescriptionBulletDots(t *testing.T) {
	src := `
<div class="v-row">
  <div><span>Deskripsi</span></div>
  <div class="text-body-1">
    <p>• Sudah berpeluru</p>
    <p>- Strip jadi peluru</p>
  </div>
</div>`
	assert.Equal(t, "• Sudah berpeluru\n• Strip jadi peluru", Description(src))
}

func TestDescriptionTruncatesAtRuneBoundary(t *testing.T) {
	long := strings.Repeat("é", MaxDescriptionLen+50)
	src := `<div class="v-row"><label>Deskripsi</label>
	<div class="text-body-1"><p>` + long + `</p></div></div>`

	got := Description(src)
	runes := []rune(got)
	assert.Len(t, runes, MaxDescriptionLen)
	// Cutting mid-rune would corrupt the tail.
	assert.Equal(t, 'é', runes[len(runes)-1])
}

func TestDescriptionMissingLabel(t *testing.T) {
	assert.Equal(t, "", Description(`<div class="text-body-1"><p>orphan body</p></div>`))
	assert.Equal(t, "", Description(""))
}

func TestDescriptionBodyWithoutParagraphs(t *testing.T) {
	src := `<div class="v-row"><label>Deskripsi</label>
	<div class="text-body-1">Teks polos tanpa paragraf.</div></div>`
	assert.Equal(t, "Teks polos tanpa paragraf.", Description(src))
}
