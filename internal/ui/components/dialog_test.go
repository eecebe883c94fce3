package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfirmDialogIncludesTitleMessageAndHints(t *testing.T) {
	out := ConfirmDialog("Delete FAQ", "Are you sure?")
	clean := SanitizeText(out)

	assert.Contains(t, clean, "Delete FAQ")
	assert.Contains(t, clean, "Are you sure?")
	assert.Contains(t, clean, "y: confirm | n: cancel")
}

func TestConfirmPreviewDialogShowsRows(t *testing.T) {
	out := ConfirmPreviewDialog("Delete FAQ", "This cannot be undone.", [][2]string{
		{"Question", "Where is the library?"},
		{"Keywords", "library, hours"},
	}, 80)
	clean := SanitizeText(out)

	assert.Contains(t, clean, "Delete FAQ")
	assert.Contains(t, clean, "This cannot be undone.")
	assert.Contains(t, clean, "Question: Where is the library?")
	assert.Contains(t, clean, "Keywords: library, hours")
	assert.Contains(t, clean, "y: confirm | n: cancel")
}
