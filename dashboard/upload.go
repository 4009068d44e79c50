package dashboard

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// isSpreadsheet accepts .xlsx names whose content sniffs as a zip
// container. Whether the sheet itself is usable is for the backend to say.
func isSpreadsheet(name string, data []byte) bool {
	if !strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return false
	}
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is("application/zip") {
			return true
		}
	}
	return false
}
