package repair_service

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/sunr3d/backup-sanitizer/models"
)

func RenderManifest(m models.Manifest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Cleaned Archive Manifest\n")
	fmt.Fprintf(&b, "Original: %s\n", m.OriginalName)
	fmt.Fprintf(&b, "Cleaned: %s\n", m.CleanedName)
	fmt.Fprintf(&b, "Generated: %s\n\n", m.GeneratedAt.UTC().Format(time.RFC3339))

	fmt.Fprintf(&b, "## Size Comparison\n")
	fmt.Fprintf(&b, "- Original Size: %s (%d bytes)\n", humanize.IBytes(uint64(m.OriginalSize)), m.OriginalSize)
	fmt.Fprintf(&b, "- Cleaned Size: %s (%d bytes)\n", humanize.IBytes(uint64(m.CleanedSize)), m.CleanedSize)
	fmt.Fprintf(&b, "- Size Reduction: %s (%.2f%%)\n\n", signedBytes(m.OriginalSize-m.CleanedSize), m.ReductionPercent())

	fmt.Fprintf(&b, "## File Count\n")
	fmt.Fprintf(&b, "- Original Files: %d\n", m.OriginalFiles)
	fmt.Fprintf(&b, "- Infected Files Removed: %d\n\n", m.RemovedFiles)

	fmt.Fprintf(&b, "## Security\n")
	fmt.Fprintf(&b, "- SHA256: %s\n\n", m.SHA256)

	fmt.Fprintf(&b, "## Excluded Patterns\n")
	for _, p := range m.Patterns {
		fmt.Fprintf(&b, "- %s\n", p)
	}

	return b.String()
}

func signedBytes(n int64) string {
	if n < 0 {
		return "-" + humanize.IBytes(uint64(-n))
	}
	return humanize.IBytes(uint64(n))
}

// writeManifest refuses to overwrite an existing manifest.
func writeManifest(path string, m models.Manifest) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrManifest, err)
	}

	if _, err := f.WriteString(RenderManifest(m)); err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", ErrManifest, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrManifest, err)
	}

	return nil
}
