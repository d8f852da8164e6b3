package presentation

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"lightcull/internal/app"
	"lightcull/internal/domain"
	appErrors "lightcull/internal/errors"
)

type Printer struct {
	Writer  io.Writer
	Verbose bool
}

// PrintPairs lists every pair with its TOP and RAW markers.
func (p Printer) PrintPairs(pairs []domain.ImagePair) {
	if len(pairs) == 0 {
		fmt.Fprintln(p.Writer, "No JPEG files found.")
		return
	}
	for _, pair := range pairs {
		fmt.Fprintln(p.Writer, formatPair(pair))
	}
	fmt.Fprintln(p.Writer)
	fmt.Fprintf(p.Writer, "%d pairs.\n", len(pairs))
}

func (p Printer) PrintStatistics(folder string, stats domain.FolderStatistics) {
	fmt.Fprintf(p.Writer, "Folder: %s\n", folder)
	fmt.Fprintln(p.Writer)
	fmt.Fprintf(p.Writer, "Total files:        %d\n", stats.TotalFiles)
	fmt.Fprintf(p.Writer, "JPEG with RAW:      %d\n", stats.JPEGWithRAW)
	fmt.Fprintf(p.Writer, "JPEG without RAW:   %d\n", stats.JPEGWithoutRAW)
	fmt.Fprintf(p.Writer, "Tagged TOP:         %d\n", stats.TaggedPairs)
	fmt.Fprintf(p.Writer, "Marked for delete:  %d\n", stats.DeletedFiles)
}

func (p Printer) PrintMetadata(meta domain.ImageMetadata) {
	fmt.Fprintln(p.Writer, meta.FileName)
	fmt.Fprintf(p.Writer, "  Size:     %s\n", humanize.Bytes(uint64(max(meta.FileSize, 0))))
	printField(p.Writer, "Camera", strings.TrimSpace(meta.CameraMake+" "+meta.CameraModel))
	printField(p.Writer, "Lens", meta.FocalLength)
	printField(p.Writer, "Aperture", meta.Aperture)
	printField(p.Writer, "Shutter", meta.ShutterSpeed)
	printField(p.Writer, "ISO", meta.ISO)
	if !meta.DateTaken.IsZero() {
		printField(p.Writer, "Taken", meta.DateTaken.Format("2006-01-02 15:04:05"))
	}
}

func (p Printer) PrintTagged(pairs []domain.ImagePair) {
	for _, pair := range pairs {
		state := "untagged"
		if pair.HasTopTag {
			state = "tagged " + domain.TopTag
		}
		fmt.Fprintf(p.Writer, "%s %s\n", pair.Name(), state)
	}
}

func (p Printer) PrintMoveBatch(result app.MoveBatchResult, destination string) {
	lines := make([]string, 0, len(result.Operations))
	for _, op := range result.Operations {
		lines = append(lines, fmt.Sprintf("Moved %s to %s", filepath.Base(op.OriginalJPEGPath), destination))
	}
	p.printLines(lines)
	p.printFailures(result.Failures)

	fmt.Fprintln(p.Writer)
	fmt.Fprintf(p.Writer, "Moved %d of %d pairs to %s.\n",
		len(result.Operations), len(result.Operations)+len(result.Failures), destination)
}

func (p Printer) PrintUndo(op domain.MoveOperation) {
	files := "1 file"
	if op.HasRAW() {
		files = "2 files"
	}
	fmt.Fprintf(p.Writer, "Restored %s from %s (%s, moved %s).\n",
		filepath.Base(op.OriginalJPEGPath), op.Destination, files, humanize.Time(op.Timestamp))
}

// PrintHistory lists undoable moves newest first, in the order undo will reverse them.
func (p Printer) PrintHistory(ops []domain.MoveOperation) {
	if len(ops) == 0 {
		fmt.Fprintln(p.Writer, "Nothing to undo.")
		return
	}
	lines := make([]string, 0, len(ops))
	for i := len(ops) - 1; i >= 0; i-- {
		op := ops[i]
		lines = append(lines, fmt.Sprintf("%d. %s -> %s (%s)",
			len(ops)-i, filepath.Base(op.OriginalJPEGPath), op.Destination, humanize.Time(op.Timestamp)))
	}
	p.printLines(lines)
}

func (p Printer) PrintRenameBatch(result app.RenameBatchResult, originals []domain.ImagePair) {
	lines := make([]string, 0, len(result.Renamed))
	for _, renamed := range result.Renamed {
		lines = append(lines, fmt.Sprintf("Renamed %s to %s", renamedFrom(originals, renamed), renamed.Name()))
	}
	p.printLines(lines)
	p.printFailures(result.Failures)

	fmt.Fprintln(p.Writer)
	fmt.Fprintf(p.Writer, "Renamed %d of %d pairs.\n", len(result.Renamed), len(result.Renamed)+len(result.Failures))
}

// PrintThumbnails summarises a thumbnail run.
func (p Printer) PrintThumbnails(pairs []domain.ImagePair, cacheDir string) {
	done := 0
	for _, pair := range pairs {
		if pair.ThumbnailPath != "" {
			done++
		}
	}
	fmt.Fprintf(p.Writer, "%d of %d thumbnails ready in %s.\n", done, len(pairs), cacheDir)
}

// printLines shows long lists as head and tail unless verbose.
func (p Printer) printLines(lines []string) {
	if !p.Verbose {
		lines = truncateLines(lines)
	}
	for _, line := range lines {
		fmt.Fprintln(p.Writer, line)
	}
}

func (p Printer) printFailures(failures []app.BatchFailure) {
	if len(failures) == 0 {
		return
	}
	red := color.New(color.FgRed)
	fmt.Fprintln(p.Writer)
	fmt.Fprintln(p.Writer, "Failed:")
	for _, failure := range failures {
		red.Fprintf(p.Writer, "%s: %s\n", failure.Pair.Name(), appErrors.UserMessage(failure.Err))
	}
}

func formatPair(pair domain.ImagePair) string {
	marker := "  "
	if pair.HasTopTag {
		marker = color.New(color.FgYellow).Sprint("★ ")
	}
	raw := ""
	if pair.HasRAW() {
		raw = color.New(color.FgCyan).Sprint("  +" + domain.RAWExtension)
	}
	return marker + pair.Name() + raw
}

func truncateLines(lines []string) []string {
	if len(lines) <= 4 {
		return lines
	}
	head := append([]string{}, lines[:2]...)
	tail := lines[len(lines)-2:]
	return append(append(head, "..."), tail...)
}

func renamedFrom(originals []domain.ImagePair, renamed domain.ImagePair) string {
	for _, pair := range originals {
		if strings.HasSuffix(renamed.Name(), "_"+pair.Name()) && pair.Folder() == renamed.Folder() {
			return pair.Name()
		}
	}
	return "?"
}

func printField(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "  %-9s %s\n", label+":", value)
}
