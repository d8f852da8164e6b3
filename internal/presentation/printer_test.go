package presentation

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"lightcull/internal/app"
	"lightcull/internal/domain"
	appErrors "lightcull/internal/errors"
)

func TestTruncateLines(t *testing.T) {
	lines := make([]string, 0, 6)
	for i := 0; i < 6; i++ {
		lines = append(lines, fmt.Sprintf("Moved DSCF000%d.JPG to _toDelete", i))
	}

	truncated := truncateLines(lines)
	if len(truncated) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(truncated))
	}
	if truncated[2] != "..." {
		t.Fatalf("expected ellipsis, got %q", truncated[2])
	}
	if lines[2] == "..." {
		t.Fatalf("input must not be modified")
	}
}

func TestPrintPairsMarksTopAndRAW(t *testing.T) {
	var buf bytes.Buffer
	printer := Printer{Writer: &buf}

	printer.PrintPairs([]domain.ImagePair{
		domain.NewImagePair("/p/DSCF0100.JPG", "/p/DSCF0100.RAF", true),
		domain.NewImagePair("/p/DSCF0101.JPG", "", false),
	})
	output := buf.String()
	if !strings.Contains(output, "★ DSCF0100.JPG") {
		t.Fatalf("expected TOP marker, got %q", output)
	}
	if !strings.Contains(output, "+RAF") {
		t.Fatalf("expected RAW marker")
	}
	if !strings.Contains(output, "2 pairs.") {
		t.Fatalf("expected count line")
	}
}

func TestPrintPairsEmpty(t *testing.T) {
	var buf bytes.Buffer
	Printer{Writer: &buf}.PrintPairs(nil)
	if !strings.Contains(buf.String(), "No JPEG files found.") {
		t.Fatalf("expected empty message, got %q", buf.String())
	}
}

func TestPrintStatistics(t *testing.T) {
	var buf bytes.Buffer
	Printer{Writer: &buf}.PrintStatistics("/p", domain.FolderStatistics{
		TotalFiles: 8, JPEGWithRAW: 3, JPEGWithoutRAW: 2, DeletedFiles: 2, TaggedPairs: 1,
	})
	output := buf.String()
	for _, want := range []string{"Total files:        8", "JPEG with RAW:      3", "Marked for delete:  2", "Tagged TOP:         1"} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in %q", want, output)
		}
	}
}

func TestPrintMetadataSkipsEmptyFields(t *testing.T) {
	var buf bytes.Buffer
	Printer{Writer: &buf}.PrintMetadata(domain.ImageMetadata{
		FileName:   "DSCF0100.JPG",
		FileSize:   2_400_000,
		CameraMake: "FUJIFILM",
		ISO:        "400",
	})
	output := buf.String()
	if !strings.Contains(output, "2.4 MB") {
		t.Fatalf("expected humanized size, got %q", output)
	}
	if !strings.Contains(output, "Camera:   FUJIFILM") {
		t.Fatalf("expected camera line, got %q", output)
	}
	if strings.Contains(output, "Shutter") || strings.Contains(output, "Taken") {
		t.Fatalf("expected empty fields to be skipped, got %q", output)
	}
}

func TestPrintMoveBatchReportsFailures(t *testing.T) {
	var buf bytes.Buffer
	printer := Printer{Writer: &buf}

	result := app.MoveBatchResult{
		Operations: []domain.MoveOperation{{OriginalJPEGPath: "/p/A.JPG", MovedJPEGPath: "/p/_Archive/A.JPG"}},
		Failures: []app.BatchFailure{{
			Pair: domain.NewImagePair("/p/B.JPG", "", false),
			Err:  appErrors.Wrap(appErrors.Collision, "move", "/p/_Archive/B.JPG", errors.New("exists")),
		}},
	}
	printer.PrintMoveBatch(result, domain.ArchiveFolder)
	output := buf.String()
	if !strings.Contains(output, "Moved A.JPG to _Archive") {
		t.Fatalf("expected move line, got %q", output)
	}
	if !strings.Contains(output, "Failed:") || !strings.Contains(output, "B.JPG") {
		t.Fatalf("expected failure section, got %q", output)
	}
	if !strings.Contains(output, "Moved 1 of 2 pairs to _Archive.") {
		t.Fatalf("expected summary, got %q", output)
	}
}

func TestPrintRenameBatch(t *testing.T) {
	var buf bytes.Buffer
	original := domain.NewImagePair("/p/A.JPG", "/p/A.RAF", false)
	result := app.RenameBatchResult{Renamed: []domain.ImagePair{domain.NewImagePair("/p/X_A.JPG", "/p/X_A.RAF", false)}}

	Printer{Writer: &buf}.PrintRenameBatch(result, []domain.ImagePair{original})
	if !strings.Contains(buf.String(), "Renamed A.JPG to X_A.JPG") {
		t.Fatalf("expected rename line, got %q", buf.String())
	}
}

func TestPrintHistoryNewestFirst(t *testing.T) {
	var buf bytes.Buffer
	now := time.Now()
	Printer{Writer: &buf}.PrintHistory([]domain.MoveOperation{
		{OriginalJPEGPath: "/p/A.JPG", Destination: domain.DeleteFolder, Timestamp: now},
		{OriginalJPEGPath: "/p/B.JPG", Destination: domain.ArchiveFolder, Timestamp: now},
	})

	output := buf.String()
	first := strings.Index(output, "1. B.JPG -> _Archive")
	second := strings.Index(output, "2. A.JPG -> _toDelete")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("expected newest move first, got %q", output)
	}

	buf.Reset()
	Printer{Writer: &buf}.PrintHistory(nil)
	if !strings.Contains(buf.String(), "Nothing to undo.") {
		t.Fatalf("expected empty message, got %q", buf.String())
	}
}

func TestPrintUndo(t *testing.T) {
	var buf bytes.Buffer
	op := domain.MoveOperation{
		OriginalJPEGPath: "/p/A.JPG",
		OriginalRAWPath:  "/p/A.RAF",
		MovedRAWPath:     "/p/_toDelete/A.RAF",
		Destination:      domain.DeleteFolder,
		Timestamp:        time.Now().Add(-2 * time.Hour),
	}

	Printer{Writer: &buf}.PrintUndo(op)
	if !strings.Contains(buf.String(), "Restored A.JPG from _toDelete (2 files, moved 2 hours ago).") {
		t.Fatalf("unexpected undo line %q", buf.String())
	}
}
