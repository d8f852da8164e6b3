package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lightcull/internal/domain"
	appErrors "lightcull/internal/errors"
)

func TestMoveRelocatesBothFiles(t *testing.T) {
	f := newFixture(t, "DSCF0001.JPG", "DSCF0001.RAF")
	pair := f.pair("DSCF0001.JPG", "DSCF0001.RAF")

	op, err := f.wf.Mover.Delete(pair, f.dir)
	require.NoError(t, err)

	assert.Equal(t, f.path("_toDelete/DSCF0001.JPG"), op.MovedJPEGPath)
	assert.Equal(t, f.path("_toDelete/DSCF0001.RAF"), op.MovedRAWPath)
	assert.Equal(t, domain.DeleteFolder, op.Destination)
	assert.Equal(t, fixedClock(), op.Timestamp)
	assert.FileExists(t, op.MovedJPEGPath)
	assert.FileExists(t, op.MovedRAWPath)
	assert.NoFileExists(t, pair.JPEGPath)
	assert.NoFileExists(t, pair.RAWPath)
}

func TestMoveDestinations(t *testing.T) {
	f := newFixture(t, "A.JPG", "B.JPG", "C.JPG")

	_, err := f.wf.Mover.Archive(f.pair("A.JPG", ""), f.dir)
	require.NoError(t, err)
	_, err = f.wf.Mover.Outtake(f.pair("B.JPG", ""), f.dir)
	require.NoError(t, err)
	op, err := f.wf.Mover.Move(f.pair("C.JPG", ""), f.dir, "picks")
	require.NoError(t, err)

	assert.FileExists(t, f.path("_Archive/A.JPG"))
	assert.FileExists(t, f.path("_Outtakes/B.JPG"))
	assert.FileExists(t, f.path("picks/C.JPG"))
	assert.False(t, op.HasRAW())
}

func TestMoveRollsBackJPEGWhenRAWDestinationIsTaken(t *testing.T) {
	f := newFixture(t, "DSCF0001.JPG", "DSCF0001.RAF", "_toDelete/DSCF0001.RAF")
	pair := f.pair("DSCF0001.JPG", "DSCF0001.RAF")

	_, err := f.wf.Mover.Delete(pair, f.dir)
	assert.True(t, appErrors.IsKind(err, appErrors.Collision))
	assert.FileExists(t, pair.JPEGPath)
	assert.FileExists(t, pair.RAWPath)
	assert.NoFileExists(t, f.path("_toDelete/DSCF0001.JPG"))
}

func TestMoveRollsBackJPEGWhenRAWMoveFails(t *testing.T) {
	f := newFixture(t, "DSCF0001.JPG", "DSCF0001.RAF")
	pair := f.pair("DSCF0001.JPG", "DSCF0001.RAF")
	thumb := f.writeThumbnail(t, "DSCF0001.JPG")
	f.fs.failMoveFrom[pair.RAWPath] = true

	_, err := f.wf.Mover.Delete(pair, f.dir)
	assert.True(t, appErrors.IsKind(err, appErrors.PartialPair))
	assert.FileExists(t, pair.JPEGPath)
	assert.FileExists(t, pair.RAWPath)
	assert.NoFileExists(t, f.path("_toDelete/DSCF0001.JPG"))
	assert.FileExists(t, thumb)
}

func TestMoveReportsFailedRollback(t *testing.T) {
	f := newFixture(t, "DSCF0001.JPG", "DSCF0001.RAF")
	pair := f.pair("DSCF0001.JPG", "DSCF0001.RAF")
	f.fs.failMoveFrom[pair.RAWPath] = true
	f.fs.failMoveFrom[f.path("_toDelete/DSCF0001.JPG")] = true

	_, err := f.wf.Mover.Delete(pair, f.dir)
	assert.True(t, appErrors.IsKind(err, appErrors.RollbackFailed))
	assert.FileExists(t, f.path("_toDelete/DSCF0001.JPG"))
	assert.FileExists(t, pair.RAWPath)
}

func TestMoveCollisionLeavesFilesInPlace(t *testing.T) {
	f := newFixture(t, "DSCF0001.JPG", "DSCF0001.RAF", "_toDelete/DSCF0001.JPG")
	pair := f.pair("DSCF0001.JPG", "DSCF0001.RAF")

	_, err := f.wf.Mover.Delete(pair, f.dir)
	assert.True(t, appErrors.IsKind(err, appErrors.Collision))
	assert.FileExists(t, pair.JPEGPath)
	assert.FileExists(t, pair.RAWPath)
	assert.NoFileExists(t, f.path("_toDelete/DSCF0001.RAF"))

	content, err := os.ReadFile(f.path("_toDelete/DSCF0001.JPG"))
	require.NoError(t, err)
	assert.Equal(t, "_toDelete/DSCF0001.JPG", string(content))
}

func TestMoveDestinationOccupiedByFile(t *testing.T) {
	f := newFixture(t, "DSCF0001.JPG", "_toDelete")

	_, err := f.wf.Mover.Delete(f.pair("DSCF0001.JPG", ""), f.dir)
	assert.True(t, appErrors.IsKind(err, appErrors.Collision))
	assert.FileExists(t, f.path("DSCF0001.JPG"))
}

func TestMoveRejectsInvalidFolderNames(t *testing.T) {
	f := newFixture(t, "DSCF0001.JPG")
	pair := f.pair("DSCF0001.JPG", "")

	for _, name := range []string{"", ".", "..", "a/b", `a\b`} {
		_, err := f.wf.Mover.Move(pair, f.dir, name)
		assert.True(t, appErrors.IsKind(err, appErrors.InvalidInput), name)
	}
	assert.FileExists(t, pair.JPEGPath)
}

func TestMoveMissingJPEG(t *testing.T) {
	f := newFixture(t)

	_, err := f.wf.Mover.Delete(f.pair("GONE.JPG", ""), f.dir)
	assert.True(t, appErrors.IsKind(err, appErrors.NotFound))
}

func TestMoveShadowsThumbnail(t *testing.T) {
	f := newFixture(t, "DSCF0001.JPG")
	pair := f.pair("DSCF0001.JPG", "")
	thumb := f.writeThumbnail(t, "DSCF0001.JPG")

	op, err := f.wf.Mover.Delete(pair, f.dir)
	require.NoError(t, err)
	assert.NoFileExists(t, thumb)
	assert.FileExists(t, filepath.Join(filepath.Dir(thumb), domain.DeleteFolder, filepath.Base(thumb)))

	require.NoError(t, f.wf.Mover.Reverse(op))
	assert.FileExists(t, thumb)
}

func TestMoveBatchContinuesPastFailures(t *testing.T) {
	f := newFixture(t, "A.JPG", "A.RAF", "B.JPG", "C.JPG", "_toDelete/B.JPG")
	pairs := []domain.ImagePair{
		f.pair("A.JPG", "A.RAF"),
		f.pair("B.JPG", ""),
		f.pair("C.JPG", ""),
	}

	result := f.wf.Mover.MoveBatch(pairs, f.dir, domain.DeleteFolder)
	require.Len(t, result.Operations, 2)
	require.Len(t, result.Failures, 1)
	assert.True(t, result.Failures[0].Pair.Equal(pairs[1]))
	assert.True(t, appErrors.IsKind(result.Failures[0].Err, appErrors.Collision))
	assert.FileExists(t, f.path("_toDelete/A.RAF"))
	assert.FileExists(t, f.path("_toDelete/C.JPG"))
}

func TestReverseRefusesToOverwrite(t *testing.T) {
	f := newFixture(t, "DSCF0001.JPG", "DSCF0001.RAF")
	pair := f.pair("DSCF0001.JPG", "DSCF0001.RAF")
	op, err := f.wf.Mover.Delete(pair, f.dir)
	require.NoError(t, err)
	writeFiles(t, f.dir, "DSCF0001.RAF")

	err = f.wf.Mover.Reverse(op)
	assert.True(t, appErrors.IsKind(err, appErrors.Collision))
	assert.FileExists(t, op.MovedJPEGPath)
	assert.FileExists(t, op.MovedRAWPath)
}

func TestReverseRollsBackJPEGWhenRAWFails(t *testing.T) {
	f := newFixture(t, "DSCF0001.JPG", "DSCF0001.RAF")
	pair := f.pair("DSCF0001.JPG", "DSCF0001.RAF")
	op, err := f.wf.Mover.Delete(pair, f.dir)
	require.NoError(t, err)
	f.fs.failMoveFrom[op.MovedRAWPath] = true

	err = f.wf.Mover.Reverse(op)
	assert.True(t, appErrors.IsKind(err, appErrors.PartialPair))
	assert.FileExists(t, op.MovedJPEGPath)
	assert.FileExists(t, op.MovedRAWPath)
	assert.NoFileExists(t, pair.JPEGPath)
}
