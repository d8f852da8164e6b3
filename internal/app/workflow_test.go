package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lightcull/internal/domain"
	appErrors "lightcull/internal/errors"
	"lightcull/internal/infra/xattr"
)

type memSession struct {
	folder string
	sets   int
}

func (s *memSession) ActiveFolder() (string, error) { return s.folder, nil }

func (s *memSession) SetActiveFolder(folder string) error {
	s.folder = folder
	s.sets++
	return nil
}

func TestWorkflowRequiresOpenFolder(t *testing.T) {
	f := newFixture(t, "DSCF0001.JPG")

	_, err := f.wf.Delete(f.pair("DSCF0001.JPG", ""))
	assert.True(t, appErrors.IsKind(err, appErrors.InvalidInput))
	_, err = f.wf.Scan()
	assert.True(t, appErrors.IsKind(err, appErrors.InvalidInput))
}

func TestWorkflowCullingScenario(t *testing.T) {
	f := newFixture(t, "DSCF0100.JPG", "DSCF0100.RAF", "DSCF0101.JPG")
	require.NoError(t, f.tags.AddTag(domain.TopTag, f.path("DSCF0100.JPG")))

	pairs, err := f.wf.Open(f.dir)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.True(t, pairs[0].HasTopTag)
	assert.True(t, pairs[0].HasRAW())
	assert.False(t, pairs[1].HasTopTag)
	assert.False(t, pairs[1].HasRAW())

	_, err = f.wf.Delete(pairs[0])
	require.NoError(t, err)

	remaining, err := f.wf.Scan()
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "DSCF0101.JPG", remaining[0].Name())

	_, err = f.wf.UndoLastMove()
	require.NoError(t, err)

	restored, err := f.wf.Scan()
	require.NoError(t, err)
	require.Len(t, restored, 2)
	assert.Equal(t, "DSCF0100.JPG", restored[0].Name())
	assert.True(t, restored[0].HasTopTag)
	assert.True(t, restored[0].HasRAW())
}

func TestWorkflowToggleTagPatchesList(t *testing.T) {
	f := newFixture(t, "DSCF0001.JPG", "DSCF0001.RAF", "DSCF0002.JPG")
	pairs, err := f.wf.Open(f.dir)
	require.NoError(t, err)

	tagged, err := f.wf.ToggleTag(pairs[1])
	require.NoError(t, err)
	pairs = domain.Replace(pairs, tagged)

	assert.False(t, pairs[0].HasTopTag)
	assert.True(t, pairs[1].HasTopTag)

	stats, err := f.wf.Statistics()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TaggedPairs)
}

func TestWorkflowSwitchingFolderClearsHistory(t *testing.T) {
	f := newFixture(t, "DSCF0001.JPG", "other/DSCF0002.JPG")
	session := &memSession{}
	f.wf.Session = session

	_, err := f.wf.Open(f.dir)
	require.NoError(t, err)
	_, err = f.wf.Delete(f.pair("DSCF0001.JPG", ""))
	require.NoError(t, err)
	thumb := f.writeThumbnail(t, "DSCF0003.JPG")

	// Reopening the same folder keeps everything.
	_, err = f.wf.Open(f.dir)
	require.NoError(t, err)
	assert.Equal(t, 1, f.wf.Undo.Len())
	assert.FileExists(t, thumb)

	other := f.path("other")
	_, err = f.wf.Open(other)
	require.NoError(t, err)
	assert.True(t, f.wf.Undo.IsEmpty())
	assert.NoFileExists(t, thumb)
	assert.Equal(t, other, f.wf.Folder())
	assert.Equal(t, other, session.folder)
	assert.Equal(t, 2, session.sets)
}

func TestWorkflowResumesSessionFolder(t *testing.T) {
	f := newFixture(t, "DSCF0001.JPG")
	abs, err := filepath.Abs(f.dir)
	require.NoError(t, err)
	f.wf.Session = &memSession{folder: abs}
	f.wf.Undo.Push(domain.MoveOperation{OriginalJPEGPath: f.path("X.JPG"), MovedJPEGPath: f.path("_toDelete/X.JPG")})

	assert.Equal(t, abs, f.wf.Folder())
	_, err = f.wf.Open(f.dir)
	require.NoError(t, err)
	assert.Equal(t, 1, f.wf.Undo.Len())
}

func TestWorkflowMoveBatchRecordsEachMove(t *testing.T) {
	f := newFixture(t, "A.JPG", "B.JPG")
	pairs, err := f.wf.Open(f.dir)
	require.NoError(t, err)

	result, err := f.wf.MoveBatch(pairs, domain.ArchiveFolder)
	require.NoError(t, err)
	assert.Len(t, result.Operations, 2)
	assert.Equal(t, 2, f.wf.Undo.Len())

	_, err = f.wf.UndoLastMove()
	require.NoError(t, err)
	assert.FileExists(t, f.path("B.JPG"))
	assert.NoFileExists(t, f.path("A.JPG"))
}

func TestWorkflowOpenMissingFolder(t *testing.T) {
	f := newFixture(t)

	_, err := f.wf.Open(filepath.Join(f.dir, "nope"))
	assert.True(t, appErrors.IsKind(err, appErrors.NotFound))
	assert.Equal(t, "", f.wf.Folder())
}

func TestWorkflowRenameKeepsTag(t *testing.T) {
	f := newFixture(t, "DSCF0001.JPG", "DSCF0001.RAF")
	pairs, err := f.wf.Open(f.dir)
	require.NoError(t, err)
	tagged, err := f.wf.ToggleTag(pairs[0])
	require.NoError(t, err)

	// The in-memory attribute store is keyed by path, so copy the tags the way the
	// filesystem carries real attributes along with a rename.
	renamed, err := f.wf.RenamePair(tagged, "Best")
	require.NoError(t, err)
	for i, from := range tagged.Files() {
		to := renamed.Files()[i]
		f.attrs.tags[to] = f.attrs.tags[from]
	}
	assert.FileExists(t, renamed.RAWPath)

	rescanned, err := f.wf.Scan()
	require.NoError(t, err)
	require.Len(t, rescanned, 1)
	assert.Equal(t, "Best_DSCF0001.JPG", rescanned[0].Name())
	assert.True(t, rescanned[0].HasTopTag)
}

func TestTagsTravelWithFilesOnDisk(t *testing.T) {
	f := newFixture(t, "DSCF0001.JPG", "DSCF0001.RAF")
	if !xattr.Supported(f.path("DSCF0001.JPG")) {
		t.Skip("filesystem does not support extended attributes")
	}
	f.tags.Attrs = xattr.Tags{}

	pairs, err := f.wf.Open(f.dir)
	require.NoError(t, err)
	tagged, err := f.wf.ToggleTag(pairs[0])
	require.NoError(t, err)
	require.True(t, tagged.HasTopTag)

	op, err := f.wf.Delete(tagged)
	require.NoError(t, err)
	assert.True(t, f.tags.HasTag(domain.TopTag, op.MovedJPEGPath))
	assert.True(t, f.tags.HasTag(domain.TopTag, op.MovedRAWPath))

	_, err = f.wf.UndoLastMove()
	require.NoError(t, err)
	pairs, err = f.wf.Scan()
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.True(t, pairs[0].HasTopTag)

	renamed, err := f.wf.RenamePair(pairs[0], "Best")
	require.NoError(t, err)
	assert.True(t, f.tags.HasTag(domain.TopTag, renamed.RAWPath))

	rescanned, err := f.wf.Scan()
	require.NoError(t, err)
	require.Len(t, rescanned, 1)
	assert.Equal(t, "Best_DSCF0001.JPG", rescanned[0].Name())
	assert.True(t, rescanned[0].HasTopTag)
}
