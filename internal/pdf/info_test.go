package pdf

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect_MissingFile(t *testing.T) {
	_, err := Inspect("testdata/does-not-exist.pdf")
	assert.Error(t, err)
}

func TestInspect_DirectoryRejected(t *testing.T) {
	dir := t.TempDir()
	_, err := Inspect(dir)
	assert.Error(t, err)
}

func TestInspect_FixturePageCount(t *testing.T) {
	path := "testdata/sample.pdf"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("no test PDF fixture checked in")
	}

	info, err := Inspect(path)

	require.NoError(t, err)
	assert.Greater(t, info.PageCount, 0)
}
