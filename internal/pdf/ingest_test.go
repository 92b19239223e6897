package pdf

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidai/pdf2md/internal/types"
)

type passthroughNormalizer struct{}

func (passthroughNormalizer) NFKC(s string) string { return s }

func TestHeightCorrection_NoScaleIsNoop(t *testing.T) {
	item := RawTextItem{Transform: [6]float64{1, 0, 0, 1, 0, 0}, Height: 12}
	assert.Equal(t, 12.0, heightCorrection(item))
}

func TestHeightCorrection_DividesOutLargeScale(t *testing.T) {
	item := RawTextItem{Transform: [6]float64{1, 0, 0, 2, 0, 0}, Height: 24}
	assert.InDelta(t, 12.0, heightCorrection(item), 0.001)
}

func TestToTextRuns_PreservesPositionAndNormalizes(t *testing.T) {
	items := []RawTextItem{
		{Transform: [6]float64{1, 0, 0, 1, 10, 700}, Width: 5, Height: 12, Str: "hello", FontName: "F1"},
	}

	runs := toTextRuns(items, passthroughNormalizer{})

	require.Len(t, runs, 1)
	assert.Equal(t, 10.0, runs[0].X)
	assert.Equal(t, 700.0, runs[0].Y)
	assert.Equal(t, "hello", runs[0].Text)
	assert.Equal(t, "F1", runs[0].FontID)
}

func TestIngest_FromTestdataFixture(t *testing.T) {
	path := "testdata/sample.pdf"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("no test PDF fixture checked in")
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	result, err := Ingest(data, types.Config{})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Pages)
}
