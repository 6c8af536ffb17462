package selection

import (
	"bytes"
	"testing"
	"time"

	"cutoffrank/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportSingleEntry(t *testing.T) {
	s := selecting(t)
	_, err := s.Add(abcDataset(t), Picks{Category: "GM", College: "B", Branch: "Y"})
	require.NoError(t, err)

	out, err := s.Export()
	require.NoError(t, err)
	assert.Equal(t, "College,Branch,Cutoff\nB,Y,200\n", string(out))
}

func TestExportUsesSortedOrder(t *testing.T) {
	ds := abcDataset(t)
	s := selecting(t)
	for _, college := range []string{"C", "A", "B"} {
		branch := map[string]string{"A": "X", "B": "Y", "C": "Z"}[college]
		_, err := s.Add(ds, Picks{Category: "GM", College: college, Branch: branch})
		require.NoError(t, err)
	}

	out, err := s.Export()
	require.NoError(t, err)
	assert.Equal(t, "College,Branch,Cutoff\nB,Y,200\nC,Z,500\nA,X,500\n", string(out))
}

func TestExportEmptyProducesNoArtifact(t *testing.T) {
	out, err := selecting(t).Export()
	assert.ErrorIs(t, err, core.ErrEmptyList)
	assert.Nil(t, out)
}

func TestWriteCSVQuotesFields(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []Entry{{College: "Dayananda Sagar, Bengaluru", Branch: `AI "ML"`, Cutoff: 1234.5}})
	require.NoError(t, err)
	assert.Equal(t, "College,Branch,Cutoff\n\"Dayananda Sagar, Bengaluru\",\"AI \"\"ML\"\"\",1234.5\n", buf.String())
}

func TestExportFilename(t *testing.T) {
	day := time.Date(2026, 10, 17, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "selected_colleges_2026-10-17.csv", ExportFilename(day))
}
