package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mps7/internal/store"
	"github.com/roach88/mps7/internal/testutil"
)

// exportWithID runs export with a fixed load id so output is deterministic.
func exportWithID(t *testing.T, format, id, logPath, dbPath string, extra ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := newExportCommand(&ExportOptions{
		RootOptions: &RootOptions{Format: format},
		IDGenerator: testutil.FixedLoadID(id),
	})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{logPath, "--db", dbPath}, extra...))

	err := cmd.Execute()
	return buf.String(), err
}

func TestExportText(t *testing.T) {
	logPath := testutil.WriteLog(t, testutil.ReferenceLog())
	dbPath := filepath.Join(t.TempDir(), "mps7.db")

	out, err := exportWithID(t, "text", "load-1", logPath, dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 28 records to "+dbPath)
	assert.Contains(t, out, "Load: load-1")
	assert.NotContains(t, out, "Skipped")
}

func TestExportJSON(t *testing.T) {
	logPath := testutil.WriteLog(t, append(testutil.ReferenceLog(), 0xff))
	dbPath := filepath.Join(t.TempDir(), "mps7.db")

	out, err := exportWithID(t, "json", "load-1", logPath, dbPath, "--lenient")
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   ExportResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, ExportResult{LoadID: "load-1", Database: dbPath, Records: 28, Skipped: 1}, resp.Data)
}

func TestExportMalformedLogWritesNothing(t *testing.T) {
	logPath := testutil.WriteLog(t, append(testutil.ReferenceLog(), 0xff))
	dbPath := filepath.Join(t.TempDir(), "mps7.db")

	_, err := exportWithID(t, "text", "load-1", logPath, dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.NoFileExists(t, dbPath)
}

func TestExportRequiresDB(t *testing.T) {
	logPath := testutil.WriteLog(t, testutil.ReferenceLog())

	_, _, err := executeRoot(t, "export", logPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestExportThenSummaryFromDB(t *testing.T) {
	logPath := testutil.WriteLog(t, testutil.ReferenceLog())
	dbPath := filepath.Join(t.TempDir(), "mps7.db")

	_, err := exportWithID(t, "text", "load-1", logPath, dbPath)
	require.NoError(t, err)

	fromFile, _, err := executeRoot(t, "summary", logPath, "--user", strconv.FormatUint(testutil.UserOne, 10))
	require.NoError(t, err)

	fromDB, _, err := executeRoot(t, "summary", "--db", dbPath, "--load", "load-1", "--user", strconv.FormatUint(testutil.UserOne, 10))
	require.NoError(t, err)
	assert.Equal(t, fromFile, fromDB)
}

func TestSummaryFromDBUnknownLoad(t *testing.T) {
	logPath := testutil.WriteLog(t, testutil.ReferenceLog())
	dbPath := filepath.Join(t.TempDir(), "mps7.db")

	_, err := exportWithID(t, "text", "load-1", logPath, dbPath)
	require.NoError(t, err)

	_, _, err = executeRoot(t, "summary", "--db", dbPath, "--load", "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrLoadNotFound)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestLoadsListing(t *testing.T) {
	logPath := testutil.WriteLog(t, testutil.ReferenceLog())
	dbPath := filepath.Join(t.TempDir(), "mps7.db")

	_, err := exportWithID(t, "text", "load-a", logPath, dbPath)
	require.NoError(t, err)
	_, err = exportWithID(t, "text", "load-b", logPath, dbPath)
	require.NoError(t, err)

	out, _, err := executeRoot(t, "loads", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "load-a")
	assert.Contains(t, out, "load-b")
	assert.Less(t, bytes.Index([]byte(out), []byte("load-a")), bytes.Index([]byte(out), []byte("load-b")))

	out, _, err = executeRoot(t, "--format", "json", "loads", "--db", dbPath)
	require.NoError(t, err)
	var resp struct {
		Status string           `json:"status"`
		Data   []store.LoadInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "load-a", resp.Data[0].ID)
	assert.Equal(t, int64(1), resp.Data[0].Seq)
	assert.Equal(t, 28, resp.Data[1].DecodedCount)
	assert.Equal(t, logPath, resp.Data[1].Source)
}

func TestLoadsMissingDatabase(t *testing.T) {
	_, _, err := executeRoot(t, "loads", "--db", filepath.Join(t.TempDir(), "absent.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "database not found")
}

func TestLoadsEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "mps7.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, _, err := executeRoot(t, "loads", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No loads found.")
}
