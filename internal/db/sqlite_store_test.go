package db

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soaringjerry/ahpsurvey/internal/api"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "ahp.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	applied, err := RunMigrations(db, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init.sql"}, applied)

	st, err := NewSQLiteStore(db)
	require.NoError(t, err)
	return st
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "ahp.db"))
	require.NoError(t, err)
	defer db.Close()

	first, err := RunMigrations(db, "")
	require.NoError(t, err)
	assert.Len(t, first, 1)

	again, err := RunMigrations(db, "")
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestRunMigrations_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "002_extra.sql"), []byte("CREATE TABLE notes (id TEXT PRIMARY KEY);"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_base.sql"), []byte("CREATE TABLE base (id TEXT PRIMARY KEY);"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o600))

	db, err := Open(filepath.Join(t.TempDir(), "ahp.db"))
	require.NoError(t, err)
	defer db.Close()

	applied, err := RunMigrations(db, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_base.sql", "002_extra.sql"}, applied)

	bad := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(bad, "003_bad.sql"), []byte("CREATE TABLE ("), 0o600))
	_, err = RunMigrations(db, bad)
	assert.ErrorContains(t, err, "003_bad.sql")
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
	_, err = NewSQLiteStore(nil)
	assert.Error(t, err)
}

func TestSQLiteStore_Participants(t *testing.T) {
	st := newTestStore(t)
	created := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, st.AddParticipant(&api.Participant{ID: "P1", Name: "Sara", Email: "sara@example.com", Organization: "GSI", CreatedAt: created}))
	require.NoError(t, st.AddParticipant(&api.Participant{ID: "P0", Name: "Reza", CreatedAt: created.Add(-time.Hour)}))

	p := st.GetParticipant("P1")
	require.NotNil(t, p)
	assert.Equal(t, "Sara", p.Name)
	assert.Equal(t, "GSI", p.Organization)
	assert.Empty(t, p.Position)
	assert.True(t, created.Equal(p.CreatedAt))

	assert.Nil(t, st.GetParticipant("missing"))

	ps := st.ListParticipants()
	require.Len(t, ps, 2)
	assert.Equal(t, "P0", ps[0].ID)

	assert.Error(t, st.AddParticipant(&api.Participant{Name: "no id"}))
}

func TestSQLiteStore_UpsertResponse(t *testing.T) {
	st := newTestStore(t)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, st.AddParticipant(&api.Participant{ID: "P1", Name: "Sara", CreatedAt: now}))

	first := &api.Response{
		ID: "R1", ParticipantID: "P1", Section: "main",
		Judgments: map[string]float64{"0_1": 9, "0_2": 1.0 / 9, "1_2": 9},
		Matrix:    [][]float64{{1, 9, 1.0 / 9}, {1.0 / 9, 1, 9}, {9, 1.0 / 9, 1}},
		Weights:   []float64{1.0 / 3, 1.0 / 3, 1.0 / 3},
		LambdaMax: 10.111, CI: 3.555, CR: 6.13,
		CreatedAt: now,
	}
	require.NoError(t, st.UpsertResponse(first))

	second := &api.Response{
		ID: "R2", ParticipantID: "P1", Section: "main",
		Matrix:    [][]float64{{1, 3, 5}, {1.0 / 3, 1, 2}, {0.2, 0.5, 1}},
		Weights:   []float64{0.6483290138, 0.2296507941, 0.1220201921},
		LambdaMax: 3.0036945981, CI: 0.0018472990, CR: 0.0031849983,
		CreatedAt: now.Add(time.Minute),
	}
	require.NoError(t, st.UpsertResponse(second))
	assert.Equal(t, 1, st.CountResponses())

	rs := st.ListResponses("P1")
	require.Len(t, rs, 1)
	got := rs[0]
	assert.Equal(t, "R2", got.ID)
	assert.Nil(t, got.Judgments)
	assert.Equal(t, second.Matrix, got.Matrix)
	assert.Equal(t, second.Weights, got.Weights)
	assert.Equal(t, second.CR, got.CR)
	assert.True(t, second.CreatedAt.Equal(got.CreatedAt))

	require.NoError(t, st.UpsertResponse(&api.Response{ID: "R3", ParticipantID: "P1", Section: "naturalNoise", Matrix: [][]float64{{1}}, Weights: []float64{1}, CreatedAt: now}))
	all := st.ListResponses("")
	require.Len(t, all, 2)
	assert.Equal(t, "R3", all[0].ID, "ordered by created_at")
	assert.Empty(t, st.ListResponses("nobody"))
}

func TestSQLiteStore_RejectsOrphanResponse(t *testing.T) {
	st := newTestStore(t)
	err := st.UpsertResponse(&api.Response{ID: "R1", ParticipantID: "ghost", Section: "main", CreatedAt: time.Now()})
	assert.Error(t, err)
	assert.Zero(t, st.CountResponses())
}

func TestSQLiteStore_ImportsSnapshot(t *testing.T) {
	mem := api.NewMemoryStore()
	now := time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC)
	require.NoError(t, mem.AddParticipant(&api.Participant{ID: "P1", Name: "Sara", CreatedAt: now}))
	require.NoError(t, mem.UpsertResponse(&api.Response{ID: "R1", ParticipantID: "P1", Section: "main", Matrix: [][]float64{{1}}, Weights: []float64{1}, CreatedAt: now}))

	st := newTestStore(t)
	require.NoError(t, api.CopySnapshot(api.MemoryStoreSnapshot(mem), st))
	assert.Equal(t, 1, st.CountResponses())
	assert.NotNil(t, st.GetParticipant("P1"))
}
