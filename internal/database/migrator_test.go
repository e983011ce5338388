package database

import (
	"context"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMigrations = fstest.MapFS{
	"m/1_create_a.up.sql":   {Data: []byte("CREATE TABLE a (id NUMBER);\n")},
	"m/1_create_a.down.sql": {Data: []byte("DROP TABLE a;\n")},
	"m/2_create_b.up.sql":   {Data: []byte("CREATE TABLE b (id NUMBER);\n\nCREATE INDEX ix_b ON b (id);\n")},
	"m/2_create_b.down.sql": {Data: []byte("DROP TABLE b;\n")},
}

func newTestMigrator(t *testing.T) (*Migrator, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	m, err := newMigrator(db, testMigrations, "m")
	require.NoError(t, err)
	return m, mock
}

func expectTableExists(mock sqlmock.Sqlmock, exists bool) {
	n := 0
	if exists {
		n = 1
	}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM user_tables")).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(n))
	if !exists {
		mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE schema_migrations")).WillReturnResult(sqlmock.NewResult(0, 0))
	}
}

func expectVersion(mock sqlmock.Sqlmock, version int64, dirty bool, present bool) {
	rows := sqlmock.NewRows([]string{"VERSION", "DIRTY"})
	if present {
		rows.AddRow(version, dirty)
	}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT version, dirty FROM schema_migrations")).WillReturnRows(rows)
}

func expectSetVersion(mock sqlmock.Sqlmock, version int64, dirty bool) {
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schema_migrations")).WillReturnResult(sqlmock.NewResult(0, 1))
	if version > 0 || dirty {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations (version, dirty)")).
			WithArgs(version, dirty).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()
}

func TestMigrator_UpFromEmpty(t *testing.T) {
	m, mock := newTestMigrator(t)

	expectTableExists(mock, false)
	expectVersion(mock, 0, false, false)

	expectSetVersion(mock, 1, true)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE a (id NUMBER)")).WillReturnResult(sqlmock.NewResult(0, 0))
	expectSetVersion(mock, 1, false)

	expectSetVersion(mock, 2, true)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE b (id NUMBER)")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX ix_b ON b (id)")).WillReturnResult(sqlmock.NewResult(0, 0))
	expectSetVersion(mock, 2, false)

	applied, err := m.Up(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrator_UpAtLatestIsNoop(t *testing.T) {
	m, mock := newTestMigrator(t)

	expectTableExists(mock, true)
	expectVersion(mock, 2, false, true)

	applied, err := m.Up(context.Background())
	require.NoError(t, err)
	assert.Zero(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrator_DownAll(t *testing.T) {
	m, mock := newTestMigrator(t)

	expectTableExists(mock, true)
	expectVersion(mock, 2, false, true)

	expectSetVersion(mock, 2, true)
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE b")).WillReturnResult(sqlmock.NewResult(0, 0))
	expectSetVersion(mock, 1, false)

	expectSetVersion(mock, 1, true)
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE a")).WillReturnResult(sqlmock.NewResult(0, 0))
	expectSetVersion(mock, 0, false)

	reverted, err := m.Down(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, reverted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrator_DownOneStep(t *testing.T) {
	m, mock := newTestMigrator(t)

	expectTableExists(mock, true)
	expectVersion(mock, 2, false, true)
	expectSetVersion(mock, 2, true)
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE b")).WillReturnResult(sqlmock.NewResult(0, 0))
	expectSetVersion(mock, 1, false)

	reverted, err := m.Down(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, reverted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrator_RefusesDirtySchema(t *testing.T) {
	m, mock := newTestMigrator(t)

	expectTableExists(mock, true)
	expectVersion(mock, 2, true, true)

	_, err := m.Up(context.Background())
	assert.ErrorIs(t, err, ErrDirty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrator_Force(t *testing.T) {
	m, mock := newTestMigrator(t)

	expectTableExists(mock, true)
	expectSetVersion(mock, 1, false)

	require.NoError(t, m.Force(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	m, err := NewMigrator(nil)
	require.NoError(t, err)
	defer m.Close()

	v, err := m.src.First()
	require.NoError(t, err)
	count := 0
	for {
		_, _, err := m.src.ReadUp(v)
		require.NoError(t, err, "missing up migration for %d", v)
		_, _, err = m.src.ReadDown(v)
		require.NoError(t, err, "missing down migration for %d", v)
		count++
		next, err := m.src.Next(v)
		if err != nil {
			break
		}
		v = next
	}
	assert.Equal(t, 3, count)
}

func TestSplitStatements(t *testing.T) {
	got := splitStatements("CREATE TABLE a (id NUMBER);\n\n  CREATE INDEX i ON a (id) ;\n;\n")
	assert.Equal(t, []string{"CREATE TABLE a (id NUMBER)", "CREATE INDEX i ON a (id)"}, got)
}
