package sqlrows

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/prosuite/evaluation/fieldsetter"
	"github.com/prosuite/evaluation/object"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.Nil(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE roads (
		id INTEGER PRIMARY KEY,
		name TEXT,
		kind INTEGER,
		level REAL,
		tag BLOB
	)`)
	require.Nil(t, err)
	_, err = db.Exec(`INSERT INTO roads (id, name, kind, level, tag) VALUES
		(1, 'Main', 200, -5.5, x'6869'),
		(2, 'Side', NULL, NULL, NULL),
		(3, 'Tunnel', 700, 2, NULL)`)
	require.Nil(t, err)
	return db
}

func TestCollect(t *testing.T) {
	db := openDB(t)
	rows, err := db.Query("SELECT id, name, kind, level, tag FROM roads ORDER BY id")
	require.Nil(t, err)
	defer rows.Close()

	records, err := Collect(rows)
	require.Nil(t, err)
	require.Len(t, records, 3)

	first := records[0]
	require.Equal(t, []string{"id", "name", "kind", "level", "tag"}, first.Names())
	require.Equal(t, object.NewNumber(1), first.GetValue("ID"))
	require.Equal(t, object.NewString("Main"), first.GetValue("name"))
	require.Equal(t, object.NewNumber(200), first.GetValue("kind"))
	require.Equal(t, object.NewNumber(-5.5), first.GetValue("level"))
	require.Equal(t, object.NewString("hi"), first.GetValue("tag"))

	second := records[1]
	require.True(t, second.Exists("kind"))
	require.Equal(t, object.Null, second.GetValue("kind"))
	require.Equal(t, object.Null, second.GetValue("level"))
}

func TestCollectOptions(t *testing.T) {
	db := openDB(t)
	rows, err := db.Query("SELECT id, name FROM roads ORDER BY id")
	require.Nil(t, err)
	defer rows.Close()

	records, err := Collect(rows, WithLimit(2), WithCaseSensitive())
	require.Nil(t, err)
	require.Len(t, records, 2)
	require.True(t, records[0].Exists("name"))
	require.False(t, records[0].Exists("NAME"))
}

func TestApplyFieldSetter(t *testing.T) {
	db := openDB(t)
	rows, err := db.Query("SELECT name, kind, level FROM roads ORDER BY id")
	require.Nil(t, err)
	defer rows.Close()

	records, err := Collect(rows)
	require.Nil(t, err)

	fs, err := fieldsetter.Create("above := DECODE(kind, 200, 100, 700, -100, 0) + (level ?? 0)")
	require.Nil(t, err)
	var above []object.Value
	for _, record := range records {
		require.Nil(t, fs.Execute(record, nil))
		above = append(above, record.GetValue("above"))
	}
	require.Equal(t, []object.Value{
		object.NewNumber(94.5),
		object.NewNumber(0),
		object.NewNumber(-98),
	}, above)
}

func TestValue(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	tests := []struct {
		name     string
		input    any
		expected object.Value
	}{
		{"nil", nil, object.Null},
		{"int64", int64(7), object.NewNumber(7)},
		{"float64", 2.5, object.NewNumber(2.5)},
		{"bool", true, object.True},
		{"string", "x", object.NewString("x")},
		{"bytes", []byte("abc"), object.NewString("abc")},
		{"time", ts, object.NewString("2024-03-01T12:30:00Z")},
		{"null string", sql.NullString{}, object.Null},
		{"valid int", sql.NullInt64{Int64: 3, Valid: true}, object.NewNumber(3)},
		{"valid float", sql.NullFloat64{Float64: 0.5, Valid: true}, object.NewNumber(0.5)},
		{"null bool", sql.NullBool{}, object.Null},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Value(tt.input))
		})
	}
}
