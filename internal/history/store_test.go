package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(brand, product string, at time.Time) ReviewRecord {
	return ReviewRecord{
		ReviewText:   "Honestly better than I expected.",
		ToneID:       "tone_casual",
		ToneStyle:    "casual",
		KeywordsUsed: []string{"creamy", "morning"},
		Category:     "beverage",
		Rating:       4,
		ProductName:  product,
		Brand:        brand,
		SKU:          "SKU-1",
		Timestamp:    FormatTime(at),
		IntroStyle:   "direct",
		NumQuestions: 4,
	}
}

func TestOpen_MissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	store, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, path, store.Path())

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "open must not create the file")
}

func TestOpen_MalformedFileIsEmpty(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"garbage", "{not json"},
		{"wrong shape", `{"reviews": "nope"}`},
		{"empty file", ""},
		{"null reviews", `{"reviews": null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "history.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			store, err := Open(path)
			require.NoError(t, err)
			assert.Equal(t, 0, store.Len())
			assert.NotNil(t, store.Log().Reviews)
		})
	}
}

func TestOpen_ReadsExistingRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	content := `{
  "reviews": [
    {"brand": "Oatly", "product_name": "Oat Milk", "sku": "OAT-1", "rating": 5, "review_text": "x", "timestamp": "2024-03-01T10:00:00.123456"},
    {"brand": "Lays", "product_name": "Classic", "rating": 3, "review_text": "y"}
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	store, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())

	reviews := store.Log().Reviews
	assert.Equal(t, "Oatly", reviews[0].Brand)
	assert.Equal(t, 2024, reviews[0].Time().Year())
	assert.Equal(t, Epoch, reviews[1].Time())
}

func TestOpen_LegacyScalarFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	content := `{
  "reviews": [
    {"brand": "Oatly", "product_name": "Oat Milk", "sku": "OAT-1", "rating": 5, "review_text": "x"},
    {"brand": "Lays", "product_name": "Classic", "sku": 12345, "rating": "3", "num_questions": 4.0, "keywords_used": ["salty", 7], "review_text": "y"}
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	store, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())

	legacy := store.Log().Reviews[1]
	assert.Equal(t, "12345", legacy.SKU)
	assert.Equal(t, 3, legacy.Rating)
	assert.Equal(t, 4, legacy.NumQuestions)
	assert.Equal(t, []string{"salty", "7"}, legacy.KeywordsUsed)

	require.NoError(t, store.Append(sampleRecord("Siete", "Chips", time.Now())))

	reopened, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, 3, reopened.Len())
	assert.Equal(t, "12345", reopened.Log().Reviews[1].SKU)
}

func TestOpen_UnreadableEntryKeptOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	content := `{"reviews": [
    {"brand": {"name": "Oatly"}, "product_name": "Oat Milk", "review_text": "x", "rating": 5},
    {"brand": "Lays", "product_name": "Classic", "review_text": "y", "rating": 3}
  ]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	store, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())
	assert.Equal(t, "Lays", store.Log().Reviews[0].Brand)

	require.NoError(t, store.Append(sampleRecord("Siete", "Chips", time.Now())))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc struct {
		Reviews []json.RawMessage `json:"reviews"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Reviews, 3)
	assert.Contains(t, string(doc.Reviews[0]), `"name": "Oatly"`)
}

func TestAppend_FlushesImmediately(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	store, err := Open(path)
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, store.Append(sampleRecord("Oatly", "Oat Milk", now)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n  \"reviews\": ["), "history should be indented JSON")

	var doc Log
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Reviews, 1)
	assert.Equal(t, "Oat Milk", doc.Reviews[0].ProductName)
	assert.Equal(t, 4, doc.Reviews[0].Rating)
}

func TestAppend_PreservesExistingRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Append(sampleRecord("Oatly", "Oat Milk", time.Now())))

	second, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, second.Append(sampleRecord("Lays", "Classic", time.Now())))

	reopened, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, 2, reopened.Len())
	assert.Equal(t, "Oatly", reopened.Log().Reviews[0].Brand)
	assert.Equal(t, "Lays", reopened.Log().Reviews[1].Brand)
}

func TestAppend_RejectsInvalidRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	store, err := Open(path)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*ReviewRecord)
		field  string
	}{
		{"rating zero", func(r *ReviewRecord) { r.Rating = 0 }, "rating"},
		{"rating six", func(r *ReviewRecord) { r.Rating = 6 }, "rating"},
		{"empty text", func(r *ReviewRecord) { r.ReviewText = "" }, "review_text"},
		{"no product", func(r *ReviewRecord) { r.ProductName = "" }, "product_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := sampleRecord("Oatly", "Oat Milk", time.Now())
			tt.mutate(&rec)

			err := store.Append(rec)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
			assert.Equal(t, 0, store.Len())
		})
	}

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "rejected records must not touch disk")
}

func TestAppend_WriteFailureIsReturned(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "history.json")
	store, err := Open(path)
	require.NoError(t, err)

	err = store.Append(sampleRecord("Oatly", "Oat Milk", time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write history")
	assert.Equal(t, 0, store.Len(), "failed flush must not leave the record in memory")
}

func TestAppend_TimestampsNeverGoBackwards(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	store, err := Open(path)
	require.NoError(t, err)

	later := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	earlier := later.Add(-time.Hour)

	require.NoError(t, store.Append(sampleRecord("A", "One", later)))
	require.NoError(t, store.Append(sampleRecord("B", "Two", earlier)))

	reviews := store.Log().Reviews
	assert.False(t, reviews[1].Time().Before(reviews[0].Time()))
}

func TestAppend_CrashBeforeNextProductKeepsCompletedRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")
	store, err := Open(path)
	require.NoError(t, err)

	for _, name := range []string{"One", "Two", "Three"} {
		require.NoError(t, store.Append(sampleRecord("Brand", name, time.Now())))
	}

	// The fourth product never completes; the process dies here. Nothing
	// but the three flushed records may be on disk, and no temp files may
	// be left behind.
	reopened, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, 3, reopened.Len())
	for _, rec := range reopened.Log().Reviews {
		assert.NotEmpty(t, rec.ReviewText)
		assert.NotEmpty(t, rec.ProductName)
		assert.GreaterOrEqual(t, rec.Rating, 1)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLog_ReturnsCopy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(sampleRecord("Oatly", "Oat Milk", time.Now())))

	snapshot := store.Log()
	snapshot.Reviews[0].Brand = "changed"

	assert.Equal(t, "Oatly", store.Log().Reviews[0].Brand)
}

func TestRecordTime(t *testing.T) {
	tests := []struct {
		name      string
		timestamp string
		wantEpoch bool
	}{
		{"rfc3339", "2025-01-10T14:23:11.123456+02:00", false},
		{"naive", "2025-01-10T14:23:11.123456", false},
		{"naive seconds", "2025-01-10T14:23:11", false},
		{"date only", "2025-01-10", false},
		{"missing", "", true},
		{"garbage", "last tuesday", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReviewRecord{Timestamp: tt.timestamp}.Time()
			if tt.wantEpoch {
				assert.Equal(t, Epoch, got)
			} else {
				assert.Equal(t, 2025, got.Year())
				assert.Equal(t, time.January, got.Month())
			}
		})
	}
}
