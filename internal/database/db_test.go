package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuddyApator/Energie-Buddy/pkg/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestReadingRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	recordedAt := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)
	reading := &models.Reading{UserID: "alice", RecordedAt: recordedAt, Value: 1234.5}

	require.NoError(t, db.InsertReading(ctx, reading))
	assert.NotZero(t, reading.ID)

	stored, err := db.ListReadings(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "alice", stored[0].UserID)
	assert.True(t, stored[0].RecordedAt.Equal(recordedAt))
	assert.Equal(t, 1234.5, stored[0].Value)
}

func TestListReadingsPreservesInsertionOrder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	values := []float64{100, 101.5, 103, 99}
	for _, v := range values {
		require.NoError(t, db.InsertReading(ctx, &models.Reading{UserID: "alice", RecordedAt: at, Value: v}))
	}

	stored, err := db.ListReadings(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, stored, len(values))
	for i, v := range values {
		assert.Equal(t, v, stored[i].Value)
	}
}

func TestListReadingsIsolatedPerUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, db.InsertReading(ctx, &models.Reading{UserID: "alice", RecordedAt: at, Value: 10}))
	require.NoError(t, db.InsertReading(ctx, &models.Reading{UserID: "bob", RecordedAt: at, Value: 20}))

	stored, err := db.ListReadings(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "alice", stored[0].UserID)
}

func TestEmptyLedgerIsEmptyNotError(t *testing.T) {
	db := newTestDB(t)

	stored, err := db.ListReadings(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestPublishedFlag(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	at := time.Now().UTC().Truncate(time.Second)
	first := &models.Reading{UserID: "alice", RecordedAt: at, Value: 10}
	second := &models.Reading{UserID: "alice", RecordedAt: at.Add(time.Hour), Value: 12}
	require.NoError(t, db.InsertReading(ctx, first))
	require.NoError(t, db.InsertReading(ctx, second))

	require.NoError(t, db.MarkPublished(ctx, first.ID))

	unpublished, err := db.ListUnpublishedReadings(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, unpublished, 1)
	assert.Equal(t, second.ID, unpublished[0].ID)
}

func TestUserRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := &models.User{
		ID:          "bob@example.com",
		Password:    "right",
		DisplayName: "Bob",
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, db.InsertUser(ctx, user))

	stored, err := db.GetUser(ctx, "bob@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Bob", stored.DisplayName)
	assert.Equal(t, "right", stored.Password)

	// Lookup is case-sensitive exact match.
	missing, err := db.GetUser(ctx, "BOB@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDuplicateUserInsertFails(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := &models.User{ID: "bob", Password: "x", DisplayName: "Bob", CreatedAt: time.Now()}
	require.NoError(t, db.InsertUser(ctx, user))
	assert.Error(t, db.InsertUser(ctx, user))
}
