package history

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhongYTB/infinitybodyguard-dashboard/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRecorderNewestFirst(t *testing.T) {
	rec := NewRecorder(testLogger(), nil, 10)

	rec.Record(models.ActionCreate, "AutoFarm", "admin", "42 bytes")
	rec.Record(models.ActionEdit, "AutoFarm", "admin", "50 bytes")
	rec.Record(models.ActionDelete, "AutoFarm", "admin", "")

	entries, err := rec.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, models.ActionDelete, entries[0].Action)
	assert.Equal(t, models.ActionEdit, entries[1].Action)
	assert.Equal(t, models.ActionCreate, entries[2].Action)
	assert.Equal(t, "admin", entries[0].User)
}

func TestRecorderBoundedRing(t *testing.T) {
	rec := NewRecorder(testLogger(), nil, 3)

	for i := 0; i < 10; i++ {
		rec.Record(models.ActionCreate, "Script", "admin", "")
	}

	entries, err := rec.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	// IDs keep climbing even when old entries are evicted.
	assert.Equal(t, uint(10), entries[0].ID)
	assert.Equal(t, uint(8), entries[2].ID)
}
