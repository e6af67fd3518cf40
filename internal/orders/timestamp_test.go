package orders

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/go-restaurant-orderboard/internal/kv"
)

func TestTimestamp_Decode(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2025-03-01T09:30:00Z"`), &ts))
	assert.True(t, ts.Time.Equal(time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)))
	assert.Empty(t, ts.Raw)

	require.NoError(t, json.Unmarshal([]byte(`"3/1/2025, 5:30:00 PM"`), &ts))
	assert.Equal(t, "3/1/2025, 5:30:00 PM", ts.Raw)
	assert.True(t, ts.Time.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`1740821400000`), &ts))
	assert.Equal(t, int64(1740821400000), ts.Time.UnixMilli())

	assert.Error(t, json.Unmarshal([]byte(`{}`), &ts))
}

// A blob written by the browser app loads, and its locale timestamp survives a save.
func TestStore_LoadsBrowserBlob(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryBackend()
	legacy := `[{"id":"K3J9X2M1Q","orderNumber":"#0042","customer":{"name":"Ana","tableNumber":"5"},` +
		`"orderType":"dine-in","paymentMethod":"cash","items":[{"id":1,"name":"Pizza Margherita","price":649.5,"quantity":1}],` +
		`"total":649.5,"status":"pending","timestamp":"3/1/2025, 5:30:00 PM"}]`
	_, err := backend.Put(ctx, StoreKey, []byte(legacy), kv.AnyVersion)
	require.NoError(t, err)

	store := NewStore(backend)
	list, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "3/1/2025, 5:30:00 PM", list[0].Timestamp.String())

	require.NoError(t, store.Save(ctx, list))
	blob, err := backend.Get(ctx, StoreKey)
	require.NoError(t, err)
	assert.Contains(t, string(blob.Data), `"timestamp":"3/1/2025, 5:30:00 PM"`)
}
