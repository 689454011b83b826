package db

import (
	"context"
	"errors"
	"testing"

	"github.com/spacesedan/sentidash/internal/clients"
	"github.com/spacesedan/sentidash/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"
	"github.com/valkey-io/valkey-go/mock"
	"go.uber.org/mock/gomock"
)

func newMockValkeyHistory(t *testing.T, limit int) (*ValkeyHistory, *mock.Client) {
	t.Helper()
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	return NewValkeyHistory(&clients.ValkeyClient{Client: client}, limit), client
}

func valkeyEntry(id float64, text string) models.HistoryEntry {
	entry := models.HistoryEntry{ID: id}
	entry.Text = text
	entry.Sentiment = models.Sentiment{Score: 0.5, Label: models.LabelPositive, Confidence: 0.6}
	return entry
}

func TestEncodeDecodeEntries_SkipsCorruptDocuments(t *testing.T) {
	entry := valkeyEntry(1700000000000.5, "great stuff")

	docs, err := encodeEntries([]models.HistoryEntry{entry})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Contains(t, docs[0], `"id":1700000000000.5`)

	decoded := decodeEntries(append(docs, "{not json"))
	require.Len(t, decoded, 1)
	assert.Equal(t, entry.ID, decoded[0].ID)
	assert.Equal(t, entry.Sentiment, decoded[0].Sentiment)
}

func TestValkeyHistory_PrependPushesThenTrims(t *testing.T) {
	h, client := newMockValkeyHistory(t, 5)

	entries := []models.HistoryEntry{valkeyEntry(1, "older"), valkeyEntry(2, "newer")}
	docs, err := encodeEntries(entries)
	require.NoError(t, err)

	client.EXPECT().
		DoMulti(gomock.Any(),
			mock.Match("LPUSH", VALKEY_HISTORY_KEY, docs[0], docs[1]),
			mock.Match("LTRIM", VALKEY_HISTORY_KEY, "0", "4"),
		).
		Return([]valkey.ValkeyResult{
			mock.Result(mock.ValkeyInt64(2)),
			mock.Result(mock.ValkeyString("OK")),
		})

	require.NoError(t, h.Prepend(context.Background(), entries...))
}

func TestValkeyHistory_PrependNothingSendsNothing(t *testing.T) {
	h, _ := newMockValkeyHistory(t, 5)
	assert.NoError(t, h.Prepend(context.Background()))
}

func TestValkeyHistory_PrependReportsErrors(t *testing.T) {
	h, client := newMockValkeyHistory(t, DefaultHistoryLimit)

	client.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]valkey.ValkeyResult{
			mock.ErrorResult(errors.New("READONLY replica")),
			mock.ErrorResult(errors.New("READONLY replica")),
		}).
		Times(valkeyRetries)

	assert.Error(t, h.Prepend(context.Background(), valkeyEntry(1, "x")))
}

func TestValkeyHistory_ListDecodesRange(t *testing.T) {
	h, client := newMockValkeyHistory(t, DefaultHistoryLimit)

	docs, err := encodeEntries([]models.HistoryEntry{valkeyEntry(2, "newest"), valkeyEntry(1, "oldest")})
	require.NoError(t, err)

	client.EXPECT().
		Do(gomock.Any(), mock.Match("LRANGE", VALKEY_HISTORY_KEY, "0", "-1")).
		Return(mock.Result(mock.ValkeyArray(
			mock.ValkeyString(docs[0]),
			mock.ValkeyString("{not json"),
			mock.ValkeyString(docs[1]),
		)))

	entries, err := h.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "newest", entries[0].Text)
	assert.Equal(t, float64(2), entries[0].ID)
	assert.Equal(t, "oldest", entries[1].Text)
}

func TestValkeyHistory_ListMissingKeyIsEmpty(t *testing.T) {
	h, client := newMockValkeyHistory(t, DefaultHistoryLimit)

	client.EXPECT().
		Do(gomock.Any(), mock.Match("LRANGE", VALKEY_HISTORY_KEY, "0", "-1")).
		Return(mock.Result(mock.ValkeyNil()))

	entries, err := h.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestValkeyHistory_ClearDeletesKey(t *testing.T) {
	h, client := newMockValkeyHistory(t, DefaultHistoryLimit)

	client.EXPECT().
		Do(gomock.Any(), mock.Match("DEL", VALKEY_HISTORY_KEY)).
		Return(mock.Result(mock.ValkeyInt64(1)))

	require.NoError(t, h.Clear(context.Background()))
}

func TestValkeyHistory_ClearRetriesThenFails(t *testing.T) {
	h, client := newMockValkeyHistory(t, DefaultHistoryLimit)

	client.EXPECT().
		Do(gomock.Any(), mock.Match("DEL", VALKEY_HISTORY_KEY)).
		Return(mock.ErrorResult(errors.New("LOADING dataset in memory"))).
		Times(valkeyRetries)

	assert.Error(t, h.Clear(context.Background()))
}
