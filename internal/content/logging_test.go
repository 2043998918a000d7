package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hejvi/hejvi/internal/store"
)

type recordingRepo struct {
	events []store.FetchEventData
}

func (r *recordingRepo) AppendFetchEvent(_ context.Context, data store.FetchEventData) error {
	r.events = append(r.events, data)
	return nil
}

func TestLoggingClientRecordsCalls(t *testing.T) {
	mock := NewMockClient()
	mock.AddElement(&Element{ID: 7, HashID: "h7", URL: "https://cdn.test/7.mp4"})
	repo := &recordingRepo{}
	c := WithLogging(mock, repo, nil)

	_, err := c.ElementByHash(context.Background(), "h7")
	require.NoError(t, err)
	_, err = c.ElementByID(context.Background(), 8)
	require.Error(t, err)

	require.Len(t, repo.events, 2)
	assert.Equal(t, OpElementByHash, repo.events[0].Operation)
	assert.Equal(t, "h7", repo.events[0].Key)
	assert.True(t, repo.events[0].Success)
	assert.Equal(t, OpElementByID, repo.events[1].Operation)
	assert.Equal(t, "8", repo.events[1].Key)
	assert.False(t, repo.events[1].Success)
	assert.NotEmpty(t, repo.events[1].ErrorMessage)
}
