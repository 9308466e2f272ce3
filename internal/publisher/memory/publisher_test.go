package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublisherStoresMessages(t *testing.T) {
	t.Parallel()

	pub := New()

	id, err := pub.Publish(context.Background(), "funding-complete", map[string]string{"submission_id": "abc"})
	require.NoError(t, err)
	require.Equal(t, "memory-1", id)

	id, err = pub.Publish(context.Background(), "funding-complete", "second")
	require.NoError(t, err)
	require.Equal(t, "memory-2", id)

	msgs := pub.Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, "funding-complete", msgs[0].Topic)
	require.Equal(t, "second", msgs[1].Payload)

	msgs[0].Topic = "modified"
	require.Equal(t, "funding-complete", pub.Messages()[0].Topic)
}
