package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"limitd.dev/limitd/params"
)

type testMessage struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func TestPublishSubscribe(t *testing.T) {
	params.SetDataPath(t.TempDir())

	pub := NewPublisher[testMessage]("TestFeed")
	sub := NewSubscriber[testMessage]("TestFeed", false)

	require.NoError(t, pub.Send(true, testMessage{Name: "a", Value: 1}))

	received, success := sub.Read()
	require.True(t, success)
	assert.Equal(t, testMessage{Name: "a", Value: 1}, received)

	// without OnlyNew the same message reads again
	_, success = sub.Read()
	assert.True(t, success)
}

func TestSubscribeOnlyNew(t *testing.T) {
	params.SetDataPath(t.TempDir())

	pub := NewPublisher[testMessage]("TestFeed")
	sub := NewSubscriber[testMessage]("TestFeed", true)

	require.NoError(t, pub.Send(true, testMessage{Value: 1}))

	_, success := sub.Read()
	require.True(t, success)

	// unchanged feed file, nothing new to report
	_, success = sub.Read()
	assert.False(t, success)

	require.NoError(t, pub.Send(true, testMessage{Value: 2}))
	received, success := sub.Read()
	require.True(t, success)
	assert.Equal(t, 2, received.Value)
}

func TestSubscribeInvalidMessage(t *testing.T) {
	params.SetDataPath(t.TempDir())

	pub := NewPublisher[testMessage]("TestFeed")
	sub := NewSubscriber[testMessage]("TestFeed", false)

	require.NoError(t, pub.Send(false, testMessage{Value: 9}))

	_, success := sub.Read()
	assert.False(t, success)
}

func TestSubscribeMissingFeed(t *testing.T) {
	params.SetDataPath(t.TempDir())

	sub := NewSubscriber[testMessage]("NeverPublished", false)
	_, success := sub.Read()
	assert.False(t, success)
}
