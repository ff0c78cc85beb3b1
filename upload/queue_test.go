package upload

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyoez/zipconsole/types"
)

func TestIsZipName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"a.zip", true},
		{"A.ZIP", true},
		{"archive.Zip", true},
		{"a.zip.txt", false},
		{"zip", false},
		{".zip", true},
		{"a.zipx", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsZipName(tt.name), tt.name)
	}
}

func TestPartitionKeepsOrder(t *testing.T) {
	accepted, rejected := Partition(candidates("b.zip", "x.pdf", "a.ZIP", "", "c.zip"))
	names := make([]string, 0, len(accepted))
	for _, item := range accepted {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"b.zip", "a.ZIP", "c.zip"}, names)
	assert.Equal(t, []string{"x.pdf", "Unknown file"}, rejected)
}

func TestRejectionNotice(t *testing.T) {
	assert.Equal(t, "", RejectionNotice(nil))
	assert.Equal(t, "Only .zip files allowed. Ignored: b.txt", RejectionNotice([]string{"b.txt"}))
	assert.Equal(t, "Only .zip files allowed. Ignored: 1, 2, 3", RejectionNotice([]string{"1", "2", "3"}))
	assert.Equal(t, "Only .zip files allowed. Ignored: 1, 2, 3 and 2 more", RejectionNotice([]string{"1", "2", "3", "4", "5"}))
}

func TestValidateAndSetQueueReplacesQueue(t *testing.T) {
	sink := &notifySink{}
	c := NewController(Options{Notify: sink.add})

	rej, err := c.ValidateAndSetQueue(types.InputSourcePicker, candidates("a.zip", "b.txt", "c.zip"))
	require.NoError(t, err)
	assert.Equal(t, 2, rej.Accepted)
	assert.Equal(t, []string{"b.txt"}, rej.Rejected)

	warnings := sink.ofType(types.NotifyTypeQueueRejected)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "b.txt")
	assert.Equal(t, types.NotifyLevelWarning, warnings[0].Level)

	_, err = c.ValidateAndSetQueue(types.InputSourceDrop, candidates("d.zip"))
	require.NoError(t, err)
	s := c.Snapshot()
	require.Len(t, s.Queue, 1)
	assert.Equal(t, "d.zip", s.Queue[0].Name)
}

func TestValidateAndSetQueueAllRejectedIsNoop(t *testing.T) {
	c := NewController(Options{})
	_, err := c.ValidateAndSetQueue(types.InputSourcePicker, candidates("a.zip", "b.zip"))
	require.NoError(t, err)
	_, err = c.Start(context.Background(), func(ctx context.Context, item types.QueueItem) (any, error) {
		return "ok", nil
	})
	require.NoError(t, err)

	rej, err := c.ValidateAndSetQueue(types.InputSourcePicker, candidates("notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, 0, rej.Accepted)

	s := c.Snapshot()
	assert.Len(t, s.Queue, 2)
	assert.Len(t, s.Outcomes, 2, "outcomes survive a selection with nothing accepted")
}

func TestValidateAndSetQueueClearsOutcomes(t *testing.T) {
	c := NewController(Options{})
	_, _ = c.ValidateAndSetQueue(types.InputSourcePicker, candidates("a.zip"))
	_, err := c.Start(context.Background(), func(ctx context.Context, item types.QueueItem) (any, error) {
		return nil, nil
	})
	require.NoError(t, err)
	require.Len(t, c.Snapshot().Outcomes, 1)

	_, err = c.ValidateAndSetQueue(types.InputSourceDrop, candidates("b.zip", "c.zip"))
	require.NoError(t, err)
	s := c.Snapshot()
	assert.Empty(t, s.Outcomes)
	assert.Equal(t, 0, s.CurrentIndex)
	assert.Empty(t, s.RunID)
}

func TestDragIndicator(t *testing.T) {
	c := NewController(Options{})
	c.SetDragActive(true)
	assert.True(t, c.Snapshot().DragActive)
	c.SetDragActive(false)
	assert.False(t, c.Snapshot().DragActive)

	c.SetDragActive(true)
	_, err := c.ValidateAndSetQueue(types.InputSourceDrop, candidates("a.txt"))
	require.NoError(t, err)
	assert.False(t, c.Snapshot().DragActive, "drop clears the indicator even when nothing is accepted")
	assert.Empty(t, c.Snapshot().Queue)
}

func TestReset(t *testing.T) {
	sink := &notifySink{}
	c := NewController(Options{Notify: sink.add})
	_, _ = c.ValidateAndSetQueue(types.InputSourcePicker, candidates("a.zip"))
	require.NoError(t, c.Reset())

	s := c.Snapshot()
	assert.Empty(t, s.Queue)
	assert.Empty(t, s.Outcomes)
	assert.False(t, s.IsRunning)
	assert.Equal(t, 0, s.CurrentIndex)
	assert.Len(t, sink.ofType(types.NotifyTypeQueueReset), 1)
}
