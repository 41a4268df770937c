package mesh

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textEvent(id uint32) Event {
	return Event{Envelope: Envelope{ID: id}, Payload: Text("msg")}
}

func TestFeed_PublishNext(t *testing.T) {
	f := NewFeed()

	ok := f.Publish(textEvent(1))
	require.True(t, ok, "publish should succeed")

	got, err := f.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint32(1), got.ID)
	assert.Equal(t, 0, f.Len())
}

func TestFeed_FIFO(t *testing.T) {
	f := NewFeed()

	for i := uint32(1); i <= 3; i++ {
		f.Publish(textEvent(i))
	}
	require.Equal(t, 3, f.Len())

	for i := uint32(1); i <= 3; i++ {
		got, err := f.Next(context.Background())
		require.NoError(t, err)
		assert.Equal(t, i, got.ID)
	}
}

func TestFeed_Next_BlocksUntilPublished(t *testing.T) {
	f := NewFeed()

	done := make(chan Event)
	go func() {
		e, err := f.Next(context.Background())
		if err == nil {
			done <- e
		}
	}()

	// Give goroutine time to block
	time.Sleep(10 * time.Millisecond)

	f.Publish(textEvent(7))

	select {
	case e := <-done:
		assert.Equal(t, uint32(7), e.ID)
	case <-time.After(time.Second):
		t.Fatal("Next did not return after Publish")
	}
}

func TestFeed_Next_ContextCancelled(t *testing.T) {
	f := NewFeed()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := f.Next(ctx)
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Next did not return after cancel")
	}
}

func TestFeed_Close_DrainsThenReportsClosed(t *testing.T) {
	f := NewFeed()
	f.Publish(textEvent(1))
	f.Publish(textEvent(2))
	f.Close()

	assert.False(t, f.Publish(textEvent(3)), "publish after close should fail")

	for i := uint32(1); i <= 2; i++ {
		e, err := f.Next(context.Background())
		require.NoError(t, err)
		assert.Equal(t, i, e.ID)
	}

	_, err := f.Next(context.Background())
	assert.True(t, errors.Is(err, ErrFeedClosed))
}

func TestFeed_Close_WakesWaiter(t *testing.T) {
	f := NewFeed()

	errCh := make(chan error, 1)
	go func() {
		_, err := f.Next(context.Background())
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	f.Close()
	f.Close() // second close is a no-op

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrFeedClosed)
	case <-time.After(time.Second):
		t.Fatal("Close did not wake Next")
	}
}

func TestFeed_ConcurrentPublishers(t *testing.T) {
	f := NewFeed()

	const publishers, perPublisher = 4, 50
	var wg sync.WaitGroup
	for p := 0; p < publishers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perPublisher; i++ {
				f.Publish(textEvent(uint32(i)))
			}
		}()
	}
	wg.Wait()
	f.Close()

	count := 0
	for {
		_, err := f.Next(context.Background())
		if errors.Is(err, ErrFeedClosed) {
			break
		}
		require.NoError(t, err)
		count++
	}
	assert.Equal(t, publishers*perPublisher, count)
}

func TestBoundedFeed_PublishRejectsWhenFull(t *testing.T) {
	f := NewBoundedFeed(2)

	assert.True(t, f.Publish(textEvent(1)))
	assert.True(t, f.Publish(textEvent(2)))
	assert.False(t, f.Publish(textEvent(3)), "publish past the limit should fail")
	assert.Equal(t, 2, f.Len())
}

func TestBoundedFeed_SendWaitsForNext(t *testing.T) {
	f := NewBoundedFeed(1)
	ctx := context.Background()
	require.NoError(t, f.Send(ctx, textEvent(1)))

	sent := make(chan error, 1)
	go func() { sent <- f.Send(ctx, textEvent(2)) }()

	select {
	case <-sent:
		t.Fatal("Send returned while the feed was full")
	case <-time.After(20 * time.Millisecond):
	}
	assert.Equal(t, 1, f.Len())

	got, err := f.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), got.ID)

	select {
	case err := <-sent:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Send did not resume after Next")
	}

	got, err = f.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), got.ID)
}

func TestBoundedFeed_SendHonorsContext(t *testing.T) {
	f := NewBoundedFeed(1)
	require.NoError(t, f.Send(context.Background(), textEvent(1)))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := f.Send(ctx, textEvent(2))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, f.Len())
}

func TestBoundedFeed_CloseWakesSender(t *testing.T) {
	f := NewBoundedFeed(1)
	require.NoError(t, f.Send(context.Background(), textEvent(1)))

	sent := make(chan error, 1)
	go func() { sent <- f.Send(context.Background(), textEvent(2)) }()

	time.Sleep(10 * time.Millisecond)
	f.Close()

	select {
	case err := <-sent:
		assert.ErrorIs(t, err, ErrFeedClosed)
	case <-time.After(time.Second):
		t.Fatal("Close did not wake Send")
	}

	// The event sent before Close is still delivered.
	assert.Len(t, drain(t, f), 1)
	assert.ErrorIs(t, f.Send(context.Background(), textEvent(3)), ErrFeedClosed)
}

func TestBoundedFeed_ConcurrentSenders(t *testing.T) {
	f := NewBoundedFeed(3)
	ctx := context.Background()

	const senders, perSender = 4, 50
	var wg sync.WaitGroup
	for s := 0; s < senders; s++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perSender; i++ {
				assert.NoError(t, f.Send(ctx, textEvent(uint32(i))))
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		f.Close()
		close(done)
	}()

	count := 0
	for {
		_, err := f.Next(ctx)
		if errors.Is(err, ErrFeedClosed) {
			break
		}
		require.NoError(t, err)
		assert.LessOrEqual(t, f.Len(), 3)
		count++
	}
	<-done
	assert.Equal(t, senders*perSender, count)
}
