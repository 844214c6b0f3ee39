package mssession_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mssession/pkg/broadcast"
	"github.com/dmitrymomot/mssession/pkg/mssession"
)

func TestMultiNotifier(t *testing.T) {
	t.Parallel()

	var order []string
	n := mssession.MultiNotifier{
		mssession.NotifierFunc(func(context.Context, mssession.Ready) { order = append(order, "first") }),
		nil,
		mssession.NotifierFunc(func(context.Context, mssession.Ready) { order = append(order, "second") }),
	}

	n.Notify(context.Background(), mssession.Ready{SessionID: "pvs_1_a"})
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestBroadcastNotifier(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := broadcast.NewMemoryBroadcaster[mssession.Ready](4)
	defer b.Close()

	sub := b.Subscribe(ctx)
	manager := mssession.New(mssession.WithNotifier(mssession.NewBroadcastNotifier(b, nil)))

	page := manager.NewPage(mssession.StaticSource{Page: "example.com"})
	id := page.GetOrCompute(ctx)
	page.GetOrCompute(ctx)

	select {
	case msg := <-sub.Receive(ctx):
		assert.Equal(t, id, msg.Data.SessionID)
		assert.Equal(t, page.ID(), msg.Data.PageviewID)
	case <-time.After(time.Second):
		require.Fail(t, "ready signal not delivered")
	}

	select {
	case msg := <-sub.Receive(ctx):
		require.Fail(t, "unexpected second ready signal", "got %+v", msg.Data)
	case <-time.After(20 * time.Millisecond):
	}
}
