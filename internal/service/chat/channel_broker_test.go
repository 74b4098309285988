package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"mentor_chat_server/internal/dto/respond"
	"mentor_chat_server/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startBroker(t *testing.T) *ChannelBroker {
	t.Helper()
	broker := NewChannelBroker()
	go broker.Start()
	t.Cleanup(broker.Close)
	return broker
}

func waitForClient(t *testing.T, broker *ChannelBroker, userUuid string) *UserConn {
	t.Helper()
	var client *UserConn
	require.Eventually(t, func() bool {
		client = broker.GetClient(userUuid)
		return client != nil
	}, time.Second, 5*time.Millisecond)
	return client
}

func TestRegisterAndUnregisterClient(t *testing.T) {
	broker := startBroker(t)

	client := NewUserConn(nil, "S1", "student")
	broker.RegisterClient(client)
	waitForClient(t, broker, "S1")

	broker.UnregisterClient(client)
	require.Eventually(t, func() bool {
		return broker.GetClient("S1") == nil
	}, time.Second, 5*time.Millisecond)
}

func TestDeliverOnlyToSubscribers(t *testing.T) {
	broker := startBroker(t)

	subscriber := NewUserConn(nil, "S1", "student")
	subscriber.Subscribe("R1")
	bystander := NewUserConn(nil, "S2", "student")

	broker.RegisterClient(subscriber)
	broker.RegisterClient(bystander)
	waitForClient(t, broker, "S1")
	waitForClient(t, broker, "S2")

	broker.Deliver("R1", 42, []byte("payload"))

	select {
	case got := <-subscriber.SendBack:
		assert.Equal(t, int64(42), got.Uuid)
		assert.Equal(t, []byte("payload"), got.Message)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive the message")
	}
	assert.Empty(t, bystander.SendBack)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	broker := startBroker(t)

	client := NewUserConn(nil, "S1", "student")
	client.Subscribe("R1")
	broker.RegisterClient(client)
	waitForClient(t, broker, "S1")

	client.Unsubscribe("R1")
	broker.Deliver("R1", 1, []byte("payload"))
	assert.Empty(t, client.SendBack)
}

func TestDeliverPreservesOrderPerSubscriber(t *testing.T) {
	broker := startBroker(t)

	client := NewUserConn(nil, "S1", "student")
	client.Subscribe("R1")
	broker.RegisterClient(client)
	waitForClient(t, broker, "S1")

	for i := int64(1); i <= 5; i++ {
		broker.Deliver("R1", i, []byte(fmt.Sprintf("m%d", i)))
	}
	for i := int64(1); i <= 5; i++ {
		select {
		case got := <-client.SendBack:
			assert.Equal(t, i, got.Uuid)
		case <-time.After(time.Second):
			t.Fatalf("message %d not delivered", i)
		}
	}
}

func TestPublishFeedsAppendHandler(t *testing.T) {
	broker := startBroker(t)

	received := make(chan *InboundMessage, 1)
	broker.SetAppendHandler(func(_ context.Context, in *InboundMessage) error {
		received <- in
		return nil
	})

	payload, err := json.Marshal(&InboundMessage{
		RoomUuid:   "R1",
		SenderUuid: "S1",
		SenderRole: "student",
		Content:    "hello",
	})
	require.NoError(t, err)
	require.NoError(t, broker.Publish(context.Background(), payload))

	select {
	case in := <-received:
		assert.Equal(t, "R1", in.RoomUuid)
		assert.Equal(t, "S1", in.SenderUuid)
		assert.Equal(t, "hello", in.Content)
	case <-time.After(time.Second):
		t.Fatal("append handler was not invoked")
	}
}

func TestDeliverSkipsClosedConn(t *testing.T) {
	// 登出先关连接、后由 Start 循环移出映射表，
	// 这个窗口里 Deliver 仍能找到该客户端，必须安全跳过而不是写已关闭的通道
	broker := NewChannelBroker()
	client := NewUserConn(nil, "S1", "student")
	client.Subscribe("R1")
	broker.Clients.Store(client.Uuid, client)
	require.NoError(t, client.Close())

	assert.NotPanics(t, func() {
		broker.Deliver("R1", 42, []byte("payload"))
	})
	assert.False(t, client.TrySend(&MessageBack{Message: []byte("late")}))
}

func TestCloseWithoutWsConn(t *testing.T) {
	client := NewUserConn(nil, "S1", "student")
	require.NoError(t, client.Close())
	// 重复关闭幂等
	require.NoError(t, client.Close())
}

func TestAppendFailureNotifiesSender(t *testing.T) {
	broker := startBroker(t)
	broker.SetAppendHandler(func(context.Context, *InboundMessage) error {
		return errorx.New(errorx.CodeInvalidParam, "消息内容不能为空")
	})

	sender := NewUserConn(nil, "S1", "student")
	broker.RegisterClient(sender)
	waitForClient(t, broker, "S1")

	payload, err := json.Marshal(&InboundMessage{RoomUuid: "R1", SenderUuid: "S1", SenderRole: "student"})
	require.NoError(t, err)
	require.NoError(t, broker.Publish(context.Background(), payload))

	select {
	case got := <-sender.SendBack:
		var frame respond.WsMessageRespond
		require.NoError(t, json.Unmarshal(got.Message, &frame))
		assert.Equal(t, "error", frame.Type)
		assert.Equal(t, "消息内容不能为空", frame.Error)
	case <-time.After(time.Second):
		t.Fatal("sender did not receive the error frame")
	}
}

func TestPublishRejectsWhenChannelFull(t *testing.T) {
	// 不启动 Start 循环，通道会被填满
	broker := NewChannelBroker()
	for {
		if err := broker.Publish(context.Background(), []byte("x")); err != nil {
			return // 满了报服务繁忙，符合预期
		}
	}
}
