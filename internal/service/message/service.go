// Package message 实现消息通道
// 发送路径：校验 → 解析展示名 → 落库 → 推送订阅者；历史路径：缓存优先的全量/增量读取
package message

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"mentor_chat_server/internal/dao/mysql"
	myredis "mentor_chat_server/internal/dao/redis"
	"mentor_chat_server/internal/dto/respond"
	"mentor_chat_server/internal/model"
	"mentor_chat_server/internal/service/chat"
	"mentor_chat_server/internal/service/privacy"
	"mentor_chat_server/internal/service/room"
	"mentor_chat_server/pkg/constants"
	"mentor_chat_server/pkg/errorx"
	"mentor_chat_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

// 历史消息缓存键前缀，完整键为 room_messages_<房间UUID>
const cacheKeyPrefix = "room_messages_"

// Service 消息服务
type Service struct {
	messages mysql.MessageRepository
	rooms    *room.Service
	privacy  *privacy.Service
	broker   chat.MessageBroker
	useCache bool
}

// NewService 创建消息服务
// broker 可为 nil（纯 HTTP 场景和单元测试），此时只落库不推送
func NewService(messages mysql.MessageRepository, roomSvc *room.Service, privacySvc *privacy.Service, broker chat.MessageBroker) *Service {
	return &Service{
		messages: messages,
		rooms:    roomSvc,
		privacy:  privacySvc,
		broker:   broker,
		useCache: true,
	}
}

// DisableCache 关闭 Redis 缓存（测试用）
func (s *Service) DisableCache() {
	s.useCache = false
}

// Send 发送一条消息
// 展示名在此刻解析并冻结到消息上，之后的偏好切换不回写历史。
// 落库成功即对调用方成功，推送失败由订阅端的历史加载兜底
func (s *Service) Send(ctx context.Context, roomUuid, senderUuid, senderRole, content string) (*respond.MessageRespond, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "消息内容不能为空")
	}

	chatRoom, err := s.rooms.RoomForParticipant(ctx, roomUuid, senderUuid)
	if err != nil {
		return nil, err
	}

	displayName, err := s.privacy.ResolveDisplayName(ctx, senderUuid, senderRole, chatRoom.CounterpartOf(senderUuid))
	if err != nil {
		return nil, err
	}

	msg := model.Message{
		Uuid:        snowflake.GenerateID(),
		RoomUuid:    roomUuid,
		SenderUuid:  senderUuid,
		SenderRole:  senderRole,
		DisplayName: displayName,
		Content:     content,
		Status:      model.MessageStatusUnsent,
	}
	msg.CreatedAt = time.Now()
	if err := s.messages.Create(ctx, &msg); err != nil {
		return nil, err
	}

	rsp := toRespond(&msg)
	s.deliver(roomUuid, msg.Uuid, rsp)
	s.appendToCache(roomUuid, rsp)
	return rsp, nil
}

// AppendFromWire 上行消息落库回调，注入给 Broker
func (s *Service) AppendFromWire(ctx context.Context, in *chat.InboundMessage) error {
	_, err := s.Send(ctx, in.RoomUuid, in.SenderUuid, in.SenderRole, in.Content)
	return err
}

// MarkDelivered 推送成功后把消息状态改为已推送，注入给连接层
func (s *Service) MarkDelivered(messageUuid int64) {
	if err := s.messages.UpdateStatus(context.Background(), messageUuid, model.MessageStatusSent); err != nil {
		zap.L().Error("mark message delivered failed", zap.Int64("messageUuid", messageUuid), zap.Error(err))
	}
}

// GetMessageList 拉取房间消息
//   - afterId = 0：全量历史，缓存优先
//   - afterId > 0：只取该消息之后的增量，直查数据库，用于订阅后补齐空档
//
// 两种读法都按插入序升序返回，消费端按消息 ID 去重即可安全合并实时推送
func (s *Service) GetMessageList(ctx context.Context, roomUuid, userUuid string, afterId int64) ([]respond.MessageRespond, error) {
	if _, err := s.rooms.RoomForParticipant(ctx, roomUuid, userUuid); err != nil {
		return nil, err
	}

	if afterId > 0 {
		found, err := s.messages.FindByRoomUuidAfter(ctx, roomUuid, afterId)
		if err != nil {
			return nil, err
		}
		return toRespondList(found), nil
	}

	if s.useCache {
		cached, err := myredis.GetKey(ctx, cacheKeyPrefix+roomUuid)
		if err == nil && cached != "" {
			var list []respond.MessageRespond
			if err := json.Unmarshal([]byte(cached), &list); err == nil {
				return list, nil
			}
			zap.L().Warn("corrupt message cache, fall back to db", zap.String("roomUuid", roomUuid))
		}
	}

	found, err := s.messages.FindByRoomUuid(ctx, roomUuid)
	if err != nil {
		return nil, err
	}
	list := toRespondList(found)

	if s.useCache {
		payload, err := json.Marshal(list)
		if err == nil {
			key := cacheKeyPrefix + roomUuid
			myredis.SubmitCacheTask(func() {
				if err := myredis.SetKeyEx(context.Background(), key, string(payload), time.Minute*constants.REDIS_TIMEOUT); err != nil {
					zap.L().Error("cache message list failed", zap.Error(err))
				}
			})
		}
	}
	return list, nil
}

// deliver 把落库后的消息推给房间订阅者
func (s *Service) deliver(roomUuid string, messageUuid int64, rsp *respond.MessageRespond) {
	if s.broker == nil {
		return
	}
	payload, err := json.Marshal(&respond.WsMessageRespond{Type: "chat", Message: rsp})
	if err != nil {
		zap.L().Error("marshal ws respond failed", zap.Error(err))
		return
	}
	s.broker.Deliver(roomUuid, messageUuid, payload)
}

// appendToCache 异步把新消息追加到已有的历史缓存
// 缓存未命中时不回填，等下一次全量读取重建
func (s *Service) appendToCache(roomUuid string, rsp *respond.MessageRespond) {
	if !s.useCache {
		return
	}
	key := cacheKeyPrefix + roomUuid
	appended := *rsp
	myredis.SubmitCacheTask(func() {
		cached, err := myredis.GetKey(context.Background(), key)
		if err != nil || cached == "" {
			return
		}
		var list []respond.MessageRespond
		if err := json.Unmarshal([]byte(cached), &list); err != nil {
			return
		}
		list = append(list, appended)
		payload, err := json.Marshal(list)
		if err != nil {
			return
		}
		if err := myredis.SetKeyEx(context.Background(), key, string(payload), time.Minute*constants.REDIS_TIMEOUT); err != nil {
			zap.L().Error("append message cache failed", zap.Error(err))
		}
	})
}

func toRespond(m *model.Message) *respond.MessageRespond {
	return &respond.MessageRespond{
		Uuid:        strconv.FormatInt(m.Uuid, 10),
		RoomUuid:    m.RoomUuid,
		SenderUuid:  m.SenderUuid,
		SenderRole:  m.SenderRole,
		DisplayName: m.DisplayName,
		Content:     m.Content,
		CreatedAt:   m.CreatedAt.Format(time.DateTime),
	}
}

func toRespondList(found []model.Message) []respond.MessageRespond {
	out := make([]respond.MessageRespond, 0, len(found))
	for i := range found {
		out = append(out, *toRespond(&found[i]))
	}
	return out
}
