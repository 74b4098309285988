package room

import (
	"context"
	"sync"
	"testing"

	"mentor_chat_server/internal/dao/mysql/mysqltest"
	"mentor_chat_server/internal/dto/respond"
	"mentor_chat_server/internal/model"
	"mentor_chat_server/internal/service/anonymity"
	"mentor_chat_server/internal/service/privacy"
	"mentor_chat_server/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*Service, *mysqltest.Repositories) {
	repos := mysqltest.NewRepositories()
	privacySvc := privacy.NewService(repos.User, repos.MentorPref, repos.StudentPref, anonymity.NewService(repos.Assignment))
	svc := NewService(repos.User, repos.Room, privacySvc)

	repos.User.MustAddUser(model.UserProfile{Uuid: "S1", Role: model.RoleStudent, RealName: "张三"})
	repos.User.MustAddUser(model.UserProfile{Uuid: "M1", Role: model.RoleMentor, RealName: "李老师"})
	return svc, repos
}

func TestStartOrResumeCreatesThenReturnsSameRoom(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.StartOrResume(ctx, "S1", "M1", "S1")
	require.NoError(t, err)
	assert.NotEmpty(t, created.Uuid)
	assert.Equal(t, model.RoomStatusActive, created.Status)

	resumed, err := svc.StartOrResume(ctx, "S1", "M1", "S1")
	require.NoError(t, err)
	assert.Equal(t, created.Uuid, resumed.Uuid)
}

func TestStartOrResumeResolvesCounterpartName(t *testing.T) {
	svc, repos := newTestService()
	ctx := context.Background()
	require.NoError(t, repos.MentorPref.Create(ctx, &model.MentorPreference{UserUuid: "M1", Nickname: "Koda"}))

	// 学生视角看到导师昵称
	created, err := svc.StartOrResume(ctx, "S1", "M1", "S1")
	require.NoError(t, err)
	assert.Equal(t, "M1", created.CounterpartUuid)
	assert.Equal(t, "Koda", created.CounterpartName)

	// 导师视角看到学生的匿名编号
	resumed, err := svc.StartOrResume(ctx, "S1", "M1", "M1")
	require.NoError(t, err)
	assert.Equal(t, created.Uuid, resumed.Uuid)
	assert.Equal(t, "S1", resumed.CounterpartUuid)
	assert.Equal(t, "Anonymous 1", resumed.CounterpartName)
}

func TestStartOrResumeMentorInitiated(t *testing.T) {
	svc, repos := newTestService()
	ctx := context.Background()

	// 导师先发起，学生后发起，落在同一个房间
	created, err := svc.StartOrResume(ctx, "S1", "M1", "M1")
	require.NoError(t, err)
	assert.NotEmpty(t, created.Uuid)

	resumed, err := svc.StartOrResume(ctx, "S1", "M1", "S1")
	require.NoError(t, err)
	assert.Equal(t, created.Uuid, resumed.Uuid)
	assert.Len(t, repos.Room.Rows(), 1)
}

func TestStartOrResumeRejectsUnknownStudent(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.StartOrResume(context.Background(), "nobody", "M1", "M1")
	require.Error(t, err)
	assert.Equal(t, errorx.CodeUserNotExist, errorx.GetCode(err))
}

func TestStartOrResumeRejectsUnknownMentor(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.StartOrResume(context.Background(), "S1", "nobody", "S1")
	require.Error(t, err)
	assert.Equal(t, errorx.CodeUserNotExist, errorx.GetCode(err))
}

func TestStartOrResumeRejectsNonMentorTarget(t *testing.T) {
	svc, repos := newTestService()
	repos.User.MustAddUser(model.UserProfile{Uuid: "S2", Role: model.RoleStudent, RealName: "王五"})

	_, err := svc.StartOrResume(context.Background(), "S1", "S2", "S1")
	require.Error(t, err)
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
}

func TestStartOrResumeConcurrentRace(t *testing.T) {
	svc, repos := newTestService()
	ctx := context.Background()

	const callers = 10
	rooms := make([]*respond.RoomRespond, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rooms[i], errs[i] = svc.StartOrResume(ctx, "S1", "M1", "S1")
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, rooms[0].Uuid, rooms[i].Uuid)
	}
	assert.Len(t, repos.Room.Rows(), 1)
}

func TestActiveRoomForMentorResolvesCounterpartName(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	got, err := svc.ActiveRoomForMentor(ctx, "M1")
	require.NoError(t, err)
	assert.Nil(t, got, "no room yet")

	created, err := svc.StartOrResume(ctx, "S1", "M1", "S1")
	require.NoError(t, err)

	got, err = svc.ActiveRoomForMentor(ctx, "M1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.Uuid, got.Uuid)
	assert.Equal(t, "S1", got.CounterpartUuid)
	// 学生默认匿名，导师看到匿名编号
	assert.Equal(t, "Anonymous 1", got.CounterpartName)
}

func TestRoomsForStudentResolvesMentorName(t *testing.T) {
	svc, repos := newTestService()
	ctx := context.Background()
	require.NoError(t, repos.MentorPref.Create(ctx, &model.MentorPreference{UserUuid: "M1", Nickname: "Koda"}))

	_, err := svc.StartOrResume(ctx, "S1", "M1", "S1")
	require.NoError(t, err)

	list, err := svc.RoomsForStudent(ctx, "S1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "M1", list[0].CounterpartUuid)
	assert.Equal(t, "Koda", list[0].CounterpartName)
}

func TestRoomForParticipant(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.StartOrResume(ctx, "S1", "M1", "S1")
	require.NoError(t, err)

	got, err := svc.RoomForParticipant(ctx, created.Uuid, "S1")
	require.NoError(t, err)
	assert.Equal(t, created.Uuid, got.Uuid)

	_, err = svc.RoomForParticipant(ctx, created.Uuid, "someone-else")
	require.Error(t, err)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	_, err = svc.RoomForParticipant(ctx, "missing", "S1")
	require.Error(t, err)
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
}
