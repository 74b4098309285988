package privacy

import (
	"context"
	"testing"

	"mentor_chat_server/internal/dao/mysql/mysqltest"
	"mentor_chat_server/internal/model"
	"mentor_chat_server/internal/service/anonymity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*Service, *mysqltest.Repositories) {
	repos := mysqltest.NewRepositories()
	anonymitySvc := anonymity.NewService(repos.Assignment)
	svc := NewService(repos.User, repos.MentorPref, repos.StudentPref, anonymitySvc)
	return svc, repos
}

func TestResolveMentorNickname(t *testing.T) {
	svc, repos := newTestService()
	ctx := context.Background()
	require.NoError(t, repos.MentorPref.Create(ctx, &model.MentorPreference{UserUuid: "M1", Nickname: "Koda"}))

	name, err := svc.ResolveDisplayName(ctx, "M1", model.RoleMentor, "S1")
	require.NoError(t, err)
	assert.Equal(t, "Koda", name)
}

func TestResolveMentorWithoutNicknameFallsBack(t *testing.T) {
	svc, _ := newTestService()

	name, err := svc.ResolveDisplayName(context.Background(), "M1", model.RoleMentor, "S1")
	require.NoError(t, err)
	assert.Equal(t, PlaceholderMentor, name)
}

func TestResolveStudentAnonymousDefault(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	// 偏好行不存在 → 默认匿名，首次分配编号 1
	name, err := svc.ResolveDisplayName(ctx, "S1", model.RoleStudent, "M1")
	require.NoError(t, err)
	assert.Equal(t, "Anonymous 1", name)

	// 同一对再次解析编号不变
	name, err = svc.ResolveDisplayName(ctx, "S1", model.RoleStudent, "M1")
	require.NoError(t, err)
	assert.Equal(t, "Anonymous 1", name)

	// 第二个学生对同一导师拿到下一个编号
	name, err = svc.ResolveDisplayName(ctx, "S2", model.RoleStudent, "M1")
	require.NoError(t, err)
	assert.Equal(t, "Anonymous 2", name)
}

func TestResolveStudentNickname(t *testing.T) {
	svc, repos := newTestService()
	ctx := context.Background()
	require.NoError(t, repos.StudentPref.Create(ctx, &model.StudentPreference{
		UserUuid:    "S1",
		DisplayMode: model.DisplayModeNickname,
		Nickname:    "starlight",
	}))

	name, err := svc.ResolveDisplayName(ctx, "S1", model.RoleStudent, "M1")
	require.NoError(t, err)
	assert.Equal(t, "starlight", name)
}

func TestResolveStudentRealName(t *testing.T) {
	svc, repos := newTestService()
	ctx := context.Background()
	repos.User.MustAddUser(model.UserProfile{Uuid: "S1", Role: model.RoleStudent, RealName: "张三"})
	require.NoError(t, repos.StudentPref.Create(ctx, &model.StudentPreference{
		UserUuid:    "S1",
		DisplayMode: model.DisplayModeRealName,
	}))

	name, err := svc.ResolveDisplayName(ctx, "S1", model.RoleStudent, "M1")
	require.NoError(t, err)
	assert.Equal(t, "张三", name)
}

func TestResolveStudentRealNameMissingProfileFallsBack(t *testing.T) {
	svc, repos := newTestService()
	ctx := context.Background()
	require.NoError(t, repos.StudentPref.Create(ctx, &model.StudentPreference{
		UserUuid:    "S1",
		DisplayMode: model.DisplayModeRealName,
	}))

	name, err := svc.ResolveDisplayName(ctx, "S1", model.RoleStudent, "M1")
	require.NoError(t, err)
	assert.Equal(t, PlaceholderStudent, name)
}

func TestLaterModeSwitchDoesNotChangeAssignedNumber(t *testing.T) {
	svc, repos := newTestService()
	ctx := context.Background()

	name, err := svc.ResolveDisplayName(ctx, "S1", model.RoleStudent, "M1")
	require.NoError(t, err)
	assert.Equal(t, "Anonymous 1", name)

	// 切到昵称模式再切回匿名，编号不变
	require.NoError(t, repos.StudentPref.Create(ctx, &model.StudentPreference{
		UserUuid:    "S1",
		DisplayMode: model.DisplayModeNickname,
		Nickname:    "starlight",
	}))
	require.NoError(t, repos.StudentPref.UpdateDisplayMode(ctx, "S1", model.DisplayModeAnonymous))

	name, err = svc.ResolveDisplayName(ctx, "S1", model.RoleStudent, "M1")
	require.NoError(t, err)
	assert.Equal(t, "Anonymous 1", name)
}
