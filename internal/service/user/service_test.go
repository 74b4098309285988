package user

import (
	"context"
	"testing"

	"mentor_chat_server/internal/dao/mysql/mysqltest"
	"mentor_chat_server/internal/model"
	"mentor_chat_server/internal/service/anonymity"
	"mentor_chat_server/internal/service/privacy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*Service, *mysqltest.Repositories) {
	repos := mysqltest.NewRepositories()
	anonymitySvc := anonymity.NewService(repos.Assignment)
	privacySvc := privacy.NewService(repos.User, repos.MentorPref, repos.StudentPref, anonymitySvc)
	return NewService(repos.User, privacySvc), repos
}

func TestListMentors(t *testing.T) {
	svc, repos := newTestService()
	ctx := context.Background()
	repos.User.MustAddUser(model.UserProfile{Uuid: "M2", RealName: "李四", Role: model.RoleMentor})
	repos.User.MustAddUser(model.UserProfile{Uuid: "M1", RealName: "张三", Role: model.RoleMentor})
	repos.User.MustAddUser(model.UserProfile{Uuid: "S1", RealName: "王五", Role: model.RoleStudent})
	require.NoError(t, repos.MentorPref.Create(ctx, &model.MentorPreference{UserUuid: "M1", Nickname: "Koda"}))

	list, err := svc.ListMentors(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	// 按 uuid 升序；展示名取导师昵称，未设置时为占位名，不泄露真实姓名
	assert.Equal(t, "M1", list[0].Uuid)
	assert.Equal(t, "Koda", list[0].DisplayName)
	assert.Equal(t, "M2", list[1].Uuid)
	assert.Equal(t, privacy.PlaceholderMentor, list[1].DisplayName)
}

func TestListMentorsEmpty(t *testing.T) {
	svc, _ := newTestService()

	list, err := svc.ListMentors(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListStudentsResolvesPerMentor(t *testing.T) {
	svc, repos := newTestService()
	ctx := context.Background()
	repos.User.MustAddUser(model.UserProfile{Uuid: "S1", RealName: "王五", Role: model.RoleStudent})
	repos.User.MustAddUser(model.UserProfile{Uuid: "S2", RealName: "赵六", Role: model.RoleStudent})
	repos.User.MustAddUser(model.UserProfile{Uuid: "M1", RealName: "李四", Role: model.RoleMentor})

	list, err := svc.ListStudents(ctx, "M1")
	require.NoError(t, err)
	require.Len(t, list, 2)

	// 默认匿名：导师只看到匿名编号，真实姓名不出现
	assert.Equal(t, "S1", list[0].Uuid)
	assert.Equal(t, privacy.AnonymousPrefix+"1", list[0].DisplayName)
	assert.Equal(t, "S2", list[1].Uuid)
	assert.Equal(t, privacy.AnonymousPrefix+"2", list[1].DisplayName)

	// 编号按导师隔离：换个导师重新从 1 开始
	repos.User.MustAddUser(model.UserProfile{Uuid: "M2", RealName: "钱七", Role: model.RoleMentor})
	other, err := svc.ListStudents(ctx, "M2")
	require.NoError(t, err)
	assert.Equal(t, privacy.AnonymousPrefix+"1", other[0].DisplayName)
}

func TestListStudentsHonorsDisplayMode(t *testing.T) {
	svc, repos := newTestService()
	ctx := context.Background()
	repos.User.MustAddUser(model.UserProfile{Uuid: "S1", RealName: "王五", Role: model.RoleStudent})
	require.NoError(t, repos.StudentPref.Create(ctx, &model.StudentPreference{
		UserUuid:    "S1",
		DisplayMode: model.DisplayModeNickname,
		Nickname:    "starlight",
	}))

	list, err := svc.ListStudents(ctx, "M1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "starlight", list[0].DisplayName)
}
