package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mentor_chat_server/internal/dao/mysql"
	"mentor_chat_server/internal/dao/mysql/mysqltest"
	myredis "mentor_chat_server/internal/dao/redis"
	"mentor_chat_server/internal/handler"
	"mentor_chat_server/internal/router"
	"mentor_chat_server/internal/service"
	"mentor_chat_server/pkg/errorx"
	"mentor_chat_server/pkg/util/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// apiResponse 统一响应信封
type apiResponse struct {
	Code int             `json:"code"`
	Msg  any             `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	myredis.InitWithClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	jwt.Init("api-test-secret", 15, 168)
	require.NoError(t, handler.InitTrans("zh"))

	mem := mysqltest.NewRepositories()
	repos := &mysql.Repositories{
		User:        mem.User,
		MentorPref:  mem.MentorPref,
		StudentPref: mem.StudentPref,
		Assignment:  mem.Assignment,
		Room:        mem.Room,
		Message:     mem.Message,
	}
	services := service.NewServices(repos, nil)
	services.Message.DisableCache()

	engine := gin.New()
	router.NewRouter(handler.NewHandlers(services)).RegisterRoutes(engine)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, token, body string) *apiResponse {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var rsp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rsp))
	return &rsp
}

func registerAndLogin(t *testing.T, engine *gin.Engine, name, email, role string) (uuid, token string) {
	t.Helper()
	body := fmt.Sprintf(`{"realName":%q,"email":%q,"password":"secret123","role":%q}`, name, email, role)
	rsp := doJSON(t, engine, http.MethodPost, "/auth/register", "", body)
	require.Equal(t, errorx.CodeSuccess, rsp.Code)

	var registered struct {
		Uuid string `json:"uuid"`
	}
	require.NoError(t, json.Unmarshal(rsp.Data, &registered))

	rsp = doJSON(t, engine, http.MethodPost, "/auth/login", "",
		fmt.Sprintf(`{"email":%q,"password":"secret123"}`, email))
	require.Equal(t, errorx.CodeSuccess, rsp.Code)

	var login struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(rsp.Data, &login))
	return registered.Uuid, login.AccessToken
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	engine := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/room/listForStudent", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var rsp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rsp))
	assert.Equal(t, errorx.CodeUnauthorized, rsp.Code)
}

func TestRegisterValidation(t *testing.T) {
	engine := newTestServer(t)

	// 缺少邮箱
	rsp := doJSON(t, engine, http.MethodPost, "/auth/register", "",
		`{"realName":"张三","password":"secret123","role":"student"}`)
	assert.Equal(t, errorx.CodeInvalidParam, rsp.Code)

	// 非法角色
	rsp = doJSON(t, engine, http.MethodPost, "/auth/register", "",
		`{"realName":"张三","email":"a@b.com","password":"secret123","role":"admin"}`)
	assert.Equal(t, errorx.CodeInvalidParam, rsp.Code)
}

func TestAnonymousChatScenario(t *testing.T) {
	engine := newTestServer(t)

	_, studentToken := registerAndLogin(t, engine, "张三", "student@example.com", "student")
	mentorUuid, mentorToken := registerAndLogin(t, engine, "李老师", "mentor@example.com", "mentor")

	// 导师设置一次性昵称
	rsp := doJSON(t, engine, http.MethodPost, "/preference/setMentorNickname", mentorToken,
		`{"nickname":"Koda"}`)
	require.Equal(t, errorx.CodeSuccess, rsp.Code)

	// 再次换名被拒绝
	rsp = doJSON(t, engine, http.MethodPost, "/preference/setMentorNickname", mentorToken,
		`{"nickname":"Nova"}`)
	assert.Equal(t, errorx.CodePreferenceImmutable, rsp.Code)

	// 学生从导师目录里能看到这位导师，且只看到昵称
	rsp = doJSON(t, engine, http.MethodGet, "/user/mentors", studentToken, "")
	require.Equal(t, errorx.CodeSuccess, rsp.Code)
	var mentors []struct {
		Uuid        string `json:"uuid"`
		DisplayName string `json:"displayName"`
	}
	require.NoError(t, json.Unmarshal(rsp.Data, &mentors))
	require.Len(t, mentors, 1)
	assert.Equal(t, mentorUuid, mentors[0].Uuid)
	assert.Equal(t, "Koda", mentors[0].DisplayName)

	// 学生发起会话，重复发起拿到同一个房间
	rsp = doJSON(t, engine, http.MethodPost, "/room/startOrResume", studentToken,
		fmt.Sprintf(`{"mentorUuid":%q}`, mentorUuid))
	require.Equal(t, errorx.CodeSuccess, rsp.Code)
	var created struct {
		Uuid            string `json:"uuid"`
		CounterpartName string `json:"counterpartName"`
	}
	require.NoError(t, json.Unmarshal(rsp.Data, &created))
	assert.Equal(t, "Koda", created.CounterpartName)

	rsp = doJSON(t, engine, http.MethodPost, "/room/startOrResume", studentToken,
		fmt.Sprintf(`{"mentorUuid":%q}`, mentorUuid))
	require.Equal(t, errorx.CodeSuccess, rsp.Code)
	var resumed struct {
		Uuid string `json:"uuid"`
	}
	require.NoError(t, json.Unmarshal(rsp.Data, &resumed))
	assert.Equal(t, created.Uuid, resumed.Uuid)

	// 学生发消息，默认匿名
	rsp = doJSON(t, engine, http.MethodPost, "/message/send", studentToken,
		fmt.Sprintf(`{"roomUuid":%q,"content":"hello"}`, created.Uuid))
	require.Equal(t, errorx.CodeSuccess, rsp.Code)
	var sent struct {
		DisplayName string `json:"displayName"`
	}
	require.NoError(t, json.Unmarshal(rsp.Data, &sent))
	assert.Equal(t, "Anonymous 1", sent.DisplayName)

	// 导师回消息，显示导师昵称
	rsp = doJSON(t, engine, http.MethodPost, "/message/send", mentorToken,
		fmt.Sprintf(`{"roomUuid":%q,"content":"你好"}`, created.Uuid))
	require.Equal(t, errorx.CodeSuccess, rsp.Code)
	require.NoError(t, json.Unmarshal(rsp.Data, &sent))
	assert.Equal(t, "Koda", sent.DisplayName)

	// 双方都能按序拉到两条消息
	rsp = doJSON(t, engine, http.MethodGet, "/message/list?roomId="+created.Uuid, mentorToken, "")
	require.Equal(t, errorx.CodeSuccess, rsp.Code)
	var list []struct {
		DisplayName string `json:"displayName"`
		Content     string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(rsp.Data, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Anonymous 1", list[0].DisplayName)
	assert.Equal(t, "hello", list[0].Content)
	assert.Equal(t, "Koda", list[1].DisplayName)

	// 空白消息被拒绝
	rsp = doJSON(t, engine, http.MethodPost, "/message/send", studentToken,
		fmt.Sprintf(`{"roomUuid":%q,"content":"   "}`, created.Uuid))
	assert.Equal(t, errorx.CodeInvalidParam, rsp.Code)
}

func TestMentorInitiatedChatScenario(t *testing.T) {
	engine := newTestServer(t)

	studentUuid, studentToken := registerAndLogin(t, engine, "张三", "student@example.com", "student")
	mentorUuid, mentorToken := registerAndLogin(t, engine, "李老师", "mentor@example.com", "mentor")

	// 学生目录只对导师开放
	rsp := doJSON(t, engine, http.MethodGet, "/user/students", studentToken, "")
	assert.Equal(t, errorx.CodeForbidden, rsp.Code)

	// 导师从学生目录里只看到匿名编号，看不到真实姓名
	rsp = doJSON(t, engine, http.MethodGet, "/user/students", mentorToken, "")
	require.Equal(t, errorx.CodeSuccess, rsp.Code)
	var students []struct {
		Uuid        string `json:"uuid"`
		DisplayName string `json:"displayName"`
	}
	require.NoError(t, json.Unmarshal(rsp.Data, &students))
	require.Len(t, students, 1)
	assert.Equal(t, studentUuid, students[0].Uuid)
	assert.Equal(t, "Anonymous 1", students[0].DisplayName)

	// 对端标识缺失时拒绝
	rsp = doJSON(t, engine, http.MethodPost, "/room/startOrResume", mentorToken, `{}`)
	assert.Equal(t, errorx.CodeInvalidParam, rsp.Code)

	// 导师发起会话，返回里带学生的匿名展示名
	rsp = doJSON(t, engine, http.MethodPost, "/room/startOrResume", mentorToken,
		fmt.Sprintf(`{"studentUuid":%q}`, studentUuid))
	require.Equal(t, errorx.CodeSuccess, rsp.Code)
	var created struct {
		Uuid            string `json:"uuid"`
		CounterpartName string `json:"counterpartName"`
	}
	require.NoError(t, json.Unmarshal(rsp.Data, &created))
	assert.Equal(t, "Anonymous 1", created.CounterpartName)

	// 学生随后发起，拿到同一个房间
	rsp = doJSON(t, engine, http.MethodPost, "/room/startOrResume", studentToken,
		fmt.Sprintf(`{"mentorUuid":%q}`, mentorUuid))
	require.Equal(t, errorx.CodeSuccess, rsp.Code)
	var resumed struct {
		Uuid string `json:"uuid"`
	}
	require.NoError(t, json.Unmarshal(rsp.Data, &resumed))
	assert.Equal(t, created.Uuid, resumed.Uuid)

	// 双方都能在导师发起的房间里收发
	rsp = doJSON(t, engine, http.MethodPost, "/message/send", mentorToken,
		fmt.Sprintf(`{"roomUuid":%q,"content":"同学你好"}`, created.Uuid))
	require.Equal(t, errorx.CodeSuccess, rsp.Code)
	rsp = doJSON(t, engine, http.MethodPost, "/message/send", studentToken,
		fmt.Sprintf(`{"roomUuid":%q,"content":"老师好"}`, created.Uuid))
	require.Equal(t, errorx.CodeSuccess, rsp.Code)
}

func TestDisplayModeSwitchOverHTTP(t *testing.T) {
	engine := newTestServer(t)
	_, studentToken := registerAndLogin(t, engine, "张三", "student@example.com", "student")

	// 没有昵称时直接切昵称模式被拒绝
	rsp := doJSON(t, engine, http.MethodPost, "/preference/setDisplayMode", studentToken,
		`{"mode":"nickname"}`)
	assert.Equal(t, errorx.CodeInvalidParam, rsp.Code)

	// 携带昵称切换成功
	rsp = doJSON(t, engine, http.MethodPost, "/preference/setDisplayMode", studentToken,
		`{"mode":"nickname","nickname":"starlight"}`)
	require.Equal(t, errorx.CodeSuccess, rsp.Code)

	// 查询能读回冻结的昵称
	rsp = doJSON(t, engine, http.MethodGet, "/preference/student", studentToken, "")
	require.Equal(t, errorx.CodeSuccess, rsp.Code)
	var pref struct {
		DisplayMode string `json:"displayMode"`
		Nickname    string `json:"nickname"`
	}
	require.NoError(t, json.Unmarshal(rsp.Data, &pref))
	assert.Equal(t, "nickname", pref.DisplayMode)
	assert.Equal(t, "starlight", pref.Nickname)

	// 导师专属接口对学生关闭
	rsp = doJSON(t, engine, http.MethodPost, "/preference/setMentorNickname", studentToken,
		`{"nickname":"Koda"}`)
	assert.Equal(t, errorx.CodeForbidden, rsp.Code)
}
