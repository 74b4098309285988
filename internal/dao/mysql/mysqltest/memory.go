// Package mysqltest 提供 Repository 接口的内存实现，供服务层单元测试使用
// 行为对齐 MySQL 实现：唯一索引冲突返回可被 errorx.IsConflict 识别的错误，
// 未命中返回 CodeNotFound，排序规则与 SQL 查询一致
package mysqltest

import (
	"context"
	"sort"
	"sync"

	"mentor_chat_server/internal/model"
	"mentor_chat_server/pkg/errorx"
)

// Repositories 聚合全部内存仓库，与 mysql.Repositories 的字段结构对应
type Repositories struct {
	User        *UserRepo
	MentorPref  *MentorPrefRepo
	StudentPref *StudentPrefRepo
	Assignment  *AssignmentRepo
	Room        *RoomRepo
	Message     *MessageRepo
}

// NewRepositories 创建一组空的内存仓库
func NewRepositories() *Repositories {
	return &Repositories{
		User:        &UserRepo{users: map[string]*model.UserProfile{}},
		MentorPref:  &MentorPrefRepo{prefs: map[string]*model.MentorPreference{}},
		StudentPref: &StudentPrefRepo{prefs: map[string]*model.StudentPreference{}},
		Assignment:  &AssignmentRepo{},
		Room:        &RoomRepo{},
		Message:     &MessageRepo{},
	}
}

// ==================== UserRepo ====================

// UserRepo 用户档案内存仓库
type UserRepo struct {
	mu    sync.Mutex
	users map[string]*model.UserProfile
}

func (r *UserRepo) FindByUuid(_ context.Context, uuid string) (*model.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[uuid]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, errorx.New(errorx.CodeNotFound, "user not found")
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*model.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, errorx.New(errorx.CodeNotFound, "user not found")
}

func (r *UserRepo) FindByRole(_ context.Context, role string) ([]model.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.UserProfile
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Uuid < out[j].Uuid })
	return out, nil
}

func (r *UserRepo) Create(_ context.Context, user *model.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email || u.Uuid == user.Uuid {
			return errorx.New(errorx.CodeConflict, "duplicate user")
		}
	}
	// 和 GORM 一样触发 BeforeSave 钩子（密码哈希）
	if err := user.BeforeSave(nil); err != nil {
		return errorx.Wrap(err, errorx.CodeDBError, "before save hook failed")
	}
	copied := *user
	r.users[user.Uuid] = &copied
	return nil
}

// MustAddUser 直接放入一条用户档案（测试数据准备用）
func (r *UserRepo) MustAddUser(user model.UserProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.Uuid] = &user
}

// ==================== MentorPrefRepo ====================

// MentorPrefRepo 导师偏好内存仓库
type MentorPrefRepo struct {
	mu    sync.Mutex
	prefs map[string]*model.MentorPreference
}

func (r *MentorPrefRepo) FindByUserUuid(_ context.Context, userUuid string) (*model.MentorPreference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.prefs[userUuid]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, errorx.New(errorx.CodeNotFound, "mentor preference not found")
}

func (r *MentorPrefRepo) Create(_ context.Context, pref *model.MentorPreference) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.prefs[pref.UserUuid]; ok {
		return errorx.New(errorx.CodeConflict, "duplicate mentor preference")
	}
	copied := *pref
	r.prefs[pref.UserUuid] = &copied
	return nil
}

func (r *MentorPrefRepo) SetNicknameOnce(_ context.Context, userUuid, nickname string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.prefs[userUuid]
	if !ok || p.Nickname != "" {
		return 0, nil
	}
	p.Nickname = nickname
	return 1, nil
}

// ==================== StudentPrefRepo ====================

// StudentPrefRepo 学生偏好内存仓库
type StudentPrefRepo struct {
	mu    sync.Mutex
	prefs map[string]*model.StudentPreference
}

func (r *StudentPrefRepo) FindByUserUuid(_ context.Context, userUuid string) (*model.StudentPreference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.prefs[userUuid]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, errorx.New(errorx.CodeNotFound, "student preference not found")
}

func (r *StudentPrefRepo) Create(_ context.Context, pref *model.StudentPreference) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.prefs[pref.UserUuid]; ok {
		return errorx.New(errorx.CodeConflict, "duplicate student preference")
	}
	copied := *pref
	if copied.DisplayMode == "" {
		copied.DisplayMode = model.DisplayModeAnonymous
	}
	r.prefs[pref.UserUuid] = &copied
	return nil
}

func (r *StudentPrefRepo) UpdateDisplayMode(_ context.Context, userUuid, mode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.prefs[userUuid]
	if !ok {
		return errorx.New(errorx.CodeNotFound, "student preference not found")
	}
	p.DisplayMode = mode
	return nil
}

func (r *StudentPrefRepo) SetNicknameOnce(_ context.Context, userUuid, nickname string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.prefs[userUuid]
	if !ok || p.Nickname != "" {
		return 0, nil
	}
	p.Nickname = nickname
	return 1, nil
}

// ==================== AssignmentRepo ====================

// AssignmentRepo 匿名编号内存仓库
// 插入时同时校验 (student, mentor) 与 (mentor, number) 两个唯一索引
type AssignmentRepo struct {
	mu   sync.Mutex
	rows []model.AnonymityAssignment
}

func (r *AssignmentRepo) FindByPair(_ context.Context, studentUuid, mentorUuid string) (*model.AnonymityAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].StudentUuid == studentUuid && r.rows[i].MentorUuid == mentorUuid {
			row := r.rows[i]
			return &row, nil
		}
	}
	return nil, errorx.New(errorx.CodeNotFound, "assignment not found")
}

func (r *AssignmentRepo) MaxNumberForMentor(_ context.Context, mentorUuid string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	maxNumber := 0
	for i := range r.rows {
		if r.rows[i].MentorUuid == mentorUuid && r.rows[i].Number > maxNumber {
			maxNumber = r.rows[i].Number
		}
	}
	return maxNumber, nil
}

func (r *AssignmentRepo) Create(_ context.Context, assignment *model.AnonymityAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].StudentUuid == assignment.StudentUuid && r.rows[i].MentorUuid == assignment.MentorUuid {
			return errorx.New(errorx.CodeConflict, "duplicate pair")
		}
		if r.rows[i].MentorUuid == assignment.MentorUuid && r.rows[i].Number == assignment.Number {
			return errorx.New(errorx.CodeConflict, "duplicate number")
		}
	}
	r.rows = append(r.rows, *assignment)
	return nil
}

// Rows 返回当前全部分配的快照
func (r *AssignmentRepo) Rows() []model.AnonymityAssignment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.AnonymityAssignment, len(r.rows))
	copy(out, r.rows)
	return out
}

// ==================== RoomRepo ====================

// RoomRepo 房间内存仓库
type RoomRepo struct {
	mu   sync.Mutex
	rows []model.ChatRoom
}

func (r *RoomRepo) FindByUuid(_ context.Context, uuid string) (*model.ChatRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].Uuid == uuid {
			row := r.rows[i]
			return &row, nil
		}
	}
	return nil, errorx.New(errorx.CodeNotFound, "room not found")
}

func (r *RoomRepo) FindByPair(_ context.Context, studentUuid, mentorUuid string) (*model.ChatRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].StudentUuid == studentUuid && r.rows[i].MentorUuid == mentorUuid {
			row := r.rows[i]
			return &row, nil
		}
	}
	return nil, errorx.New(errorx.CodeNotFound, "room not found")
}

func (r *RoomRepo) FindActiveByMentor(_ context.Context, mentorUuid string) (*model.ChatRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// 与 SQL 的 ORDER BY created_at DESC LIMIT 1 对应：取最后插入的活跃房间
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].MentorUuid == mentorUuid && r.rows[i].Status == model.RoomStatusActive {
			row := r.rows[i]
			return &row, nil
		}
	}
	return nil, errorx.New(errorx.CodeNotFound, "no active room")
}

func (r *RoomRepo) FindByStudent(_ context.Context, studentUuid string) ([]model.ChatRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ChatRoom
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].StudentUuid == studentUuid {
			out = append(out, r.rows[i])
		}
	}
	return out, nil
}

func (r *RoomRepo) Create(_ context.Context, room *model.ChatRoom) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].StudentUuid == room.StudentUuid && r.rows[i].MentorUuid == room.MentorUuid {
			return errorx.New(errorx.CodeConflict, "duplicate room pair")
		}
		if r.rows[i].Uuid == room.Uuid {
			return errorx.New(errorx.CodeConflict, "duplicate room uuid")
		}
	}
	if room.Status == "" {
		room.Status = model.RoomStatusActive
	}
	r.rows = append(r.rows, *room)
	return nil
}

// Rows 返回当前全部房间的快照
func (r *RoomRepo) Rows() []model.ChatRoom {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.ChatRoom, len(r.rows))
	copy(out, r.rows)
	return out
}

// ==================== MessageRepo ====================

// MessageRepo 消息内存仓库
type MessageRepo struct {
	mu   sync.Mutex
	rows []model.Message
}

func (r *MessageRepo) FindByRoomUuid(_ context.Context, roomUuid string) ([]model.Message, error) {
	return r.findByRoom(roomUuid, 0)
}

func (r *MessageRepo) FindByRoomUuidAfter(_ context.Context, roomUuid string, afterUuid int64) ([]model.Message, error) {
	return r.findByRoom(roomUuid, afterUuid)
}

func (r *MessageRepo) findByRoom(roomUuid string, afterUuid int64) ([]model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Message
	for i := range r.rows {
		if r.rows[i].RoomUuid == roomUuid && r.rows[i].Uuid > afterUuid {
			out = append(out, r.rows[i])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Uuid < out[j].Uuid })
	return out, nil
}

func (r *MessageRepo) Create(_ context.Context, message *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].Uuid == message.Uuid {
			return errorx.New(errorx.CodeConflict, "duplicate message uuid")
		}
	}
	r.rows = append(r.rows, *message)
	return nil
}

func (r *MessageRepo) UpdateStatus(_ context.Context, uuid int64, status int8) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].Uuid == uuid {
			r.rows[i].Status = status
			return nil
		}
	}
	return errorx.New(errorx.CodeNotFound, "message not found")
}
