package errorx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(cause, CodeDBError, "创建房间")

	assert.Equal(t, "创建房间: dial tcp: connection refused", err.Error())
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, CodeDBError, GetCode(err))
}

func TestGetCodeDefaultsToServerBusy(t *testing.T) {
	assert.Equal(t, CodeServerBusy, GetCode(errors.New("plain error")))
}

func TestGetCodeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("send: %w", ErrPreferenceImmutable)
	assert.Equal(t, CodePreferenceImmutable, GetCode(err))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(Wrap(gorm.ErrRecordNotFound, CodeNotFound, "查询偏好")))
	assert.True(t, IsNotFound(gorm.ErrRecordNotFound))
	assert.False(t, IsNotFound(ErrServerBusy))
	assert.False(t, IsNotFound(nil))
}

func TestIsConflict(t *testing.T) {
	assert.True(t, IsConflict(gorm.ErrDuplicatedKey))
	assert.True(t, IsConflict(Wrap(gorm.ErrDuplicatedKey, CodeConflict, "创建匿名编号")))
	assert.False(t, IsConflict(gorm.ErrRecordNotFound))
}
