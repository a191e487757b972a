package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	if got := KindOf(NotFound("没有这个东西")); got != KindNotFound {
		t.Errorf("KindOf = %d, 期望 KindNotFound", got)
	}

	// 包裹后的分类沿错误链可达
	wrapped := fmt.Errorf("处理失败: %w", Conflict("重复提交"))
	if got := KindOf(wrapped); got != KindConflict {
		t.Errorf("包裹后的 KindOf = %d, 期望 KindConflict", got)
	}

	// 未分类的错误一律按存储层错误处理
	if got := KindOf(errors.New("裸错误")); got != KindStorage {
		t.Errorf("裸错误的 KindOf = %d, 期望 KindStorage", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("磁盘已满")
	err := Storage(cause, "写入失败")
	if !errors.Is(err, cause) {
		t.Error("Storage 应保留底层错误链")
	}
	if err.Error() != "写入失败: 磁盘已满" {
		t.Errorf("错误文本 = %q", err.Error())
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{Validation("输入有误"), http.StatusBadRequest},
		{Unauthorized("未登录"), http.StatusUnauthorized},
		{Forbidden("权限不足"), http.StatusForbidden},
		{NotFound("不存在"), http.StatusNotFound},
		{InvalidState("状态已过期"), http.StatusConflict},
		{Conflict("重复提交"), http.StatusConflict},
		{ResourceExhausted("额度已用完"), http.StatusTooManyRequests},
		{Storage(errors.New("x"), "存储失败"), http.StatusInternalServerError},
		{errors.New("裸错误"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.status {
			t.Errorf("HTTPStatus(%v) = %d, 期望 %d", tc.err, got, tc.status)
		}
	}
}
