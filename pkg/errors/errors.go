package errors

import "errors"

// ErrNotFound 跨层通用"记录不存在"哨兵错误
// Repository 层返回，Service 层通过 errors.Is 映射为各模块业务错误
var ErrNotFound = errors.New("记录不存在")
