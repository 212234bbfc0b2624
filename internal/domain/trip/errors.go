package trip

import "errors"

var (
	// ErrTripNotFound 行程不存在
	ErrTripNotFound = errors.New("trip not found")
	// ErrNotAuthorized 用户无权访问该行程
	ErrNotAuthorized = errors.New("not authorized to access this trip")
	// ErrInvalidStatus 无效的行程状态
	ErrInvalidStatus = errors.New("invalid trip status")
	// ErrMissingDestination 缺少目的地
	ErrMissingDestination = errors.New("destination is required")
)
