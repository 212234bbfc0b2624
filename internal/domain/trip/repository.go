package trip

// Repository 行程仓储接口
type Repository interface {
	// Save 保存行程（创建或更新）
	Save(t *Trip) error

	// FindByID 根据 ID 查找行程
	FindByID(id string) (*Trip, error)

	// FindAll 分页获取行程列表
	// userID 为空时返回所有用户的行程
	FindAll(userID string, offset, limit int) ([]*Trip, error)

	// Count 统计行程数量
	Count(userID string) (int, error)
}
