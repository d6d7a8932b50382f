package store

// Store 本地键值持久化适配器：同步读写，值为 JSON 序列化结构。
// Get 读到损坏数据时不报错，返回未命中，由调用方回退到组件默认值；
// 键不存在与值为空是两种可区分的状态。
type Store interface {
	Get(key string, out interface{}) bool
	Set(key string, value interface{}) error
	Remove(key string) error
}
