// Package store 提供 core.Store / core.KeyValueStore 的具体实现。
// 接口定义在 core 包，这里只包含后端实现：
//
//	MemoryStore  内存实现，用于测试/开发/原型
//	RedisStore   Redis 实现，用于生产环境的撮合历史与信誉特征
//
// 示例：
//
//	var kv core.KeyValueStore = store.NewMemoryStore()
//	svc := feature.NewStorePartyFeatureService(kv)
package store
