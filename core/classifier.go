package core

// Classifier 是已训练分类器的领域接口：输入稠密特征向量，
// 输出"好匹配"的正类概率。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（model）实现
//   - 训练过程不在本核心范围内；实现方只负责推理
//   - 加载后只读，可被多个 goroutine 并发调用
//
// 实现：
//   - model.LRClassifier（本地逻辑回归）
//   - model.ForestClassifier（本地随机森林推理）
//   - model.RemoteClassifier（远程 HTTP 打分服务）
type Classifier interface {
	// Name 返回分类器名称（用于标签/观测）
	Name() string

	// NumFeatures 返回期望的输入维度；<0 表示不校验维度（如远程服务）
	NumFeatures() int

	// PredictProbability 对一条按 registry 列顺序展开的特征向量打分，
	// 返回 [0,1] 区间的正类概率。调用失败原样上抛，不重试。
	PredictProbability(features []float64) (float64, error)
}
