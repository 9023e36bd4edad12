// Package model 提供 core.Classifier 的具体实现：本地逻辑回归、
// 本地随机森林推理与远程 HTTP 打分服务。
//
// 训练发生在本仓库之外（训练侧导出 artifact），这里只负责推理；
// 所有实现加载后只读，可并发调用。
package model

import "github.com/symbiolab/matchkit/core"

// Classifier 是 core.Classifier 的别名，便于直接 import model 使用。
type Classifier = core.Classifier
