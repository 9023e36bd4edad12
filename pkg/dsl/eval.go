package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/symbiolab/matchkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量和函数
func initCELEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		// 定义变量类型
		cel.Variable("features", cel.DynType),
		cel.Variable("candidate", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("mctx", cel.DynType),
	)
	return env, err
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = initCELEnv()
	})
	return celEnv, err
}

// Eval 是规则 DSL 解释器，使用 CEL (Common Expression Language) 实现，
// 用于在固定阈值之外表达自定义的资格规则。
//
// 表达式语法（CEL 标准语法）：
//   - 数值特征：features.location_distance < 500.0
//   - 类别特征：features.offer_compound_class == "plastic"
//   - 候选字段：candidate.offer_compound == candidate.request_compound
//   - 逻辑组合：features.keyword_overlap >= 1.0 && features.regulatory_allowed == 1.0
//   - 标签：label.filtered != null
type Eval struct {
	cand *core.MatchCandidate
	mctx *core.MatchContext
	env  *cel.Env
}

// NewEval 创建一个新的 DSL 解释器。
func NewEval(cand *core.MatchCandidate, mctx *core.MatchContext) *Eval {
	env, _ := getCELEnv()
	return &Eval{
		cand: cand,
		mctx: mctx,
		env:  env,
	}
}

// Evaluate 解析并执行 DSL 表达式，返回布尔结果。
// 空表达式视为恒真。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}
	if e.env == nil {
		return false, fmt.Errorf("cel env not initialized")
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile error: %v", issues.Err())
	}

	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program error: %v", err)
	}

	out, _, err := prg.Eval(e.buildInput())
	if err != nil {
		// 对于不存在的 key，CEL 会返回错误；
		// 用 label.key != null 检查存在性，而不是直接访问
		return false, fmt.Errorf("eval error: %v", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func (e *Eval) buildInput() map[string]interface{} {
	features := make(map[string]interface{})
	if e.cand.Features != nil {
		for _, name := range e.cand.Features.ColumnNames() {
			if s, ok := e.cand.Features.GetCategorical(name); ok {
				features[name] = s
				continue
			}
			if v, ok := e.cand.Features.Get(name); ok {
				features[name] = v
			}
		}
	}

	// label.<key> 直接取 value，和 FilterNode 写入的标签对齐
	labelAccessor := make(map[string]interface{})
	for k, v := range e.cand.Labels {
		labelAccessor[k] = v.Value
	}

	candidate := map[string]interface{}{
		"eligible": e.cand.Eligible,
		"score":    e.cand.Score,
	}
	if e.cand.Offer != nil {
		candidate["offer_company"] = e.cand.Offer.Company
		candidate["offer_compound"] = e.cand.Offer.Compound
		candidate["offer_location"] = e.cand.Offer.Location
	}
	if e.cand.Request != nil {
		candidate["request_company"] = e.cand.Request.Company
		candidate["request_compound"] = e.cand.Request.Compound
		candidate["request_location"] = e.cand.Request.Location
	}

	mctx := map[string]interface{}{}
	if e.mctx != nil {
		mctx["scene"] = e.mctx.Scene
		mctx["registry_version"] = e.mctx.RegistryVersion
		mctx["params"] = e.mctx.Params
	}

	return map[string]interface{}{
		"features":  features,
		"candidate": candidate,
		"label":     labelAccessor,
		"mctx":      mctx,
	}
}
