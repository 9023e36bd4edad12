package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - 参考数据错误：UNKNOWN_LOCATION
//   - 打分错误：SCHEMA_MISMATCH
//   - 服务入参错误：INVALID_INPUT
//   - 存储错误：NOT_FOUND, NOT_SUPPORTED
type DomainError struct {
	Code    string // 错误代码（如 "UNKNOWN_LOCATION", "SCHEMA_MISMATCH"）
	Message string // 错误消息
	Module  string // 模块名称（如 "refdata", "score", "service"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	// ErrorCodeUnknownLocation 地区编码不在参考数据中；距离无法安全降级，
	// 单次评估失败（批处理跳过该对，在线请求返回客户端错误）
	ErrorCodeUnknownLocation = "UNKNOWN_LOCATION"

	// ErrorCodeSchemaMismatch 特征向量形状与分类器期望的输入不一致；
	// 此边界上禁止静默补齐/截断
	ErrorCodeSchemaMismatch = "SCHEMA_MISMATCH"

	// ErrorCodeInvalidInput 缺失必填字段，请求在抽取前被拒绝
	ErrorCodeInvalidInput = "INVALID_INPUT"

	ErrorCodeNotFound      = "NOT_FOUND"       // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"   // 操作不支持
	ErrorCodeUnavailable   = "UNAVAILABLE"     // 服务不可用
	ErrorCodeInternalError = "INTERNAL_ERROR"  // 内部错误
)

// 模块名称常量
const (
	ModuleRefData = "refdata" // 参考数据模块
	ModuleSchema  = "schema"  // 特征 schema 模块
	ModuleFeature = "feature" // 特征抽取模块
	ModuleRule    = "rule"    // 规则过滤模块
	ModuleScore   = "score"   // 打分模块
	ModuleStore   = "store"   // 存储模块
	ModuleService = "service" // 服务模块
)

// IsUnknownLocation 检查错误是否为 UNKNOWN_LOCATION
func IsUnknownLocation(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeUnknownLocation
	}
	return false
}

// IsSchemaMismatch 检查错误是否为 SCHEMA_MISMATCH
func IsSchemaMismatch(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeSchemaMismatch
	}
	return false
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidInput
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}
