package errors

// 预定义哨兵错误（用于 errors.Is 比较）
var (
	ErrFileIO         = New(CodeFileIO, "file i/o error")
	ErrBinaryNotFound = New(CodeBinaryNotFound, "tunnel client binary not found")
	ErrDownloadFailed = New(CodeDownloadFailed, "binary download failed")
	ErrPermission     = New(CodePermission, "failed to set executable permission")
	ErrVersionQuery   = New(CodeVersionQuery, "version query failed")
	ErrSpawn          = New(CodeSpawn, "failed to spawn tunnel client")
	ErrConfigError    = New(CodeConfigError, "invalid configuration")
	ErrInvalidParam   = New(CodeInvalidParam, "invalid parameter")
	ErrTimeout        = New(CodeTimeout, "operation timeout")
	ErrInternal       = New(CodeInternal, "internal error")
)

// IsRecoverable 检查错误是否可以记录后继续运行
// 二进制获取、权限设置、版本查询、进程启动失败都不会中止整个流程
func IsRecoverable(err error) bool {
	switch GetCode(err) {
	case CodeBinaryNotFound, CodeDownloadFailed, CodePermission, CodeVersionQuery, CodeSpawn:
		return true
	default:
		return false
	}
}

// IsFatal 检查错误是否应中止整个流程
func IsFatal(err error) bool {
	return err != nil && !IsRecoverable(err)
}
