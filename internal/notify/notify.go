package notify

import "github.com/umedzhan/agromarket/internal/logger"

// Notifier 通知接收端（对应界面上的 toast 提示）
type Notifier interface {
	Success(message string)
	Error(message string)
}

// LogNotifier 基于结构化日志的通知实现
type LogNotifier struct{}

// NewLogNotifier 创建日志通知器
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Success 输出成功通知
func (n *LogNotifier) Success(message string) {
	logger.Infow("notify_success", "message", message)
}

// Error 输出错误通知
func (n *LogNotifier) Error(message string) {
	logger.Warnw("notify_error", "message", message)
}

// Recorder 记录型通知器，测试用
type Recorder struct {
	Successes []string
	Errors    []string
}

// NewRecorder 创建记录型通知器
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Success 记录成功通知
func (r *Recorder) Success(message string) {
	r.Successes = append(r.Successes, message)
}

// Error 记录错误通知
func (r *Recorder) Error(message string) {
	r.Errors = append(r.Errors, message)
}
