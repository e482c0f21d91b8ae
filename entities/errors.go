package entities

import "fmt"

// ValidationError 构造实体/图纸时输入数据不合法
type ValidationError struct {
	Field  string
	Value  any
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	msg := e.Reason
	if e.Value != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Value)
	}
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
