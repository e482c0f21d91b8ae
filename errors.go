package cad

import "github.com/zooyer/cad/entities"

// ValidationError 构造图纸或实体时数据不合法
type ValidationError = entities.ValidationError

// AssemblyError 装配失败，Message 可直接展示给用户
type AssemblyError struct {
	Op      string
	Message string
	Err     error
}

func (e *AssemblyError) Error() string {
	msg := e.Op + ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AssemblyError) Unwrap() error {
	return e.Err
}

func assemblyErrorf(op, message string, err error) *AssemblyError {
	return &AssemblyError{Op: op, Message: message, Err: err}
}
