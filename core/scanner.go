package core

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Scanner 逐对读取 DXF 的组码/值
type Scanner struct {
	reader  *bufio.Reader
	LastTag Tag
	line    int
	err     error
}

func NewScanner(r io.Reader) *Scanner {
	return &Scanner{
		reader: bufio.NewReader(r),
	}
}

func (s *Scanner) readLine() (string, error) {
	line, err := s.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	s.line++
	return line, nil
}

func (s *Scanner) Next() bool {
	if s.err != nil {
		return false
	}

	// 1. 读取 Code 行，跳过空行
	var codeStr string
	for {
		codeLine, err := s.readLine()
		if err != nil {
			if err != io.EOF {
				s.err = err
			}
			return false
		}
		if codeStr = strings.TrimSpace(codeLine); codeStr != "" {
			break
		}
	}

	code, err := strconv.Atoi(codeStr)
	if err != nil {
		s.err = fmt.Errorf("line %d: invalid group code %q", s.line, codeStr)
		return false
	}

	// 2. 读取 Value 行
	valueLine, err := s.readLine()
	if err != nil {
		// Value 行如果 EOF 也是不完整的
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		s.err = err
		return false
	}

	// 去掉行尾的换行符，但保留 Value 开头的空格（DXF 规范要求）
	value := strings.TrimRight(valueLine, "\r\n")

	s.LastTag = Tag{Code: code, Value: value}
	return true
}

// Line 返回当前读取到的行号
func (s *Scanner) Line() int {
	return s.line
}

func (s *Scanner) Err() error {
	return s.err
}
