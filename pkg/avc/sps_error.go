// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/h264sps
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package avc

import (
	"errors"
	"fmt"
)

type SpsErrorKind uint8

const (
	SpsErrorTruncated SpsErrorKind = iota + 1
	SpsErrorOutOfRange
	SpsErrorUnsupportedGrammarBranch
	SpsErrorNotSps
)

func (k SpsErrorKind) String() string {
	switch k {
	case SpsErrorTruncated:
		return "Truncated"
	case SpsErrorOutOfRange:
		return "OutOfRange"
	case SpsErrorUnsupportedGrammarBranch:
		return "UnsupportedGrammarBranch"
	case SpsErrorNotSps:
		return "NotSps"
	}
	return fmt.Sprintf("SpsErrorKind(%d)", uint8(k))
}

// SpsSyntaxError 解析sps失败
//
// Err 是底层的错误，比如 base.ErrBitstreamExhausted、base.ErrSpsOutOfRange，可以用errors.Is判断
type SpsSyntaxError struct {
	Kind   SpsErrorKind
	Field  string // 出错的语法元素名
	BitPos uint   // 出错时在seq_parameter_set_data()中的bit位置
	Err    error
}

func (e *SpsSyntaxError) Error() string {
	return fmt.Sprintf("h264sps.avc: sps syntax error. kind=%s, field=%s, bitpos=%d, err=%v", e.Kind, e.Field, e.BitPos, e.Err)
}

func (e *SpsSyntaxError) Unwrap() error {
	return e.Err
}

// IsSpsTruncated err是否为 SpsErrorTruncated 类型的 SpsSyntaxError
func IsSpsTruncated(err error) bool {
	var se *SpsSyntaxError
	return errors.As(err, &se) && se.Kind == SpsErrorTruncated
}
