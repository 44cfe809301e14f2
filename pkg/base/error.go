// Copyright 2021, Chef.  All rights reserved.
// https://github.com/q191201771/h264sps
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import (
	"errors"
	"fmt"
)

// ----- 通用的 ---------------------------------------------------------------------------------------------------------

var (
	ErrShortBuffer  = errors.New("h264sps: buffer too short")
	ErrFileNotExist = errors.New("h264sps: file not exist")
)

// ----- pkg/avc -------------------------------------------------------------------------------------------------------

var (
	// ErrBitstreamExhausted 读取的bit数超过了buffer剩余的bit数
	ErrBitstreamExhausted = errors.New("h264sps.avc: bitstream exhausted")

	// ErrMalformedExpGolombCode ue(v)的前导0一直持续到buffer结尾，是ErrBitstreamExhausted的一种特例
	ErrMalformedExpGolombCode = fmt.Errorf("%w: exp-golomb prefix not terminated", ErrBitstreamExhausted)

	ErrBitWidth = errors.New("h264sps.avc: bit width out of range")

	// ErrUnsupportedGrammarBranch 预留，目前sps语法中vui_parameters_present_flag之前的字段都已实现
	ErrUnsupportedGrammarBranch = errors.New("h264sps.avc: unsupported grammar branch")

	ErrSpsOutOfRange = errors.New("h264sps.avc: sps field out of range")
	ErrNotSps        = errors.New("h264sps.avc: nalu is not sps")
	ErrAvcSeqHeader  = errors.New("h264sps.avc: invalid avc seq header")
)

func NewErrSpsOutOfRange(field string, v, limit interface{}) error {
	return fmt.Errorf("%w. field=%s, value=%v, limit=%v", ErrSpsOutOfRange, field, v, limit)
}

func NewErrNotSps(naluType uint8) error {
	return fmt.Errorf("%w. type=%d", ErrNotSps, naluType)
}

// ----- pkg/flv -------------------------------------------------------------------------------------------------------

var ErrFlv = errors.New("h264sps.flv: fxxk")

func NewErrFlvShortBuffer(need, actual int) error {
	return fmt.Errorf("%w. need=%d, actual=%d", ErrFlv, need, actual)
}

// ----- pkg/mpegts ----------------------------------------------------------------------------------------------------

var ErrMpegtsNoH264 = errors.New("h264sps.mpegts: no h264 elementary stream found")

// ----- pkg/source ----------------------------------------------------------------------------------------------------

var ErrUnknownSourceType = errors.New("h264sps.source: unknown source type")
