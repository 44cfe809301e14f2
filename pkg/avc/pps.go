// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/h264sps
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package avc

// Pps 占位，pic_parameter_set_rbsp()没有解析
//
// Payload 不包含nal header，引用的是调用方的内存块
type Pps struct {
	Header  uint8
	Payload []byte
}

// NewPps
//
// @param nalu: 包含nal header的单个nalu
//
func NewPps(nalu []byte) *Pps {
	if len(nalu) == 0 {
		return &Pps{}
	}
	return &Pps{
		Header:  nalu[0],
		Payload: nalu[1:],
	}
}
