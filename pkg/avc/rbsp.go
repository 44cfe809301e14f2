// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/h264sps
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package avc

// Ebsp2Rbsp 去除防竞争字节，也即 00 00 03 中的 03
//
// ISO-14496-10.pdf
// 7.4.1 NAL unit semantics, emulation_prevention_three_byte
//
// @param b: 函数调用结束后，内部不持有该内存块
//
// @return 内存块为独立新申请。没有防竞争字节时直接返回 b
//
func Ebsp2Rbsp(b []byte) []byte {
	if !hasEmulationPrevention(b) {
		return b
	}

	out := make([]byte, 0, len(b))
	zeroCount := 0
	for _, v := range b {
		if zeroCount >= 2 && v == 0x03 {
			zeroCount = 0
			continue
		}
		out = append(out, v)
		if v == 0 {
			zeroCount++
		} else {
			zeroCount = 0
		}
	}
	return out
}

func hasEmulationPrevention(b []byte) bool {
	for i := 0; i+2 < len(b); i++ {
		if b[i] == 0 && b[i+1] == 0 && b[i+2] == 0x03 {
			return true
		}
	}
	return false
}
