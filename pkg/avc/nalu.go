// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/h264sps
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package avc

import "fmt"

// NalUnit Annex-B流中的一个nalu的位置
type NalUnit struct {
	StartOffset int   // start code之后的第一个字节，也即nal header的位置
	EndOffset   int   // 下一个start code的位置，没有的话为buffer的长度
	Header      uint8 // buf[StartOffset]
}

func (u NalUnit) Type() uint8 {
	return ParseNaluType(u.Header)
}

func (u NalUnit) Len() int {
	return u.EndOffset - u.StartOffset
}

// Payload 引用的是buf的内存块
func (u NalUnit) Payload(buf []byte) []byte {
	return buf[u.StartOffset:u.EndOffset]
}

func (u NalUnit) DebugString() string {
	return fmt.Sprintf("[%d, %d) header=0x%02x type=%d(%s)", u.StartOffset, u.EndOffset, u.Header, u.Type(), ParseNaluTypeReadable(u.Header))
}

// NaluScanner 在Annex-B流中查找start code，逐个返回nalu
//
// 不拷贝也不修改buf，每次 Next 只向后扫描，整体是一次线性遍历
type NaluScanner struct {
	buf  []byte
	pos  int // 下一次查找start code的起始位置
	next int // 已经找到的下一个start code的位置，-1表示还没有查找过
	done bool
}

func NewNaluScanner(buf []byte) *NaluScanner {
	s := &NaluScanner{buf: buf}
	s.Reset()
	return s
}

// Reset 从头开始重新扫描
func (s *NaluScanner) Reset() {
	s.pos = 0
	s.next = -1
	s.done = false
}

// Next
//
// @return ok: 为false时表示没有更多的nalu了
//
func (s *NaluScanner) Next() (unit NalUnit, ok bool) {
	if s.done {
		return
	}

	var prefixPos, prefixLen int
	if s.next >= 0 {
		prefixPos = s.next
		prefixLen = startCodeLenAt(s.buf, prefixPos)
	} else {
		prefixPos, prefixLen = findStartCode(s.buf, s.pos)
	}
	if prefixPos < 0 {
		s.done = true
		return
	}

	start := prefixPos + prefixLen
	if start >= len(s.buf) {
		s.done = true
		return
	}

	end, _ := findStartCode(s.buf, start)
	if end < 0 {
		s.next = -1
		s.pos = len(s.buf)
		end = len(s.buf)
	} else {
		s.next = end
		s.pos = start
	}

	return NalUnit{
		StartOffset: start,
		EndOffset:   end,
		Header:      s.buf[start],
	}, true
}

// ScanNalus 一次性返回buf中的所有nalu
func ScanNalus(buf []byte) []NalUnit {
	var ret []NalUnit
	IterateNalus(buf, func(unit NalUnit) bool {
		ret = append(ret, unit)
		return true
	})
	return ret
}

// IterateNalus handler返回false时停止遍历
func IterateNalus(buf []byte, handler func(unit NalUnit) bool) {
	s := NewNaluScanner(buf)
	for {
		unit, ok := s.Next()
		if !ok || !handler(unit) {
			return
		}
	}
}

// findStartCode 从start开始，找最靠前的 00 00 01 或者 00 00 00 01
//
// 同一个位置上如果是 00 00 00 01，则按4字节处理，不会再从下一个字节按3字节上报一次
//
// @return pos: 没找到时为-1
//
func findStartCode(buf []byte, start int) (pos int, length int) {
	for i := start; i+3 <= len(buf); i++ {
		if l := startCodeLenAt(buf, i); l != 0 {
			return i, l
		}
	}
	return -1, 0
}

func startCodeLenAt(buf []byte, i int) int {
	if i+3 > len(buf) || buf[i] != 0 || buf[i+1] != 0 {
		return 0
	}
	if buf[i+2] == 1 {
		return 3
	}
	if buf[i+2] == 0 && i+4 <= len(buf) && buf[i+3] == 1 {
		return 4
	}
	return 0
}
