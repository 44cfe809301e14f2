// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/h264sps
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package avc

import (
	"github.com/q191201771/h264sps/pkg/base"
	"github.com/q191201771/naza/pkg/nazabits"
)

// ue(v)前导0的个数上限，再多的话值会超出uint64
const maxExpGolombLeadingZeroBits = 63

// BitCursor 在一块内存上按bit读取，高位在前
//
// 每次读取都会先检查剩余bit数，不够的话返回 base.ErrBitstreamExhausted，并且不移动读取位置。
// 出错后调用方应该放弃这个cursor。
//
// 不是协程安全的，一次解析创建一个。
type BitCursor struct {
	b     []byte
	br    nazabits.BitReader
	total uint
	pos   uint
}

// NewBitCursor
//
// @param b: 函数调用结束后，内部继续持有该内存块，直到cursor不再使用
//
func NewBitCursor(b []byte) *BitCursor {
	return &BitCursor{
		b:     b,
		br:    nazabits.NewBitReader(b),
		total: uint(len(b)) * 8,
	}
}

func (c *BitCursor) BitsRemaining() uint {
	return c.total - c.pos
}

// BitPos 已经读取的bit数
func (c *BitCursor) BitPos() uint {
	return c.pos
}

// Tail 从当前读取位置所在的字节开始，到buffer结尾的内存块，不拷贝
func (c *BitCursor) Tail() []byte {
	return c.b[c.pos/8:]
}

// ReadBits u(n)，0 <= n <= 64
func (c *BitCursor) ReadBits(n uint) (uint64, error) {
	if n > 64 {
		return 0, base.ErrBitWidth
	}
	if n > c.BitsRemaining() {
		return 0, base.ErrBitstreamExhausted
	}

	var v uint64
	for n > 0 {
		m := n
		if m > 32 {
			m = 32
		}
		t, err := c.br.ReadBits32(m)
		if err != nil {
			return 0, base.ErrBitstreamExhausted
		}
		v = v<<m | uint64(t)
		c.pos += m
		n -= m
	}
	return v, nil
}

func (c *BitCursor) ReadFlag() (bool, error) {
	v, err := c.ReadBits(1)
	return v == 1, err
}

func (c *BitCursor) SkipBits(n uint) error {
	if n > c.BitsRemaining() {
		return base.ErrBitstreamExhausted
	}
	for n > 0 {
		m := n
		if m > 64 {
			m = 64
		}
		if _, err := c.ReadBits(m); err != nil {
			return err
		}
		n -= m
	}
	return nil
}

// ReadUe ue(v)
//
// 前导0超过63个时返回 base.ErrMalformedExpGolombCode（属于Truncated），即使后面还有bit。
// 前导0一直持续到结尾时返回的也是 base.ErrMalformedExpGolombCode。
//
// ISO-14496-10.pdf
// 9.1 Parsing process for Exp-Golomb codes
//
func (c *BitCursor) ReadUe() (uint64, error) {
	var leadingZeroBits uint
	for {
		if c.BitsRemaining() == 0 {
			return 0, base.ErrMalformedExpGolombCode
		}
		b, err := c.ReadBits(1)
		if err != nil {
			return 0, err
		}
		if b == 1 {
			break
		}
		leadingZeroBits++
		if leadingZeroBits > maxExpGolombLeadingZeroBits {
			return 0, base.ErrMalformedExpGolombCode
		}
	}
	if leadingZeroBits == 0 {
		return 0, nil
	}

	suffix, err := c.ReadBits(leadingZeroBits)
	if err != nil {
		return 0, err
	}
	return (uint64(1) << leadingZeroBits) - 1 + suffix, nil
}

// ReadSe se(v)，0, 1, -1, 2, -2 ...
//
// ISO-14496-10.pdf
// 9.1.1 Mapping process for signed Exp-Golomb codes
//
func (c *BitCursor) ReadSe() (int64, error) {
	k, err := c.ReadUe()
	if err != nil {
		return 0, err
	}
	if k&1 == 1 {
		return int64((k + 1) / 2), nil
	}
	return -int64(k / 2), nil
}
