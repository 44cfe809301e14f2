// Copyright 2020, Chef.  All rights reserved.
// https://github.com/q191201771/h264sps
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

// Package innertest 各个包的单元测试共用的码流构造工具
package innertest

import (
	"math/bits"

	"github.com/q191201771/h264sps/pkg/avc"
	"github.com/q191201771/naza/pkg/bele"
	"github.com/q191201771/naza/pkg/nazabits"
)

// BitstreamWriter 按bit写入，支持u(n)、ue(v)、se(v)，用于构造测试码流
type BitstreamWriter struct {
	bits []uint8
}

func (w *BitstreamWriter) WriteBits(n uint, v uint64) *BitstreamWriter {
	for i := int(n) - 1; i >= 0; i-- {
		w.bits = append(w.bits, uint8((v>>uint(i))&1))
	}
	return w
}

func (w *BitstreamWriter) WriteFlag(b bool) *BitstreamWriter {
	if b {
		return w.WriteBits(1, 1)
	}
	return w.WriteBits(1, 0)
}

// WriteUe v不能为math.MaxUint64
func (w *BitstreamWriter) WriteUe(v uint64) *BitstreamWriter {
	x := v + 1
	leadingZeroBits := uint(bits.Len64(x)) - 1
	w.WriteBits(leadingZeroBits, 0)
	return w.WriteBits(leadingZeroBits+1, x)
}

func (w *BitstreamWriter) WriteSe(v int64) *BitstreamWriter {
	if v > 0 {
		return w.WriteUe(uint64(v)*2 - 1)
	}
	return w.WriteUe(uint64(-v) * 2)
}

func (w *BitstreamWriter) BitLen() int {
	return len(w.bits)
}

// Bytes 不足一个字节的部分补0
func (w *BitstreamWriter) Bytes() []byte {
	out := make([]byte, (len(w.bits)+7)/8)
	bw := nazabits.NewBitWriter(out)
	for _, b := range w.bits {
		bw.WriteBits8(1, b)
	}
	return out
}

// RbspBytes 追加rbsp_stop_one_bit以及对齐用的0
func (w *BitstreamWriter) RbspBytes() []byte {
	w.WriteBits(1, 1)
	return w.Bytes()
}

// ---------------------------------------------------------------------------------------------------------------------

// SpsFixture 用来构造sps的字段值，字段的出现与否遵循sps语法，和 avc.Sps 一一对应
type SpsFixture struct {
	ProfileIdc      uint8
	ConstraintFlags uint8 // 高6位有效，依次为constraint_set0_flag ~ constraint_set5_flag
	LevelIdc        uint8
	SpsId           uint64

	// 以下字段只有 avc.HasChromaInfo(ProfileIdc) 时才写入
	ChromaFormatIdc         uint64
	SeparateColourPlaneFlag bool
	BitDepthLumaMinus8      uint64
	BitDepthChromaMinus8    uint64
	TransformBypassFlag     bool
	// nil表示seq_scaling_matrix_present_flag为0
	// 否则长度必须为8或12，元素为nil表示该scaling list不存在，否则为要写入的delta_scale
	ScalingLists [][]int64

	Log2MaxFrameNumMinus4 uint64
	PicOrderCntType       uint64

	Log2MaxPicOrderCntLsbMinus4 uint64 // type 0

	DeltaPicOrderAlwaysZeroFlag bool    // type 1
	OffsetForNonRefPic          int64   // type 1
	OffsetForTopToBottomField   int64   // type 1
	OffsetForRefFrame           []int64 // type 1

	MaxNumRefFrames           uint64
	GapsInFrameNumAllowed     bool
	PicWidthInMbsMinus1       uint64
	PicHeightInMapUnitsMinus1 uint64
	FrameMbsOnlyFlag          bool
	MbAdaptiveFrameFieldFlag  bool
	Direct8x8InferenceFlag    bool
	FrameCrop                 *[4]uint64 // left right top bottom
	VuiParametersPresentFlag  bool
}

// WriteRbsp 写入seq_parameter_set_data()，不包含nal header以及rbsp trailing bits
func (f SpsFixture) WriteRbsp(w *BitstreamWriter) {
	w.WriteBits(8, uint64(f.ProfileIdc))
	w.WriteBits(6, uint64(f.ConstraintFlags>>2))
	w.WriteBits(2, 0)
	w.WriteBits(8, uint64(f.LevelIdc))
	w.WriteUe(f.SpsId)

	if avc.HasChromaInfo(f.ProfileIdc) {
		w.WriteUe(f.ChromaFormatIdc)
		if f.ChromaFormatIdc == 3 {
			w.WriteFlag(f.SeparateColourPlaneFlag)
		}
		w.WriteUe(f.BitDepthLumaMinus8)
		w.WriteUe(f.BitDepthChromaMinus8)
		w.WriteFlag(f.TransformBypassFlag)
		w.WriteFlag(f.ScalingLists != nil)
		for _, list := range f.ScalingLists {
			w.WriteFlag(list != nil)
			for _, delta := range list {
				w.WriteSe(delta)
			}
		}
	}

	w.WriteUe(f.Log2MaxFrameNumMinus4)
	w.WriteUe(f.PicOrderCntType)
	switch f.PicOrderCntType {
	case 0:
		w.WriteUe(f.Log2MaxPicOrderCntLsbMinus4)
	case 1:
		w.WriteFlag(f.DeltaPicOrderAlwaysZeroFlag)
		w.WriteSe(f.OffsetForNonRefPic)
		w.WriteSe(f.OffsetForTopToBottomField)
		w.WriteUe(uint64(len(f.OffsetForRefFrame)))
		for _, v := range f.OffsetForRefFrame {
			w.WriteSe(v)
		}
	}

	w.WriteUe(f.MaxNumRefFrames)
	w.WriteFlag(f.GapsInFrameNumAllowed)
	w.WriteUe(f.PicWidthInMbsMinus1)
	w.WriteUe(f.PicHeightInMapUnitsMinus1)
	w.WriteFlag(f.FrameMbsOnlyFlag)
	if !f.FrameMbsOnlyFlag {
		w.WriteFlag(f.MbAdaptiveFrameFieldFlag)
	}
	w.WriteFlag(f.Direct8x8InferenceFlag)
	w.WriteFlag(f.FrameCrop != nil)
	if f.FrameCrop != nil {
		for _, v := range f.FrameCrop {
			w.WriteUe(v)
		}
	}
	w.WriteFlag(f.VuiParametersPresentFlag)
}

// Rbsp seq_parameter_set_data() + rbsp_trailing_bits()
func (f SpsFixture) Rbsp() []byte {
	var w BitstreamWriter
	f.WriteRbsp(&w)
	return w.RbspBytes()
}

// Nalu nal header(0x67) + rbsp，没有做防竞争处理
func (f SpsFixture) Nalu() []byte {
	return append([]byte{0x67}, f.Rbsp()...)
}

// BaselineSps 1280x720 Baseline
func BaselineSps() SpsFixture {
	return SpsFixture{
		ProfileIdc:                  66,
		ConstraintFlags:             0xC0,
		LevelIdc:                    31,
		Log2MaxFrameNumMinus4:       0,
		PicOrderCntType:             2,
		MaxNumRefFrames:             1,
		PicWidthInMbsMinus1:         79,
		PicHeightInMapUnitsMinus1:   44,
		FrameMbsOnlyFlag:            true,
		Direct8x8InferenceFlag:      true,
		Log2MaxPicOrderCntLsbMinus4: 0,
	}
}

// HighSps 1920x1080 High，带裁剪和vui
func HighSps() SpsFixture {
	return SpsFixture{
		ProfileIdc:                  100,
		LevelIdc:                    40,
		ChromaFormatIdc:             1,
		Log2MaxFrameNumMinus4:       2,
		PicOrderCntType:             0,
		Log2MaxPicOrderCntLsbMinus4: 4,
		MaxNumRefFrames:             4,
		PicWidthInMbsMinus1:         119,
		PicHeightInMapUnitsMinus1:   67,
		FrameMbsOnlyFlag:            true,
		Direct8x8InferenceFlag:      true,
		FrameCrop:                   &[4]uint64{0, 0, 0, 4},
		VuiParametersPresentFlag:    true,
	}
}

// AnnexbStream 用4字节start code把多个nalu拼接起来
func AnnexbStream(nalus ...[]byte) []byte {
	var out []byte
	for _, nalu := range nalus {
		out = append(out, avc.NaluStartCode4...)
		out = append(out, nalu...)
	}
	return out
}

// Rbsp2Ebsp 插入防竞争字节，00 00 后面跟着 00~03 时，中间插入 03
func Rbsp2Ebsp(b []byte) []byte {
	out := make([]byte, 0, len(b)+len(b)/2)
	zeroCount := 0
	for _, v := range b {
		if zeroCount >= 2 && v <= 0x03 {
			out = append(out, 0x03)
			zeroCount = 0
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

// PackFlvTag 打包一个完整的flv tag，包含11字节的tag header，body，4字节的prev tag size
func PackFlvTag(t uint8, timestamp uint32, in []byte) []byte {
	out := make([]byte, 11+len(in)+4)
	out[0] = t
	bele.BePutUint24(out[1:], uint32(len(in)))
	bele.BePutUint24(out[4:], timestamp&0xFFFFFF)
	out[7] = uint8(timestamp >> 24)
	copy(out[11:], in)
	bele.BePutUint32(out[11+len(in):], uint32(11+len(in)))
	return out
}
