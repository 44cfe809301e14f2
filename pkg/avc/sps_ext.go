// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/h264sps
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package avc

// 由sps字段推导出来的值
//
// ISO-14496-10.pdf
// 6.2 Source, decoded, and output picture formats (Table 6-1)
// 7.4.2.1.1 (7-13 ~ 7-22)

func (s *Sps) ProfileName() string {
	ret, ok := ProfileIdcMapping[s.ProfileIdc]
	if !ok {
		return "unknown"
	}
	return ret
}

// ChromaFormatIdc 没有chroma字段的profile，默认为1，也即4:2:0
func (s *Sps) ChromaFormatIdc() uint32 {
	if s.Chroma == nil {
		return defaultChromaFormatIdcWithoutChroma
	}
	return s.Chroma.ChromaFormatIdc
}

func (s *Sps) SeparateColourPlane() bool {
	return s.Chroma != nil && s.Chroma.SeparateColourPlaneFlag != nil && *s.Chroma.SeparateColourPlaneFlag
}

func (s *Sps) ChromaArrayType() uint32 {
	if s.SeparateColourPlane() {
		return 0
	}
	return s.ChromaFormatIdc()
}

func (s *Sps) BitDepthLuma() uint32 {
	if s.Chroma == nil {
		return 8
	}
	return 8 + s.Chroma.BitDepthLumaMinus8
}

func (s *Sps) BitDepthChroma() uint32 {
	if s.Chroma == nil {
		return 8
	}
	return 8 + s.Chroma.BitDepthChromaMinus8
}

func (s *Sps) MaxFrameNum() uint32 {
	return 1 << (s.Log2MaxFrameNumMinus4 + 4)
}

// Width 裁剪后的宽，单位像素
func (s *Sps) Width() uint32 {
	w := (int64(s.PicWidthInMbsMinus1) + 1) * 16
	if s.FrameCrop != nil {
		cropUnitX, _ := s.cropUnit()
		w -= (int64(s.FrameCrop.LeftOffset) + int64(s.FrameCrop.RightOffset)) * cropUnitX
	}
	return clampUint32(w)
}

// Height 裁剪后的高，单位像素。场编码时为帧高
func (s *Sps) Height() uint32 {
	h := int64(s.frameHeightFactor()) * (int64(s.PicHeightInMapUnitsMinus1) + 1) * 16
	if s.FrameCrop != nil {
		_, cropUnitY := s.cropUnit()
		h -= (int64(s.FrameCrop.TopOffset) + int64(s.FrameCrop.BottomOffset)) * cropUnitY
	}
	return clampUint32(h)
}

func (s *Sps) frameHeightFactor() uint32 {
	if s.FrameMbsOnlyFlag {
		return 1
	}
	return 2
}

func (s *Sps) cropUnit() (x, y int64) {
	f := int64(s.frameHeightFactor())
	if s.ChromaArrayType() == 0 {
		return 1, f
	}
	subWidthC, subHeightC := int64(2), int64(2)
	switch s.ChromaFormatIdc() {
	case 2:
		subHeightC = 1
	case 3:
		subWidthC, subHeightC = 1, 1
	}
	return subWidthC, subHeightC * f
}

func clampUint32(v int64) uint32 {
	if v < 0 {
		return 0
	}
	if v > int64(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(v)
}
