// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/h264sps
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package avc

import (
	"encoding/hex"
	"math"

	"github.com/q191201771/h264sps/pkg/base"
	"github.com/q191201771/naza/pkg/nazabytes"
	"github.com/q191201771/naza/pkg/nazalog"
)

// ISO-14496-10.pdf
// 7.3.2.1.1 Sequence parameter set data syntax
// 7.4.2.1.1 Sequence parameter set data semantics

const (
	maxSeqParameterSetId                = 31
	maxChromaFormatIdc                  = 3
	maxBitDepthMinus8                   = 6
	maxLog2MaxFrameNumMinus4            = 12
	maxPicOrderCntType                  = 2
	maxLog2MaxPicOrderCntLsbMinus4      = 12
	maxNumRefFramesInPicOrderCntCycle   = 255
	minDeltaScale                       = -128
	maxDeltaScale                       = 127
	chromaFormatIdc444                  = 3
	scalingListCount                    = 8
	scalingListCount444                 = 12
	scalingList4x4Count                 = 6
	scalingList4x4Size                  = 16
	scalingList8x8Size                  = 64
	defaultChromaFormatIdcWithoutChroma = 1
)

var ProfileIdcMapping = map[uint8]string{
	44:  "CAVLC 4:4:4 Intra",
	66:  "Baseline",
	77:  "Main",
	83:  "Scalable Baseline",
	86:  "Scalable High",
	88:  "Extended",
	100: "High",
	110: "High 10",
	118: "Multiview High",
	122: "High 4:2:2",
	128: "Stereo High",
	134: "MFC High",
	135: "MFC Depth High",
	138: "Multiview Depth High",
	139: "Enhanced Multiview Depth High",
	144: "High 4:4:4",
	244: "High 4:4:4 Predictive",
}

// HasChromaInfo 这些profile的sps中，level之后带有chroma_format_idc、bit depth以及scaling matrix等字段
func HasChromaInfo(profileIdc uint8) bool {
	switch profileIdc {
	case 100, 110, 122, 244, 44, 83, 86, 118, 128, 138, 139, 134, 135:
		return true
	}
	return false
}

type Sps struct {
	ProfileIdc uint8

	// constraint_set0_flag ~ constraint_set5_flag
	ConstraintSetFlags [6]bool
	ReservedZero2Bits  uint8

	LevelIdc          uint8
	SeqParameterSetId uint32

	// 只有 HasChromaInfo(ProfileIdc) 时才存在
	Chroma *SpsChromaInfo

	Log2MaxFrameNumMinus4 uint32
	PicOrderCntType       uint32
	PicOrderCnt           PicOrderCnt // 具体类型由 PicOrderCntType 决定

	MaxNumRefFrames                uint32
	GapsInFrameNumValueAllowedFlag bool
	PicWidthInMbsMinus1            uint32
	PicHeightInMapUnitsMinus1      uint32

	FrameMbsOnlyFlag         bool
	MbAdaptiveFrameFieldFlag *bool // FrameMbsOnlyFlag 为false时才存在

	Direct8x8InferenceFlag bool

	FrameCroppingFlag bool
	FrameCrop         *SpsFrameCrop // FrameCroppingFlag 为true时才存在

	VuiParametersPresentFlag bool
	Vui                      *VuiParameters // VuiParametersPresentFlag 为true时才存在，未解析
}

type SpsChromaInfo struct {
	ChromaFormatIdc         uint32
	SeparateColourPlaneFlag *bool // ChromaFormatIdc 为3时才存在

	BitDepthLumaMinus8              uint32
	BitDepthChromaMinus8            uint32
	QpprimeYZeroTransformBypassFlag bool

	SeqScalingMatrixPresentFlag bool

	// SeqScalingMatrixPresentFlag 为true时才存在，长度为8或12（chroma_format_idc为3）
	// 下标0~5对应4x4，6~11对应8x8。列表内容只做跳过，不保存
	ScalingListPresentFlags []bool
}

type SpsFrameCrop struct {
	LeftOffset   uint32
	RightOffset  uint32
	TopOffset    uint32
	BottomOffset uint32
}

// PicOrderCnt 由 pic_order_cnt_type 选择的三种结构之一：
// *PicOrderCntType0, *PicOrderCntType1, *PicOrderCntType2
type PicOrderCnt interface {
	PicOrderCntType() uint32
}

type PicOrderCntType0 struct {
	Log2MaxPicOrderCntLsbMinus4 uint32
}

type PicOrderCntType1 struct {
	DeltaPicOrderAlwaysZeroFlag    bool
	OffsetForNonRefPic             int32
	OffsetForTopToBottomField      int32
	NumRefFramesInPicOrderCntCycle uint32
	OffsetForRefFrame              []int32 // 长度为 NumRefFramesInPicOrderCntCycle
}

type PicOrderCntType2 struct{}

func (p *PicOrderCntType0) PicOrderCntType() uint32 { return 0 }
func (p *PicOrderCntType1) PicOrderCntType() uint32 { return 1 }
func (p *PicOrderCntType2) PicOrderCntType() uint32 { return 2 }

// VuiParameters 占位，vui_parameters()没有解析
//
// BitOffset 是vui_parameters()第一个bit在rbsp中的偏移（不包含nal header）
// Raw 从BitOffset所在的字节开始，直到输入buffer结尾，引用的是调用方的内存块
type VuiParameters struct {
	BitOffset uint
	Raw       []byte
}

// ---------------------------------------------------------------------------------------------------------------------

// ParseSps
//
// @param buf:         Annex-B流，或者单个nalu
// @param startOffset: sps nalu的header字节在buf中的位置，也即 NalUnit.StartOffset
//
// @return sps: 出错时为nil，不会返回只解析了一部分的sps
//
func ParseSps(buf []byte, startOffset int) (*Sps, error) {
	if startOffset < 0 || startOffset >= len(buf) {
		return nil, &SpsSyntaxError{Kind: SpsErrorTruncated, Field: "nal_unit_header", Err: base.ErrBitstreamExhausted}
	}
	nalu := buf[startOffset:]

	t := ParseNaluType(nalu[0])
	if t != NaluTypeSps {
		return nil, &SpsSyntaxError{Kind: SpsErrorNotSps, Field: "nal_unit_type", Err: base.NewErrNotSps(t)}
	}

	// 跳过nal header: forbidden_zero_bit(1) nal_ref_idc(2) nal_unit_type(5)
	c := NewBitCursor(nalu)
	if err := c.SkipBits(8); err != nil {
		return nil, &SpsSyntaxError{Kind: SpsErrorTruncated, Field: "nal_unit_header", Err: err}
	}
	sps, err := ParseSpsRbsp(c)
	if err != nil {
		nazalog.Errorf("parse sps failed. err=%+v, payload=%s", err, hex.Dump(nazabytes.Prefix(nalu, 128)))
		return nil, err
	}
	return sps, nil
}

// ParseSpsRbsp
//
// @param c: 读取位置在seq_parameter_set_data()的第一个bit，也即nal header之后
//           解析结束后，c停在vui_parameters_present_flag之后，vui_parameters()没有被读取
//
func ParseSpsRbsp(c *BitCursor) (*Sps, error) {
	p := spsParser{c: c, start: c.BitPos()}
	var sps Sps

	if err := p.parseProfileAndLevel(&sps); err != nil {
		return nil, err
	}

	if HasChromaInfo(sps.ProfileIdc) {
		chroma, err := p.parseChromaInfo()
		if err != nil {
			return nil, err
		}
		sps.Chroma = chroma
	}

	if err := p.parsePicOrderCnt(&sps); err != nil {
		return nil, err
	}
	if err := p.parseFrame(&sps); err != nil {
		return nil, err
	}

	return &sps, nil
}

// ---------------------------------------------------------------------------------------------------------------------

type spsParser struct {
	c     *BitCursor
	start uint // seq_parameter_set_data()第一个bit的位置
}

func (p *spsParser) parseProfileAndLevel(sps *Sps) error {
	var err error
	if sps.ProfileIdc, err = p.u8(8, "profile_idc"); err != nil {
		return err
	}
	for i := range sps.ConstraintSetFlags {
		if sps.ConstraintSetFlags[i], err = p.flag("constraint_set_flag"); err != nil {
			return err
		}
	}
	if sps.ReservedZero2Bits, err = p.u8(2, "reserved_zero_2bits"); err != nil {
		return err
	}
	if sps.LevelIdc, err = p.u8(8, "level_idc"); err != nil {
		return err
	}
	sps.SeqParameterSetId, err = p.ue("seq_parameter_set_id", maxSeqParameterSetId)
	return err
}

func (p *spsParser) parseChromaInfo() (*SpsChromaInfo, error) {
	var (
		info SpsChromaInfo
		err  error
	)
	if info.ChromaFormatIdc, err = p.ue("chroma_format_idc", maxChromaFormatIdc); err != nil {
		return nil, err
	}
	if info.ChromaFormatIdc == chromaFormatIdc444 {
		v, err := p.flag("separate_colour_plane_flag")
		if err != nil {
			return nil, err
		}
		info.SeparateColourPlaneFlag = &v
	}
	if info.BitDepthLumaMinus8, err = p.ue("bit_depth_luma_minus8", maxBitDepthMinus8); err != nil {
		return nil, err
	}
	if info.BitDepthChromaMinus8, err = p.ue("bit_depth_chroma_minus8", maxBitDepthMinus8); err != nil {
		return nil, err
	}
	if info.QpprimeYZeroTransformBypassFlag, err = p.flag("qpprime_y_zero_transform_bypass_flag"); err != nil {
		return nil, err
	}
	if info.SeqScalingMatrixPresentFlag, err = p.flag("seq_scaling_matrix_present_flag"); err != nil {
		return nil, err
	}
	if !info.SeqScalingMatrixPresentFlag {
		return &info, nil
	}

	n := scalingListCount
	if info.ChromaFormatIdc == chromaFormatIdc444 {
		n = scalingListCount444
	}
	nazalog.Debugf("scaling matrix present. count=%d", n)
	info.ScalingListPresentFlags = make([]bool, n)
	for i := 0; i < n; i++ {
		if info.ScalingListPresentFlags[i], err = p.flag("seq_scaling_list_present_flag"); err != nil {
			return nil, err
		}
		if !info.ScalingListPresentFlags[i] {
			continue
		}
		if i < scalingList4x4Count {
			err = p.skipScalingList(scalingList4x4Size)
		} else {
			err = p.skipScalingList(scalingList8x8Size)
		}
		if err != nil {
			return nil, err
		}
	}
	return &info, nil
}

// skipScalingList 按照 7.3.2.1.1.1 scaling_list() 的语法读取delta_scale，只为了保持bit对齐，不计算系数
func (p *spsParser) skipScalingList(size int) error {
	lastScale := int64(8)
	nextScale := int64(8)
	for j := 0; j < size; j++ {
		if nextScale != 0 {
			deltaScale, err := p.c.ReadSe()
			if err != nil {
				return p.wrap("delta_scale", err)
			}
			if deltaScale < minDeltaScale || deltaScale > maxDeltaScale {
				return p.outOfRange("delta_scale", base.NewErrSpsOutOfRange("delta_scale", deltaScale, maxDeltaScale))
			}
			nextScale = (lastScale + deltaScale + 256) % 256
		}
		if nextScale != 0 {
			lastScale = nextScale
		}
	}
	return nil
}

func (p *spsParser) parsePicOrderCnt(sps *Sps) error {
	var err error
	if sps.Log2MaxFrameNumMinus4, err = p.ue("log2_max_frame_num_minus4", maxLog2MaxFrameNumMinus4); err != nil {
		return err
	}
	if sps.PicOrderCntType, err = p.ue("pic_order_cnt_type", maxPicOrderCntType); err != nil {
		return err
	}

	switch sps.PicOrderCntType {
	case 0:
		var poc PicOrderCntType0
		if poc.Log2MaxPicOrderCntLsbMinus4, err = p.ue("log2_max_pic_order_cnt_lsb_minus4", maxLog2MaxPicOrderCntLsbMinus4); err != nil {
			return err
		}
		sps.PicOrderCnt = &poc
	case 1:
		var poc PicOrderCntType1
		if poc.DeltaPicOrderAlwaysZeroFlag, err = p.flag("delta_pic_order_always_zero_flag"); err != nil {
			return err
		}
		if poc.OffsetForNonRefPic, err = p.se("offset_for_non_ref_pic"); err != nil {
			return err
		}
		if poc.OffsetForTopToBottomField, err = p.se("offset_for_top_to_bottom_field"); err != nil {
			return err
		}
		if poc.NumRefFramesInPicOrderCntCycle, err = p.ue("num_ref_frames_in_pic_order_cnt_cycle", maxNumRefFramesInPicOrderCntCycle); err != nil {
			return err
		}
		poc.OffsetForRefFrame = make([]int32, poc.NumRefFramesInPicOrderCntCycle)
		for i := range poc.OffsetForRefFrame {
			if poc.OffsetForRefFrame[i], err = p.se("offset_for_ref_frame"); err != nil {
				return err
			}
		}
		sps.PicOrderCnt = &poc
	case 2:
		sps.PicOrderCnt = &PicOrderCntType2{}
	}
	return nil
}

func (p *spsParser) parseFrame(sps *Sps) error {
	var err error
	if sps.MaxNumRefFrames, err = p.ue("max_num_ref_frames", 0); err != nil {
		return err
	}
	if sps.GapsInFrameNumValueAllowedFlag, err = p.flag("gaps_in_frame_num_value_allowed_flag"); err != nil {
		return err
	}
	if sps.PicWidthInMbsMinus1, err = p.ue("pic_width_in_mbs_minus1", 0); err != nil {
		return err
	}
	if sps.PicHeightInMapUnitsMinus1, err = p.ue("pic_height_in_map_units_minus1", 0); err != nil {
		return err
	}

	if sps.FrameMbsOnlyFlag, err = p.flag("frame_mbs_only_flag"); err != nil {
		return err
	}
	if !sps.FrameMbsOnlyFlag {
		v, err := p.flag("mb_adaptive_frame_field_flag")
		if err != nil {
			return err
		}
		sps.MbAdaptiveFrameFieldFlag = &v
	}

	if sps.Direct8x8InferenceFlag, err = p.flag("direct_8x8_inference_flag"); err != nil {
		return err
	}

	if sps.FrameCroppingFlag, err = p.flag("frame_cropping_flag"); err != nil {
		return err
	}
	if sps.FrameCroppingFlag {
		var crop SpsFrameCrop
		if crop.LeftOffset, err = p.ue("frame_crop_left_offset", 0); err != nil {
			return err
		}
		if crop.RightOffset, err = p.ue("frame_crop_right_offset", 0); err != nil {
			return err
		}
		if crop.TopOffset, err = p.ue("frame_crop_top_offset", 0); err != nil {
			return err
		}
		if crop.BottomOffset, err = p.ue("frame_crop_bottom_offset", 0); err != nil {
			return err
		}
		sps.FrameCrop = &crop
	}

	if sps.VuiParametersPresentFlag, err = p.flag("vui_parameters_present_flag"); err != nil {
		return err
	}
	if sps.VuiParametersPresentFlag {
		sps.Vui = &VuiParameters{
			BitOffset: p.bitPos(),
			Raw:       p.c.Tail(),
		}
	}
	return nil
}

func (p *spsParser) u8(n uint, field string) (uint8, error) {
	v, err := p.c.ReadBits(n)
	if err != nil {
		return 0, p.wrap(field, err)
	}
	return uint8(v), nil
}

func (p *spsParser) flag(field string) (bool, error) {
	v, err := p.c.ReadFlag()
	if err != nil {
		return false, p.wrap(field, err)
	}
	return v, nil
}

// ue 读取ue(v)，并检查取值范围。limit为0时只检查不超过uint32
func (p *spsParser) ue(field string, limit uint64) (uint32, error) {
	v, err := p.c.ReadUe()
	if err != nil {
		return 0, p.wrap(field, err)
	}
	if limit == 0 {
		limit = math.MaxUint32
	}
	if v > limit {
		return 0, p.outOfRange(field, base.NewErrSpsOutOfRange(field, v, limit))
	}
	return uint32(v), nil
}

func (p *spsParser) se(field string) (int32, error) {
	v, err := p.c.ReadSe()
	if err != nil {
		return 0, p.wrap(field, err)
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, p.outOfRange(field, base.NewErrSpsOutOfRange(field, v, math.MaxInt32))
	}
	return int32(v), nil
}

func (p *spsParser) bitPos() uint {
	return p.c.BitPos() - p.start
}

func (p *spsParser) wrap(field string, err error) error {
	return &SpsSyntaxError{Kind: SpsErrorTruncated, Field: field, BitPos: p.bitPos(), Err: err}
}

func (p *spsParser) outOfRange(field string, err error) error {
	return &SpsSyntaxError{Kind: SpsErrorOutOfRange, Field: field, BitPos: p.bitPos(), Err: err}
}
