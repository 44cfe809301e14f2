// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/h264sps
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package avc

import (
	"fmt"
	"strings"
)

// DebugString 多行文本，按语法结构缩进，不存在的可选字段不输出
func (s *Sps) DebugString() string {
	var r spsRenderer
	r.line(0, "seq_parameter_set_data")
	r.kv(1, "profile_idc", fmt.Sprintf("%d (%s)", s.ProfileIdc, s.ProfileName()))
	for i, f := range s.ConstraintSetFlags {
		r.kv(1, fmt.Sprintf("constraint_set%d_flag", i), f)
	}
	r.kv(1, "reserved_zero_2bits", s.ReservedZero2Bits)
	r.kv(1, "level_idc", s.LevelIdc)
	r.kv(1, "seq_parameter_set_id", s.SeqParameterSetId)

	if c := s.Chroma; c != nil {
		r.kv(1, "chroma_format_idc", c.ChromaFormatIdc)
		if c.SeparateColourPlaneFlag != nil {
			r.kv(2, "separate_colour_plane_flag", *c.SeparateColourPlaneFlag)
		}
		r.kv(1, "bit_depth_luma_minus8", c.BitDepthLumaMinus8)
		r.kv(1, "bit_depth_chroma_minus8", c.BitDepthChromaMinus8)
		r.kv(1, "qpprime_y_zero_transform_bypass_flag", c.QpprimeYZeroTransformBypassFlag)
		r.kv(1, "seq_scaling_matrix_present_flag", c.SeqScalingMatrixPresentFlag)
		for i, f := range c.ScalingListPresentFlags {
			r.kv(2, fmt.Sprintf("seq_scaling_list_present_flag[%d]", i), f)
		}
	}

	r.kv(1, "log2_max_frame_num_minus4", s.Log2MaxFrameNumMinus4)
	r.kv(1, "pic_order_cnt_type", s.PicOrderCntType)
	switch poc := s.PicOrderCnt.(type) {
	case *PicOrderCntType0:
		r.kv(2, "log2_max_pic_order_cnt_lsb_minus4", poc.Log2MaxPicOrderCntLsbMinus4)
	case *PicOrderCntType1:
		r.kv(2, "delta_pic_order_always_zero_flag", poc.DeltaPicOrderAlwaysZeroFlag)
		r.kv(2, "offset_for_non_ref_pic", poc.OffsetForNonRefPic)
		r.kv(2, "offset_for_top_to_bottom_field", poc.OffsetForTopToBottomField)
		r.kv(2, "num_ref_frames_in_pic_order_cnt_cycle", poc.NumRefFramesInPicOrderCntCycle)
		for i, v := range poc.OffsetForRefFrame {
			r.kv(3, fmt.Sprintf("offset_for_ref_frame[%d]", i), v)
		}
	}

	r.kv(1, "max_num_ref_frames", s.MaxNumRefFrames)
	r.kv(1, "gaps_in_frame_num_value_allowed_flag", s.GapsInFrameNumValueAllowedFlag)
	r.kv(1, "pic_width_in_mbs_minus1", s.PicWidthInMbsMinus1)
	r.kv(1, "pic_height_in_map_units_minus1", s.PicHeightInMapUnitsMinus1)
	r.kv(1, "frame_mbs_only_flag", s.FrameMbsOnlyFlag)
	if s.MbAdaptiveFrameFieldFlag != nil {
		r.kv(2, "mb_adaptive_frame_field_flag", *s.MbAdaptiveFrameFieldFlag)
	}
	r.kv(1, "direct_8x8_inference_flag", s.Direct8x8InferenceFlag)
	r.kv(1, "frame_cropping_flag", s.FrameCroppingFlag)
	if c := s.FrameCrop; c != nil {
		r.kv(2, "frame_crop_left_offset", c.LeftOffset)
		r.kv(2, "frame_crop_right_offset", c.RightOffset)
		r.kv(2, "frame_crop_top_offset", c.TopOffset)
		r.kv(2, "frame_crop_bottom_offset", c.BottomOffset)
	}
	r.kv(1, "vui_parameters_present_flag", s.VuiParametersPresentFlag)
	if s.Vui != nil {
		r.kv(2, "vui_parameters", fmt.Sprintf("<not parsed, bitoffset=%d, len=%d>", s.Vui.BitOffset, len(s.Vui.Raw)))
	}

	r.line(0, fmt.Sprintf("=> %dx%d, chroma_array_type=%d, bit_depth=%d/%d",
		s.Width(), s.Height(), s.ChromaArrayType(), s.BitDepthLuma(), s.BitDepthChroma()))
	return r.sb.String()
}

type spsRenderer struct {
	sb strings.Builder
}

func (r *spsRenderer) line(depth int, s string) {
	r.sb.WriteString(strings.Repeat("  ", depth))
	r.sb.WriteString(s)
	r.sb.WriteByte('\n')
}

func (r *spsRenderer) kv(depth int, k string, v interface{}) {
	if b, ok := v.(bool); ok {
		if b {
			v = 1
		} else {
			v = 0
		}
	}
	r.line(depth, fmt.Sprintf("%-40s %v", k, v))
}
