// Copyright 2019, Chef.  All rights reserved.
// https://github.com/q191201771/h264sps
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package avc

import (
	"github.com/q191201771/h264sps/pkg/base"
	"github.com/q191201771/naza/pkg/bele"
)

const (
	avcSeqHeaderPrefixLen = 5 // flv video tag: frame type + codec id(1), avc packet type(1), composition time(3)
	minDcrLen             = 6
	avccLengthSize        = 4
)

// ParseAvcSeqHeader 从rtmp avc sequence header中解析sps和pps
//
// @param payload: rtmp message的payload部分或者flv tag的payload部分
//                 注意，包含了头部2字节类型以及3字节的cts
//
// @return spsList, ppsList: 引用的是payload的内存块
//
func ParseAvcSeqHeader(payload []byte) (spsList, ppsList [][]byte, err error) {
	if len(payload) < avcSeqHeaderPrefixLen {
		return nil, nil, base.ErrAvcSeqHeader
	}
	if payload[0] != 0x17 || payload[1] != 0x00 || payload[2] != 0 || payload[3] != 0 || payload[4] != 0 {
		return nil, nil, base.ErrAvcSeqHeader
	}
	return ParseDecoderConfigurationRecord(payload[avcSeqHeaderPrefixLen:])
}

// ParseDecoderConfigurationRecord
//
// H.264-AVC-ISO_IEC_14496-15.pdf
// 5.2.4 Decoder configuration information
//
// configurationVersion(8) avcProfileIndication(8) profileCompatibility(8) avcLevelIndication(8)
// reserved(6) lengthSizeMinusOne(2)
// reserved(3) numOfSequenceParameterSets(5) [sequenceParameterSetLength(16) sps]...
// numOfPictureParameterSets(8) [pictureParameterSetLength(16) pps]...
//
func ParseDecoderConfigurationRecord(record []byte) (spsList, ppsList [][]byte, err error) {
	if len(record) < minDcrLen {
		return nil, nil, base.ErrAvcSeqHeader
	}

	index := 5
	numOfSps := int(record[index] & 0x1F)
	index++
	if spsList, index, err = readParameterSets(record, index, numOfSps); err != nil {
		return nil, nil, err
	}

	if index >= len(record) {
		return nil, nil, base.ErrAvcSeqHeader
	}
	numOfPps := int(record[index])
	index++
	if ppsList, _, err = readParameterSets(record, index, numOfPps); err != nil {
		return nil, nil, err
	}
	return
}

// SpsPpsSeqHeader2Annexb 将rtmp avc sequence header转换成Annex-B格式的sps和pps
//
// @return 内存块为独立新申请
//
func SpsPpsSeqHeader2Annexb(payload []byte) ([]byte, error) {
	spsList, ppsList, err := ParseAvcSeqHeader(payload)
	if err != nil {
		return nil, err
	}
	var out []byte
	for _, item := range append(spsList, ppsList...) {
		out = append(out, NaluStartCode4...)
		out = append(out, item...)
	}
	return out, nil
}

// IterateNaluAvcc 遍历Avcc格式（4字节大端长度+nalu）的nalu流
//
func IterateNaluAvcc(nals []byte, handler func(nal []byte)) error {
	for i := 0; i != len(nals); {
		if len(nals)-i < avccLengthSize {
			return base.ErrShortBuffer
		}
		naluLen := int(bele.BeUint32(nals[i:]))
		i += avccLengthSize
		if naluLen < 0 || len(nals)-i < naluLen {
			return base.ErrShortBuffer
		}
		handler(nals[i : i+naluLen])
		i += naluLen
	}
	return nil
}

// Avcc2Annexb 将Avcc格式的nalu流转换成Annex-B格式
//
// @return 内存块为独立新申请
//
func Avcc2Annexb(nals []byte) ([]byte, error) {
	out := make([]byte, 0, len(nals))
	err := IterateNaluAvcc(nals, func(nal []byte) {
		out = append(out, NaluStartCode4...)
		out = append(out, nal...)
	})
	return out, err
}

func readParameterSets(record []byte, index int, num int) (list [][]byte, next int, err error) {
	for i := 0; i < num; i++ {
		if len(record)-index < 2 {
			return nil, index, base.ErrAvcSeqHeader
		}
		l := int(bele.BeUint16(record[index:]))
		index += 2
		if len(record)-index < l {
			return nil, index, base.ErrAvcSeqHeader
		}
		list = append(list, record[index:index+l])
		index += l
	}
	return list, index, nil
}
