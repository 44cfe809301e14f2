// Copyright 2019, Chef.  All rights reserved.
// https://github.com/q191201771/h264sps
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

// Package flv 读取flv文件，把其中的AVC视频tag转换成Annex-B格式
package flv

// spec-video_file_format_spec_v10.pdf
// E.4.1 FLV Tag
// E.4.3.1 VIDEODATA

const (
	TagTypeAudio    uint8 = 8
	TagTypeVideo    uint8 = 9
	TagTypeMetadata uint8 = 18
)

const (
	frameTypeKey   uint8 = 1
	frameTypeInter uint8 = 2

	codecIdAvc uint8 = 7
)

const (
	AvcKeyFrame   = frameTypeKey<<4 | codecIdAvc   // 0x17
	AvcInterFrame = frameTypeInter<<4 | codecIdAvc // 0x27

	AvcPacketTypeSeqHeader uint8 = 0
	AvcPacketTypeNalu      uint8 = 1
)

const (
	TagHeaderSize        = 11
	prevTagSizeFieldSize = 4
	flvHeaderSize        = 13 // 9字节的flv header，加上第一个prev tag size
	avcTagPrefixSize     = 5  // frame type + codec id(1)，avc packet type(1)，composition time(3)
)

var FlvHeader = []byte{0x46, 0x4c, 0x56, 0x01, 0x01, 0x00, 0x00, 0x00, 0x09, 0x00, 0x00, 0x00, 0x00}
