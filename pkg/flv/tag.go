// Copyright 2019, Chef.  All rights reserved.
// https://github.com/q191201771/h264sps
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package flv

import (
	"io"

	"github.com/q191201771/h264sps/pkg/base"
	"github.com/q191201771/naza/pkg/bele"
)

type TagHeader struct {
	Type      uint8  // type
	DataSize  uint32 // body大小，不包含 header 和 prev tag size 字段
	Timestamp uint32 // 绝对时间戳，单位毫秒
	StreamId  uint32 // always 0
}

type Tag struct {
	Header TagHeader
	Raw    []byte // 结构为 (11字节的 tag header) + (body) + (4字节的 prev tag size)
}

func (tag *Tag) Payload() []byte {
	return tag.Raw[TagHeaderSize : len(tag.Raw)-prevTagSizeFieldSize]
}

func (tag *Tag) IsAvc() bool {
	return tag.Header.Type == TagTypeVideo && tag.Header.DataSize > 0 && tag.Raw[TagHeaderSize]&0xF == codecIdAvc
}

func (tag *Tag) IsAvcKeySeqHeader() bool {
	return tag.Header.Type == TagTypeVideo && tag.Header.DataSize >= 2 &&
		tag.Raw[TagHeaderSize] == AvcKeyFrame && tag.Raw[TagHeaderSize+1] == AvcPacketTypeSeqHeader
}

// IsAvcNalu 关键帧或非关键帧
func (tag *Tag) IsAvcNalu() bool {
	return tag.IsAvc() && tag.Header.DataSize >= 2 && tag.Raw[TagHeaderSize+1] == AvcPacketTypeNalu
}

func parseTagHeader(rawHeader []byte) TagHeader {
	var h TagHeader
	h.Type = rawHeader[0]
	h.DataSize = bele.BeUint24(rawHeader[1:])
	h.Timestamp = (uint32(rawHeader[7]) << 24) + bele.BeUint24(rawHeader[4:])
	h.StreamId = bele.BeUint24(rawHeader[8:])
	return h
}

// readTag
//
// @return err: 在tag边界处正好读完时返回io.EOF
//              tag不完整时返回 base.ErrFlv
//
func readTag(rd io.Reader) (tag Tag, err error) {
	rawHeader := make([]byte, TagHeaderSize)
	n, err := io.ReadFull(rd, rawHeader)
	if err != nil {
		if err == io.EOF {
			return tag, io.EOF
		}
		return tag, base.NewErrFlvShortBuffer(TagHeaderSize, n)
	}
	header := parseTagHeader(rawHeader)

	needed := int(header.DataSize) + prevTagSizeFieldSize
	tag.Header = header
	tag.Raw = make([]byte, TagHeaderSize+needed)
	copy(tag.Raw, rawHeader)

	if n, err = io.ReadFull(rd, tag.Raw[TagHeaderSize:]); err != nil {
		return tag, base.NewErrFlvShortBuffer(needed, n)
	}
	return tag, nil
}
