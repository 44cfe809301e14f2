// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/h264sps
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package flv_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/q191201771/h264sps/pkg/annexb"
	"github.com/q191201771/h264sps/pkg/base"
	"github.com/q191201771/h264sps/pkg/flv"
	"github.com/q191201771/h264sps/pkg/innertest"
	"github.com/q191201771/naza/pkg/assert"
)

var (
	pps = []byte{0x68, 0xEE, 0x3C, 0x80}
	idr = []byte{0x65, 0x88, 0x84, 0x00, 0x33}
	sei = []byte{0x06, 0x05, 0x01, 0xAA, 0x80}
)

func seqHeaderTagPayload(sps, pps []byte) []byte {
	b := []byte{flv.AvcKeyFrame, flv.AvcPacketTypeSeqHeader, 0, 0, 0}
	b = append(b, 0x01, sps[1], sps[2], sps[3], 0xFF, 0xE1)
	b = append(b, byte(len(sps)>>8), byte(len(sps)))
	b = append(b, sps...)
	b = append(b, 0x01, byte(len(pps)>>8), byte(len(pps)))
	return append(b, pps...)
}

func naluTagPayload(frameType uint8, nalus ...[]byte) []byte {
	b := []byte{frameType, flv.AvcPacketTypeNalu, 0, 0, 0}
	for _, n := range nalus {
		b = append(b, byte(len(n)>>24), byte(len(n)>>16), byte(len(n)>>8), byte(len(n)))
		b = append(b, n...)
	}
	return b
}

func goldenFlv(sps []byte) []byte {
	var b []byte
	b = append(b, flv.FlvHeader...)
	b = append(b, innertest.PackFlvTag(flv.TagTypeMetadata, 0, []byte{0x02, 0x00, 0x0A})...)
	b = append(b, innertest.PackFlvTag(flv.TagTypeVideo, 0, seqHeaderTagPayload(sps, pps))...)
	b = append(b, innertest.PackFlvTag(flv.TagTypeAudio, 0, []byte{0xAF, 0x00, 0x12, 0x10})...)
	b = append(b, innertest.PackFlvTag(flv.TagTypeVideo, 0, naluTagPayload(flv.AvcKeyFrame, sei, idr))...)
	b = append(b, innertest.PackFlvTag(flv.TagTypeVideo, 40, naluTagPayload(flv.AvcInterFrame, []byte{0x41, 0x9A}))...)
	return b
}

func TestReadAnnexb(t *testing.T) {
	sps := innertest.HighSps().Nalu()
	out, err := flv.ReadAnnexb(bytes.NewReader(goldenFlv(sps)))
	assert.Equal(t, nil, err)
	assert.Equal(t, innertest.AnnexbStream(sps, pps, sei, idr, []byte{0x41, 0x9A}), out)

	spsList, errList := annexb.CollectSps(out)
	assert.Equal(t, 0, len(errList))
	assert.Equal(t, 1, len(spsList))
	assert.Equal(t, uint32(1920), spsList[0].Width())
}

func TestReadAnnexb_File(t *testing.T) {
	sps := innertest.BaselineSps().Nalu()
	filename := filepath.Join(t.TempDir(), "test.flv")
	assert.Equal(t, nil, os.WriteFile(filename, goldenFlv(sps), 0644))

	out, err := flv.ReadAnnexbFile(filename)
	assert.Equal(t, nil, err)
	spsList, _ := annexb.CollectSps(out)
	assert.Equal(t, 1, len(spsList))
	assert.Equal(t, uint32(720), spsList[0].Height())

	_, err = flv.ReadAnnexbFile(filepath.Join(t.TempDir(), "notexist.flv"))
	assert.IsNotNil(t, err)
}

func TestReadAnnexb_Corrupt(t *testing.T) {
	golden := goldenFlv(innertest.HighSps().Nalu())

	_, err := flv.ReadAnnexb(bytes.NewReader(golden[:10]))
	assert.Equal(t, true, errors.Is(err, base.ErrFlv))

	b := append([]byte{}, golden...)
	b[0] = 'X'
	_, err = flv.ReadAnnexb(bytes.NewReader(b))
	assert.Equal(t, base.ErrFlv, err)

	// 截断在最后一个tag中间，前面已经转换的数据仍然返回
	out, err := flv.ReadAnnexb(bytes.NewReader(golden[:len(golden)-3]))
	assert.Equal(t, true, errors.Is(err, base.ErrFlv))
	assert.Equal(t, true, len(out) > 0)
}

func TestReadAnnexb_BadTags(t *testing.T) {
	sps := innertest.HighSps().Nalu()
	var b []byte
	b = append(b, flv.FlvHeader...)
	// seq header只有前缀
	b = append(b, innertest.PackFlvTag(flv.TagTypeVideo, 0, []byte{flv.AvcKeyFrame, flv.AvcPacketTypeSeqHeader, 0, 0, 0, 0x01})...)
	// 空的video tag
	b = append(b, innertest.PackFlvTag(flv.TagTypeVideo, 0, nil)...)
	b = append(b, innertest.PackFlvTag(flv.TagTypeVideo, 0, seqHeaderTagPayload(sps, pps))...)
	// avcc长度字段超出tag范围
	bad := naluTagPayload(flv.AvcKeyFrame, idr)
	b = append(b, innertest.PackFlvTag(flv.TagTypeVideo, 0, bad[:len(bad)-1])...)

	out, err := flv.ReadAnnexb(bytes.NewReader(b))
	assert.Equal(t, nil, err)
	assert.Equal(t, innertest.AnnexbStream(sps, pps), out)
}

func TestTag(t *testing.T) {
	raw := innertest.PackFlvTag(flv.TagTypeVideo, 0x01020304, naluTagPayload(flv.AvcInterFrame, idr))
	assert.Equal(t, flv.TagTypeVideo, raw[0])
	assert.Equal(t, []byte{0x02, 0x03, 0x04, 0x01}, raw[4:8])

	ffr := flv.NewFlvReader(bytes.NewReader(raw))
	tag, err := ffr.ReadTag()
	assert.Equal(t, nil, err)
	assert.Equal(t, uint32(0x01020304), tag.Header.Timestamp)
	assert.Equal(t, uint32(len(raw)-flv.TagHeaderSize-4), tag.Header.DataSize)
	assert.Equal(t, true, tag.IsAvc())
	assert.Equal(t, true, tag.IsAvcNalu())
	assert.Equal(t, false, tag.IsAvcKeySeqHeader())
	assert.Equal(t, nil, ffr.Dispose())
}
