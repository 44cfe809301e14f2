// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/h264sps
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package flv

import (
	"io"

	"github.com/q191201771/h264sps/pkg/avc"
	"github.com/q191201771/naza/pkg/nazaerrors"
	"github.com/q191201771/naza/pkg/nazalog"
)

// ReadAnnexb 读取整个flv流，把AVC seq header中的sps、pps，以及AVC nalu tag中的nalu，按顺序拼接成Annex-B流
//
// 非AVC的tag直接忽略。seq header解析失败时只打印日志，继续读取后面的tag
//
func ReadAnnexb(r io.Reader) ([]byte, error) {
	return readAnnexb(NewFlvReader(r))
}

func ReadAnnexbFile(filename string) (out []byte, err error) {
	var ffr FlvFileReader
	if err = ffr.Open(filename); err != nil {
		return nil, nazaerrors.Wrap(err)
	}
	defer func() {
		if closeErr := ffr.Dispose(); closeErr != nil {
			err = nazaerrors.CombineErrors(err, closeErr)
		}
	}()
	return readAnnexb(&ffr)
}

func readAnnexb(ffr *FlvFileReader) ([]byte, error) {
	if _, err := ffr.ReadFlvHeader(); err != nil {
		return nil, err
	}

	var (
		out      []byte
		tagCount int
	)
	for {
		tag, err := ffr.ReadTag()
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, err
		}
		tagCount++

		switch {
		case tag.IsAvcKeySeqHeader():
			b, err := avc.SpsPpsSeqHeader2Annexb(tag.Payload())
			if err != nil {
				nazalog.Warnf("parse avc seq header failed. ts=%d, err=%+v", tag.Header.Timestamp, err)
				continue
			}
			out = append(out, b...)
		case tag.IsAvcNalu():
			payload := tag.Payload()
			if len(payload) < avcTagPrefixSize {
				nazalog.Warnf("avc tag too short. ts=%d, len=%d", tag.Header.Timestamp, len(payload))
				continue
			}
			b, err := avc.Avcc2Annexb(payload[avcTagPrefixSize:])
			if err != nil {
				nazalog.Warnf("avcc to annexb failed. ts=%d, err=%+v", tag.Header.Timestamp, err)
			}
			out = append(out, b...)
		}
	}
	nazalog.Debugf("read flv done. tags=%d, annexb len=%d", tagCount, len(out))
	return out, nil
}
