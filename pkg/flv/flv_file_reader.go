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
	"os"

	"github.com/q191201771/h264sps/pkg/base"
)

type FlvFileReader struct {
	fp *os.File
	r  io.Reader
}

// NewFlvReader 从任意io.Reader读取，比如内存中的flv数据
func NewFlvReader(r io.Reader) *FlvFileReader {
	return &FlvFileReader{r: r}
}

func (ffr *FlvFileReader) Open(filename string) (err error) {
	ffr.fp, err = os.Open(filename)
	if err != nil {
		return err
	}
	ffr.r = ffr.fp
	return nil
}

// ReadFlvHeader 读取9字节的flv header以及第一个prev tag size，并检查signature
func (ffr *FlvFileReader) ReadFlvHeader() ([]byte, error) {
	flvHeader := make([]byte, flvHeaderSize)
	n, err := io.ReadFull(ffr.r, flvHeader)
	if err != nil {
		return nil, base.NewErrFlvShortBuffer(flvHeaderSize, n)
	}
	if flvHeader[0] != 'F' || flvHeader[1] != 'L' || flvHeader[2] != 'V' {
		return nil, base.ErrFlv
	}
	return flvHeader, nil
}

func (ffr *FlvFileReader) ReadTag() (*Tag, error) {
	tag, err := readTag(ffr.r)
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (ffr *FlvFileReader) Dispose() error {
	if ffr.fp != nil {
		return ffr.fp.Close()
	}
	return nil
}
