// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/h264sps
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

// Package mpegts 从mpegts流中提取H.264 elementary stream
package mpegts

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/asticode/go-astits"
	"github.com/q191201771/h264sps/pkg/base"
	"github.com/q191201771/naza/pkg/nazaerrors"
	"github.com/q191201771/naza/pkg/nazalog"
)

// ExtractH264Es 读取整个mpegts流，返回第一个H.264 PID上所有PES的负载，按顺序拼接，也即Annex-B流
//
// H.264的PID由PMT中第一个stream type为0x1B的elementary stream决定
//
// @return err: 没有找到H.264的elementary stream时，返回 base.ErrMpegtsNoH264
//
func ExtractH264Es(ctx context.Context, r io.Reader) ([]byte, error) {
	dmx := astits.NewDemuxer(ctx, r)

	var (
		out      []byte
		h264Pid  uint16
		found    bool
		pesCount int
	)
	for {
		d, err := dmx.NextData()
		if err != nil {
			if errors.Is(err, astits.ErrNoMorePackets) {
				break
			}
			return out, nazaerrors.Wrap(err)
		}

		if d.PMT != nil && !found {
			for _, es := range d.PMT.ElementaryStreams {
				if es.StreamType == astits.StreamTypeH264Video {
					h264Pid = es.ElementaryPID
					found = true
					nazalog.Debugf("h264 pid found. pid=%d, program=%d", h264Pid, d.PMT.ProgramNumber)
					break
				}
			}
		}

		if found && d.PES != nil && d.PID == h264Pid {
			out = append(out, d.PES.Data...)
			pesCount++
		}
	}

	if !found {
		return nil, base.ErrMpegtsNoH264
	}
	nazalog.Debugf("extract h264 es done. pes=%d, len=%d", pesCount, len(out))
	return out, nil
}

func ExtractH264EsFile(ctx context.Context, filename string) (out []byte, err error) {
	fp, err := os.Open(filename)
	if err != nil {
		return nil, nazaerrors.Wrap(err)
	}
	defer func() {
		if closeErr := fp.Close(); closeErr != nil {
			err = nazaerrors.CombineErrors(err, closeErr)
		}
	}()
	return ExtractH264Es(ctx, fp)
}
