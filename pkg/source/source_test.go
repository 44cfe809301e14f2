// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/h264sps
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package source_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/q191201771/h264sps/pkg/base"
	"github.com/q191201771/h264sps/pkg/flv"
	"github.com/q191201771/h264sps/pkg/innertest"
	"github.com/q191201771/h264sps/pkg/source"
	"github.com/q191201771/naza/pkg/assert"
)

func TestDetectType(t *testing.T) {
	vector := []struct {
		filename string
		t        source.Type
		ok       bool
	}{
		{filename: "a.h264", t: source.TypeH264, ok: true},
		{filename: "/tmp/a.264", t: source.TypeH264, ok: true},
		{filename: "A.TS", t: source.TypeTs, ok: true},
		{filename: "a.m2ts", t: source.TypeTs, ok: true},
		{filename: "dir.flv/a.flv", t: source.TypeFlv, ok: true},
		{filename: "a.mp4", ok: false},
		{filename: "a", ok: false},
	}
	for _, v := range vector {
		tt, err := source.DetectType(v.filename)
		assert.Equal(t, v.ok, err == nil, v.filename)
		if v.ok {
			assert.Equal(t, v.t, tt, v.filename)
		} else {
			assert.Equal(t, true, errors.Is(err, base.ErrUnknownSourceType), v.filename)
		}
	}
}

func TestParseType(t *testing.T) {
	for s, expected := range map[string]source.Type{"": source.TypeAuto, "auto": source.TypeAuto, "H264": source.TypeH264, "ts": source.TypeTs, "flv": source.TypeFlv} {
		tt, err := source.ParseType(s)
		assert.Equal(t, nil, err)
		assert.Equal(t, expected, tt, s)
	}
	_, err := source.ParseType("mkv")
	assert.Equal(t, true, errors.Is(err, base.ErrUnknownSourceType))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	stream := innertest.AnnexbStream(innertest.HighSps().Nalu(), []byte{0x68, 0xEE, 0x3C, 0x80})

	h264File := filepath.Join(dir, "a.h264")
	assert.Equal(t, nil, os.WriteFile(h264File, stream, 0644))
	b, err := source.Load(context.Background(), h264File, source.TypeAuto)
	assert.Equal(t, nil, err)
	assert.Equal(t, stream, b)

	// 显式指定类型时忽略扩展名
	binFile := filepath.Join(dir, "a.bin")
	assert.Equal(t, nil, os.WriteFile(binFile, stream, 0644))
	b, err = source.Load(context.Background(), binFile, source.TypeH264)
	assert.Equal(t, nil, err)
	assert.Equal(t, stream, b)

	_, err = source.Load(context.Background(), binFile, source.TypeAuto)
	assert.Equal(t, true, errors.Is(err, base.ErrUnknownSourceType))

	_, err = source.Load(context.Background(), filepath.Join(dir, "notexist.h264"), source.TypeAuto)
	assert.Equal(t, true, errors.Is(err, base.ErrFileNotExist))

	// 内容不是flv
	_, err = source.Load(context.Background(), h264File, source.TypeFlv)
	assert.Equal(t, true, errors.Is(err, base.ErrFlv))
}

func TestLoad_Flv(t *testing.T) {
	sps := innertest.BaselineSps().Nalu()
	nalus := []byte{0x00, 0x00, 0x00, byte(len(sps))}
	nalus = append(nalus, sps...)

	var b []byte
	b = append(b, flv.FlvHeader...)
	b = append(b, innertest.PackFlvTag(flv.TagTypeVideo, 0, append([]byte{flv.AvcKeyFrame, flv.AvcPacketTypeNalu, 0, 0, 0}, nalus...))...)

	filename := filepath.Join(t.TempDir(), "a.flv")
	assert.Equal(t, nil, os.WriteFile(filename, b, 0644))
	out, err := source.Load(context.Background(), filename, source.TypeAuto)
	assert.Equal(t, nil, err)
	assert.Equal(t, innertest.AnnexbStream(sps), out)
}
