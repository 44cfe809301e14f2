// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/h264sps
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

// Package source 把不同格式的输入文件读取成Annex-B流
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/q191201771/h264sps/pkg/base"
	"github.com/q191201771/h264sps/pkg/flv"
	"github.com/q191201771/h264sps/pkg/mpegts"
	"github.com/q191201771/naza/pkg/nazaerrors"
	"github.com/q191201771/naza/pkg/nazalog"
)

type Type string

const (
	TypeAuto Type = ""
	TypeH264 Type = "h264"
	TypeTs   Type = "ts"
	TypeFlv  Type = "flv"
)

var extMapping = map[string]Type{
	".h264": TypeH264,
	".264":  TypeH264,
	".avc":  TypeH264,
	".es":   TypeH264,
	".ts":   TypeTs,
	".m2ts": TypeTs,
	".flv":  TypeFlv,
}

// ParseType 空字符串以及"auto"返回 TypeAuto
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(s)); t {
	case TypeAuto, "auto":
		return TypeAuto, nil
	case TypeH264, TypeTs, TypeFlv:
		return t, nil
	}
	return TypeAuto, fmt.Errorf("%w. type=%s", base.ErrUnknownSourceType, s)
}

// DetectType 根据文件扩展名判断，不区分大小写
func DetectType(filename string) (Type, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	t, ok := extMapping[ext]
	if !ok {
		return TypeAuto, fmt.Errorf("%w. filename=%s", base.ErrUnknownSourceType, filename)
	}
	return t, nil
}

// Load 读取整个文件，返回Annex-B流
//
// @param t: 为 TypeAuto 时根据扩展名判断
//
func Load(ctx context.Context, filename string, t Type) ([]byte, error) {
	if t == TypeAuto {
		var err error
		if t, err = DetectType(filename); err != nil {
			return nil, err
		}
	}
	if _, err := os.Stat(filename); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w. filename=%s", base.ErrFileNotExist, filename)
		}
		return nil, nazaerrors.Wrap(err)
	}
	nazalog.Debugf("load source. filename=%s, type=%s", filename, t)

	switch t {
	case TypeH264:
		b, err := os.ReadFile(filename)
		if err != nil {
			return nil, nazaerrors.Wrap(err)
		}
		return b, nil
	case TypeTs:
		return mpegts.ExtractH264EsFile(ctx, filename)
	case TypeFlv:
		return flv.ReadAnnexbFile(filename)
	}
	return nil, fmt.Errorf("%w. type=%s", base.ErrUnknownSourceType, t)
}
