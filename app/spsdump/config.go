// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/h264sps
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/q191201771/h264sps/pkg/base"
	"github.com/q191201771/naza/pkg/nazajson"
	"github.com/q191201771/naza/pkg/nazalog"
)

type Config struct {
	ConfVersion string         `json:"conf_version"`
	Dump        DumpConfig     `json:"dump"`
	Log         nazalog.Option `json:"log"`
}

type DumpConfig struct {
	SourceType               string `json:"source_type"` // h264, ts, flv，为空时根据文件扩展名判断
	StripEmulationPrevention bool   `json:"strip_emulation_prevention"`
	BoundToNalu              bool   `json:"bound_to_nalu"`
	ShowNalu                 bool   `json:"show_nalu"` // 是否打印sps之外的nalu
}

// LoadConf
//
// @param confFile: 为空时所有配置项都使用默认值
//
func LoadConf(confFile string) (*Config, error) {
	rawContent := []byte("{}")
	if confFile != "" {
		var err error
		if rawContent, err = os.ReadFile(confFile); err != nil {
			return nil, err
		}
	}
	return parseConf(rawContent)
}

func parseConf(rawContent []byte) (*Config, error) {
	var config Config
	if err := json.Unmarshal(rawContent, &config); err != nil {
		return nil, err
	}

	j, err := nazajson.New(rawContent)
	if err != nil {
		return nil, err
	}

	// 检查配置必须项
	if j.Exist("conf_version") && config.ConfVersion != base.ConfVersion {
		return nil, fmt.Errorf("conf version mismatch. expected=%s, actual=%s", base.ConfVersion, config.ConfVersion)
	}

	// 配置不存在时，设置默认值
	if !j.Exist("dump.strip_emulation_prevention") {
		config.Dump.StripEmulationPrevention = true
	}
	if !j.Exist("dump.bound_to_nalu") {
		config.Dump.BoundToNalu = true
	}
	if !j.Exist("log.level") {
		config.Log.Level = nazalog.LevelInfo
	}
	if !j.Exist("log.is_to_stdout") {
		config.Log.IsToStdout = true
	}
	if !j.Exist("log.short_file_flag") {
		config.Log.ShortFileFlag = true
	}
	if !j.Exist("log.assert_behavior") {
		config.Log.AssertBehavior = nazalog.AssertError
	}

	return &config, nil
}
