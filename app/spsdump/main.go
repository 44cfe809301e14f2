// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/h264sps
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/q191201771/h264sps/pkg/annexb"
	"github.com/q191201771/h264sps/pkg/base"
	"github.com/q191201771/h264sps/pkg/source"
	"github.com/q191201771/naza/pkg/bininfo"
	"github.com/q191201771/naza/pkg/nazalog"
	"github.com/spf13/pflag"
)

// spsdump 读取h264、ts或flv文件，打印其中所有的sps
//
// 例如
//   ./bin/spsdump -i test.flv
//   ./bin/spsdump -i test.h264 -c ./conf/spsdump.conf.json --show-nalu

type flagOption struct {
	input    string
	confFile string
	typ      string
	stripEpb bool
	showNalu bool
}

func main() {
	fo := parseFlag()

	config, err := LoadConf(fo.confFile)
	if err != nil {
		base.OsExitWithMessage(1, "load conf failed. file=%s, err=%+v", fo.confFile, err)
	}
	// 命令行参数优先于配置文件
	if pflag.CommandLine.Changed("type") {
		config.Dump.SourceType = fo.typ
	}
	if pflag.CommandLine.Changed("strip-epb") {
		config.Dump.StripEmulationPrevention = fo.stripEpb
	}
	if pflag.CommandLine.Changed("show-nalu") {
		config.Dump.ShowNalu = fo.showNalu
	}

	if err = nazalog.Init(func(option *nazalog.Option) {
		*option = config.Log
	}); err != nil {
		base.OsExitWithMessage(1, "init log failed. err=%+v", err)
	}
	nazalog.Infof("bininfo: %s", bininfo.StringifySingleLine())
	nazalog.Infof("version: %s", base.FullInfo)

	t, err := source.ParseType(config.Dump.SourceType)
	if err != nil {
		base.OsExitWithMessage(1, "invalid source type. err=%+v", err)
	}
	buf, err := source.Load(context.Background(), fo.input, t)
	if err != nil {
		base.OsExitWithMessage(1, "load source failed. file=%s, err=%+v", fo.input, err)
	}

	stat := dump(os.Stdout, buf, config.Dump)
	nazalog.Infof("done. file=%s, len=%d, %s", fo.input, len(buf), stat)
}

func dump(w io.Writer, buf []byte, config DumpConfig) annexb.DriverStat {
	observer := &spsDumper{w: w, showNalu: config.ShowNalu}
	d := annexb.NewDriver(observer, func(option *annexb.DriverOption) {
		option.StripEmulationPrevention = config.StripEmulationPrevention
		option.BoundToNalu = config.BoundToNalu
	})
	stat := d.Feed(buf)
	_, _ = fmt.Fprintf(w, "summary: %s\n", stat)
	return stat
}

func parseFlag() flagOption {
	var fo flagOption
	binInfoFlag := pflag.BoolP("version", "v", false, "show bin info")
	pflag.StringVarP(&fo.input, "input", "i", "", "specify input file")
	pflag.StringVarP(&fo.confFile, "conf", "c", "", "specify conf file, optional")
	pflag.StringVarP(&fo.typ, "type", "t", "", "specify input type: h264, ts, flv. detect by file extension if not set")
	pflag.BoolVar(&fo.stripEpb, "strip-epb", true, "remove emulation prevention bytes before parsing sps")
	pflag.BoolVar(&fo.showNalu, "show-nalu", false, "print every nalu, not only sps")
	pflag.Parse()

	if *binInfoFlag {
		_, _ = fmt.Fprint(os.Stderr, bininfo.StringifyMultiLine())
		_, _ = fmt.Fprintln(os.Stderr, base.FullInfo)
		os.Exit(0)
	}
	if fo.input == "" {
		pflag.Usage()
		_, _ = fmt.Fprintf(os.Stderr, `
Example:
  ./bin/spsdump -i test.flv
  ./bin/spsdump -i test.h264 -c ./conf/spsdump.conf.json --show-nalu
`)
		base.OsExitWithMessage(1, "input file is required")
	}
	return fo
}
