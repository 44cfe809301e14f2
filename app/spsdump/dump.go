// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/h264sps
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"fmt"
	"io"

	"github.com/q191201771/h264sps/pkg/avc"
)

// spsDumper 实现 annexb.IDriverObserver，把结果以文本形式写入w
type spsDumper struct {
	w        io.Writer
	showNalu bool

	spsIndex int
}

func (d *spsDumper) OnSps(unit avc.NalUnit, sps *avc.Sps) {
	d.spsIndex++
	_, _ = fmt.Fprintf(d.w, "sps #%d %s\n%s", d.spsIndex, unit.DebugString(), sps.DebugString())
}

func (d *spsDumper) OnPps(unit avc.NalUnit, pps *avc.Pps) {
	if d.showNalu {
		_, _ = fmt.Fprintf(d.w, "pps %s payload=%d\n", unit.DebugString(), len(pps.Payload))
	}
}

func (d *spsDumper) OnNalu(unit avc.NalUnit) {
	if d.showNalu {
		_, _ = fmt.Fprintf(d.w, "nalu %s\n", unit.DebugString())
	}
}

func (d *spsDumper) OnError(unit avc.NalUnit, err error) {
	_, _ = fmt.Fprintf(d.w, "sps error %s err=%v\n", unit.DebugString(), err)
}
