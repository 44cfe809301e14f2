// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/h264sps
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

// Package annexb 遍历Annex-B流中的nalu，解析其中的sps，并通过回调通知上层
package annexb

import (
	"fmt"

	"github.com/q191201771/h264sps/pkg/avc"
	"github.com/q191201771/naza/pkg/nazalog"
)

// IDriverObserver 所有回调都在 Driver.Feed 的调用协程中同步执行
//
// unit 中的偏移都是相对于 Feed 的入参buf
type IDriverObserver interface {
	// OnSps 解析成功的sps
	OnSps(unit avc.NalUnit, sps *avc.Sps)

	// OnPps pps不做解析，只透传
	OnPps(unit avc.NalUnit, pps *avc.Pps)

	// OnNalu 除sps和pps之外的其他nalu，不做检查
	OnNalu(unit avc.NalUnit)

	// OnError sps解析失败，Driver会继续处理后面的nalu
	OnError(unit avc.NalUnit, err error)
}

type DriverOption struct {
	// StripEmulationPrevention 解析sps前是否先去除防竞争字节
	StripEmulationPrevention bool

	// BoundToNalu 解析sps时，是否只使用该nalu范围内的数据
	// 为false时，解析可以越过nalu的结尾，一直读到buf结尾
	BoundToNalu bool
}

var defaultDriverOption = DriverOption{
	StripEmulationPrevention: false,
	BoundToNalu:              true,
}

type ModDriverOption func(option *DriverOption)

// DriverStat 一次 Feed 的统计
type DriverStat struct {
	NaluCount  int
	SpsCount   int
	PpsCount   int
	ErrorCount int
}

func (s DriverStat) String() string {
	return fmt.Sprintf("nalu=%d, sps=%d, pps=%d, error=%d", s.NaluCount, s.SpsCount, s.PpsCount, s.ErrorCount)
}

// Driver 不持有跨 Feed 的状态，每个nalu独立处理
type Driver struct {
	option   DriverOption
	observer IDriverObserver
}

func NewDriver(observer IDriverObserver, modOptions ...ModDriverOption) *Driver {
	option := defaultDriverOption
	for _, fn := range modOptions {
		fn(&option)
	}
	return &Driver{
		option:   option,
		observer: observer,
	}
}

// Feed
//
// @param buf: 完整的Annex-B流。函数调用结束后，内部不持有该内存块
//             注意，回调中拿到的 avc.Sps 以及 avc.Pps 可能引用buf的内存块
//
func (d *Driver) Feed(buf []byte) DriverStat {
	var stat DriverStat
	avc.IterateNalus(buf, func(unit avc.NalUnit) bool {
		stat.NaluCount++
		switch unit.Type() {
		case avc.NaluTypeSps:
			sps, err := d.parseSps(buf, unit)
			if err != nil {
				stat.ErrorCount++
				nazalog.Warnf("parse sps failed. unit=%s, err=%+v", unit.DebugString(), err)
				d.observer.OnError(unit, err)
				break
			}
			stat.SpsCount++
			d.observer.OnSps(unit, sps)
		case avc.NaluTypePps:
			stat.PpsCount++
			d.observer.OnPps(unit, avc.NewPps(unit.Payload(buf)))
		default:
			d.observer.OnNalu(unit)
		}
		return true
	})
	nazalog.Debugf("feed done. len=%d, stat=%s", len(buf), stat)
	return stat
}

func (d *Driver) parseSps(buf []byte, unit avc.NalUnit) (*avc.Sps, error) {
	b := buf
	offset := unit.StartOffset
	if d.option.BoundToNalu {
		b = unit.Payload(buf)
		offset = 0
	}
	if d.option.StripEmulationPrevention {
		// 去除防竞争字节后nalu内部的偏移会变化，vui的BitOffset是相对于去除后的rbsp
		b = avc.Ebsp2Rbsp(b[offset:])
		offset = 0
	}
	return avc.ParseSps(b, offset)
}

// ---------------------------------------------------------------------------------------------------------------------

// CollectSps 对 Driver 的简单封装，返回buf中所有解析成功的sps，以及所有解析失败的错误
func CollectSps(buf []byte, modOptions ...ModDriverOption) ([]*avc.Sps, []error) {
	var c spsCollector
	NewDriver(&c, modOptions...).Feed(buf)
	return c.spsList, c.errList
}

type spsCollector struct {
	spsList []*avc.Sps
	errList []error
}

func (c *spsCollector) OnSps(unit avc.NalUnit, sps *avc.Sps) {
	c.spsList = append(c.spsList, sps)
}

func (c *spsCollector) OnPps(unit avc.NalUnit, pps *avc.Pps) {}

func (c *spsCollector) OnNalu(unit avc.NalUnit) {}

func (c *spsCollector) OnError(unit avc.NalUnit, err error) {
	c.errList = append(c.errList, err)
}
