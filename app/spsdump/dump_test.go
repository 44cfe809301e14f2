// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/h264sps
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/q191201771/h264sps/pkg/innertest"
	"github.com/q191201771/naza/pkg/assert"
)

func TestDump(t *testing.T) {
	stream := innertest.AnnexbStream(
		[]byte{0x09, 0xF0},
		innertest.HighSps().Nalu(),
		[]byte{0x68, 0xEE, 0x3C, 0x80},
		[]byte{0x67, 0x42, 0xC0, 0x1F},
		innertest.BaselineSps().Nalu(),
	)

	var out bytes.Buffer
	stat := dump(&out, stream, DumpConfig{StripEmulationPrevention: true, BoundToNalu: true})
	assert.Equal(t, 2, stat.SpsCount)
	assert.Equal(t, 1, stat.ErrorCount)

	s := out.String()
	assert.Equal(t, true, strings.Contains(s, "sps #1 [10, 22) header=0x67 type=7(SPS)\n"))
	assert.Equal(t, true, strings.Contains(s, "=> 1920x1080, chroma_array_type=1, bit_depth=8/8\n"))
	assert.Equal(t, true, strings.Contains(s, "sps #2 "))
	assert.Equal(t, true, strings.Contains(s, "=> 1280x720"))
	assert.Equal(t, true, strings.Contains(s, "sps error [34, 38) "))
	assert.Equal(t, false, strings.Contains(s, "pps "))
	assert.Equal(t, true, strings.HasSuffix(s, "summary: nalu=5, sps=2, pps=1, error=1\n"))

	out.Reset()
	dump(&out, stream, DumpConfig{ShowNalu: true, BoundToNalu: true})
	s = out.String()
	assert.Equal(t, true, strings.Contains(s, "nalu [4, 6) header=0x09 type=9(AUD)\n"))
	assert.Equal(t, true, strings.Contains(s, "pps [26, 30) header=0x68 type=8(PPS) payload=3\n"))
}
