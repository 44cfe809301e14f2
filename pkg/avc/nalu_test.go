// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/h264sps
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package avc_test

import (
	"testing"

	"github.com/q191201771/h264sps/pkg/avc"
	"github.com/q191201771/naza/pkg/assert"
)

func TestScanNalus(t *testing.T) {
	golden := []byte{0x00, 0x00, 0x00, 0x01, 0x67, 0xAA, 0x00, 0x00, 0x01, 0x68, 0xBB}
	units := avc.ScanNalus(golden)
	assert.Equal(t, 2, len(units))

	assert.Equal(t, avc.NalUnit{StartOffset: 4, EndOffset: 6, Header: 0x67}, units[0])
	assert.Equal(t, avc.NaluTypeSps, units[0].Type())
	assert.Equal(t, []byte{0x67, 0xAA}, units[0].Payload(golden))

	assert.Equal(t, avc.NalUnit{StartOffset: 9, EndOffset: 11, Header: 0x68}, units[1])
	assert.Equal(t, avc.NaluTypePps, units[1].Type())
	assert.Equal(t, 2, units[1].Len())
}

func TestScanNalus_Vector(t *testing.T) {
	vector := []struct {
		name   string
		input  []byte
		output []avc.NalUnit
	}{
		{
			name:   "overlapping prefix",
			input:  []byte{0x00, 0x00, 0x00, 0x00, 0x01, 0x65, 0x88},
			output: []avc.NalUnit{{StartOffset: 5, EndOffset: 7, Header: 0x65}},
		},
		{
			name:   "3 bytes prefix at head",
			input:  []byte{0x00, 0x00, 0x01, 0x09, 0xF0},
			output: []avc.NalUnit{{StartOffset: 3, EndOffset: 5, Header: 0x09}},
		},
		{
			name:  "zero length payload",
			input: []byte{0x00, 0x00, 0x01, 0x06, 0x00, 0x00, 0x01, 0x67},
			output: []avc.NalUnit{
				{StartOffset: 3, EndOffset: 4, Header: 0x06},
				{StartOffset: 7, EndOffset: 8, Header: 0x67},
			},
		},
		{
			name:  "adjacent units",
			input: []byte{0x00, 0x00, 0x01, 0x00, 0x00, 0x01, 0x41, 0x9A},
			output: []avc.NalUnit{
				{StartOffset: 3, EndOffset: 3, Header: 0x00},
				{StartOffset: 6, EndOffset: 8, Header: 0x41},
			},
		},
		{
			name:   "prefix at end without header",
			input:  []byte{0x00, 0x00, 0x01, 0x67, 0x42, 0x00, 0x00, 0x00, 0x01},
			output: []avc.NalUnit{{StartOffset: 3, EndOffset: 5, Header: 0x67}},
		},
		{
			name:   "no prefix",
			input:  []byte{0x67, 0x42, 0x00, 0x1F, 0x00, 0x00},
			output: nil,
		},
		{
			name:   "short buffer",
			input:  []byte{0x00, 0x00},
			output: nil,
		},
		{
			name:   "empty",
			input:  nil,
			output: nil,
		},
		{
			name:   "leading garbage",
			input:  []byte{0xFF, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x01, 0x68, 0xCE},
			output: []avc.NalUnit{{StartOffset: 8, EndOffset: 10, Header: 0x68}},
		},
	}

	for _, v := range vector {
		units := avc.ScanNalus(v.input)
		assert.Equal(t, len(v.output), len(units), v.name)
		for i := range v.output {
			assert.Equal(t, v.output[i], units[i], v.name)
		}
	}
}

func TestNaluScanner_Restart(t *testing.T) {
	golden := []byte{0x00, 0x00, 0x00, 0x01, 0x67, 0xAA, 0x00, 0x00, 0x01, 0x68, 0xBB, 0x00, 0x00, 0x01, 0x65}

	s := avc.NewNaluScanner(golden)
	var first []avc.NalUnit
	for {
		unit, ok := s.Next()
		if !ok {
			break
		}
		first = append(first, unit)
	}
	assert.Equal(t, 3, len(first))
	_, ok := s.Next()
	assert.Equal(t, false, ok)

	s.Reset()
	unit, ok := s.Next()
	assert.Equal(t, true, ok)
	assert.Equal(t, first[0], unit)

	assert.Equal(t, first, avc.ScanNalus(golden))
}

func TestIterateNalus_Stop(t *testing.T) {
	golden := []byte{0x00, 0x00, 0x01, 0x67, 0x00, 0x00, 0x01, 0x68, 0x00, 0x00, 0x01, 0x65}
	var count int
	avc.IterateNalus(golden, func(unit avc.NalUnit) bool {
		count++
		return unit.Type() != avc.NaluTypePps
	})
	assert.Equal(t, 2, count)
}

func TestParseNaluType(t *testing.T) {
	assert.Equal(t, avc.NaluTypeSps, avc.ParseNaluType(0x67))
	assert.Equal(t, avc.NaluTypePps, avc.ParseNaluType(0x68))
	assert.Equal(t, avc.NaluTypeIdrSlice, avc.ParseNaluType(0x65))
	assert.Equal(t, "SPS", avc.ParseNaluTypeReadable(0x27))
	assert.Equal(t, "unknown", avc.ParseNaluTypeReadable(0x1F))
	assert.Equal(t, "[4, 6) header=0x67 type=7(SPS)", avc.NalUnit{StartOffset: 4, EndOffset: 6, Header: 0x67}.DebugString())
}
