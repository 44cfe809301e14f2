// Copyright 2024, Chef.  All rights reserved.
// https://github.com/q191201771/h264sps
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package avc_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/q191201771/h264sps/pkg/avc"
	"github.com/q191201771/h264sps/pkg/innertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ueVector() []uint64 {
	var ret []uint64
	for i := uint64(0); i < 2048; i++ {
		ret = append(ret, i)
	}
	for i := uint(11); i < 64; i++ {
		v := uint64(1) << i
		ret = append(ret, v-2, v-1, v)
	}
	ret = append(ret, math.MaxUint64-1)

	r := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		ret = append(ret, r.Uint64()>>uint(r.Intn(63)+1))
	}
	return ret
}

func seVector() []int64 {
	var ret []int64
	for i := int64(-1024); i <= 1024; i++ {
		ret = append(ret, i)
	}
	ret = append(ret, math.MaxInt32, math.MinInt32, math.MaxInt64, math.MinInt64+1)

	r := rand.New(rand.NewSource(2))
	for i := 0; i < 1000; i++ {
		v := r.Int63() >> uint(r.Intn(62)+1)
		if r.Intn(2) == 0 {
			v = -v
		}
		ret = append(ret, v)
	}
	return ret
}

func TestExpGolombUnsignedRoundTrip(t *testing.T) {
	vector := ueVector()

	var w innertest.BitstreamWriter
	for _, v := range vector {
		w.WriteUe(v)
	}
	c := avc.NewBitCursor(w.Bytes())
	for i, v := range vector {
		got, err := c.ReadUe()
		require.NoError(t, err, "index=%d", i)
		require.Equal(t, v, got, "index=%d", i)
	}
	assert.Less(t, c.BitsRemaining(), uint(8))
}

func TestExpGolombSignedRoundTrip(t *testing.T) {
	vector := seVector()

	var w innertest.BitstreamWriter
	for _, v := range vector {
		w.WriteSe(v)
	}
	c := avc.NewBitCursor(w.Bytes())
	for i, v := range vector {
		got, err := c.ReadSe()
		require.NoError(t, err, "index=%d", i)
		require.Equal(t, v, got, "index=%d", i)
	}
	assert.Less(t, c.BitsRemaining(), uint(8))
}

func TestExpGolombBitLength(t *testing.T) {
	// ue(v)的长度为 2*floor(log2(v+1))+1
	for _, v := range []uint64{0, 1, 2, 3, 6, 7, 254, 255, 65535} {
		var w innertest.BitstreamWriter
		w.WriteUe(v)
		c := avc.NewBitCursor(w.Bytes())
		_, err := c.ReadUe()
		require.NoError(t, err)
		assert.Equal(t, uint(w.BitLen()), c.BitPos(), "v=%d", v)
		assert.Equal(t, 2*int(math.Floor(math.Log2(float64(v+1))))+1, w.BitLen(), "v=%d", v)
	}
}
