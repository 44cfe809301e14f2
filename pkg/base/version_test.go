// Copyright 2022, Chef.  All rights reserved.
// https://github.com/q191201771/h264sps
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/q191201771/h264sps/pkg/base"
	"github.com/q191201771/naza/pkg/assert"
)

func TestVersion(t *testing.T) {
	assert.Equal(t, true, strings.HasPrefix(base.Version, "v"))
	assert.Equal(t, base.Version, "v"+base.VersionDot)
	assert.Equal(t, true, strings.Contains(base.FullInfo, base.GithubRepo))
}

func TestErr(t *testing.T) {
	assert.Equal(t, true, errors.Is(base.ErrMalformedExpGolombCode, base.ErrBitstreamExhausted))
	assert.Equal(t, false, errors.Is(base.ErrBitstreamExhausted, base.ErrMalformedExpGolombCode))

	err := base.NewErrSpsOutOfRange("chroma_format_idc", 4, 3)
	assert.Equal(t, true, errors.Is(err, base.ErrSpsOutOfRange))
	assert.Equal(t, true, strings.Contains(err.Error(), "chroma_format_idc"))

	assert.Equal(t, true, errors.Is(base.NewErrNotSps(8), base.ErrNotSps))
	assert.Equal(t, true, errors.Is(base.NewErrFlvShortBuffer(11, 3), base.ErrFlv))
}
