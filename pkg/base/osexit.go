// Copyright 2021, Chef.  All rights reserved.
// https://github.com/q191201771/h264sps
//
// Use of this source code is governed by a MIT-style license
// that can be found in the License file.
//
// Author: Chef (191201771@qq.com)

package base

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
)

// OsExitWithMessage 把错误信息打印到stderr后退出
//
// windows下双击运行时，窗口会在进程退出后立即关闭，所以先等待用户按回车
//
func OsExitWithMessage(code int, format string, v ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", v...)
	if runtime.GOOS == "windows" {
		_, _ = fmt.Fprintf(os.Stderr, "Press Enter to exit...")
		_, _ = bufio.NewReader(os.Stdin).ReadByte()
	}
	os.Exit(code)
}
