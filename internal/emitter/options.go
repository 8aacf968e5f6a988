package emitter

import (
	"fmt"
	"strings"
)

// Options 生成选项
type Options struct {
	// 缩进设置
	IndentStyle string // "tabs" 或 "spaces"
	IndentSize  int    // 空格数（当使用 spaces 时），2 或 4

	// 为 static void main(String[]) 生成 if __name__ == "__main__": 入口
	MainGuard bool
}

// DefaultOptions 返回默认生成选项（4 空格缩进 + main 入口）
func DefaultOptions() *Options {
	return &Options{
		IndentStyle: "spaces",
		IndentSize:  4,
		MainGuard:   true,
	}
}

// Validate 检查选项取值
func (o *Options) Validate() error {
	switch o.IndentStyle {
	case "spaces":
		if o.IndentSize != 2 && o.IndentSize != 4 {
			return fmt.Errorf("indent size must be 2 or 4, got %d", o.IndentSize)
		}
	case "tabs":
	default:
		return fmt.Errorf("indent style must be \"spaces\" or \"tabs\", got %q", o.IndentStyle)
	}
	return nil
}

// unit 返回一级缩进的文本
func (o *Options) unit() string {
	if o.IndentStyle == "tabs" {
		return "\t"
	}
	return strings.Repeat(" ", o.IndentSize)
}
