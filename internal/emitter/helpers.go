package emitter

import "strings"

// ============================================================================
// 运行时辅助函数
// ============================================================================

// 生成代码按需定义的模块级函数，缩进用 \t 书写，输出时换成配置的缩进
const (
	helperDiv       = "_jdiv"
	helperMod       = "_jmod"
	helperStoreAttr = "_store_attr"
	helperStoreItem = "_store_item"
)

// helperOrder 输出顺序
var helperOrder = []string{helperDiv, helperMod, helperStoreAttr, helperStoreItem}

var helperSource = map[string]string{
	// 整数除法向零取整
	helperDiv: "def _jdiv(a, b):\n" +
		"\tq = abs(a) // abs(b)\n" +
		"\treturn q if (a < 0) == (b < 0) else -q\n",
	// 余数与被除数同号
	helperMod: "def _jmod(a, b):\n" +
		"\tr = abs(a) % abs(b)\n" +
		"\treturn r if a >= 0 else -r\n",
	// 表达式中的字段写入，返回写入的值
	helperStoreAttr: "def _store_attr(obj, name, value):\n" +
		"\tsetattr(obj, name, value)\n" +
		"\treturn value\n",
	// 表达式中的数组元素写入，返回写入的值
	helperStoreItem: "def _store_item(seq, index, value):\n" +
		"\tseq[index] = value\n" +
		"\treturn value\n",
}

// helper 标记用到的辅助函数，返回函数名
func (e *Emitter) helper(name string) string {
	e.helpers[name] = true
	return name
}

// writeHelpers 按固定顺序输出用到的辅助函数
func (e *Emitter) writeHelpers(b *strings.Builder) {
	for _, name := range helperOrder {
		if !e.helpers[name] {
			continue
		}
		b.WriteString("\n\n")
		b.WriteString(strings.ReplaceAll(helperSource[name], "\t", e.options.unit()))
	}
}
