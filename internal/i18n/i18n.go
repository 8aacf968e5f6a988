// Package i18n 提供诊断信息与命令行文本的多语言支持（英文、中文）
package i18n

import (
	"fmt"
	"strings"
	"sync"
)

// Language 语言类型
type Language string

const (
	LangEnglish Language = "en"
	LangChinese Language = "zh"
)

// 全局语言设置
var (
	currentLang Language = LangEnglish
	mu          sync.RWMutex
)

// SetLanguage 设置当前语言
func SetLanguage(lang Language) {
	mu.Lock()
	defer mu.Unlock()
	currentLang = lang
}

// ParseLanguage 将字符串解析为语言，无法识别时返回英文
func ParseLanguage(lang string) Language {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "zh", "zh-cn", "zh_cn", "zh-tw", "zh-hk", "chinese":
		return LangChinese
	default:
		return LangEnglish
	}
}

// SetLanguageFromString 从字符串设置语言
func SetLanguageFromString(lang string) {
	SetLanguage(ParseLanguage(lang))
}

// GetLanguage 获取当前语言
func GetLanguage() Language {
	mu.RLock()
	defer mu.RUnlock()
	return currentLang
}

// T 使用当前语言翻译消息（支持格式化参数）
func T(msgID string, args ...interface{}) string {
	return TIn(GetLanguage(), msgID, args...)
}

// TIn 使用指定语言翻译消息
//
// 找不到翻译时回退到英文，英文也没有时返回消息 ID 本身。
func TIn(lang Language, msgID string, args ...interface{}) string {
	msg, ok := catalog(lang)[msgID]
	if !ok {
		msg, ok = messagesEN[msgID]
	}
	if !ok {
		return msgID
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// Has 判断消息 ID 是否存在于英文目录中
func Has(msgID string) bool {
	_, ok := messagesEN[msgID]
	return ok
}

func catalog(lang Language) map[string]string {
	switch lang {
	case LangChinese:
		return messagesZH
	default:
		return messagesEN
	}
}
