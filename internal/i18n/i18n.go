package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	// LocaleEN 英文
	LocaleEN = "en-US"
	// LocaleZH 简体中文
	LocaleZH = "zh-CN"

	// DefaultLocale 默认语言
	DefaultLocale = LocaleEN

	localeHeader = "X-Locale"
)

// supportedLocales 与 matcher 的标签顺序一致
var (
	supportedLocales = []string{LocaleEN, LocaleZH}
	matcher          = language.NewMatcher([]language.Tag{
		language.AmericanEnglish,
		language.SimplifiedChinese,
	})
)

// NormalizeLocale 将任意语言标记归一到支持的语言
func NormalizeLocale(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	if index < 0 || index >= len(supportedLocales) {
		return DefaultLocale
	}
	return supportedLocales[index]
}

// ResolveLocale 从请求中解析语言，X-Locale 优先于 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if cached, ok := c.Get("locale"); ok {
		if locale, ok := cached.(string); ok && locale != "" {
			return locale
		}
	}
	raw := c.GetHeader(localeHeader)
	if strings.TrimSpace(raw) == "" {
		raw = c.GetHeader("Accept-Language")
	}
	locale := NormalizeLocale(raw)
	c.Set("locale", locale)
	return locale
}

// T 翻译消息键，缺失时回退默认语言，再回退键本身
func T(locale, key string) string {
	if table, ok := messages[locale]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译带参数的消息
func Sprintf(locale, key string, args ...interface{}) string {
	format := T(locale, key)
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
