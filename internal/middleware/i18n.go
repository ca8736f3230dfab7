// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/kk-storefront/internal/i18n"
)

func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := i18n.DefaultLanguage()

		// Explicit ?lang= wins over the header
		if q := c.Query("lang"); q != "" {
			if normalized := normalizeLang(q); i18n.Supported(normalized) {
				lang = normalized
			}
		} else if header := c.GetHeader("Accept-Language"); header != "" {
			// Handle cases like "zh-TW,zh;q=0.9,en;q=0.8"
			for _, part := range strings.Split(header, ",") {
				candidate := normalizeLang(strings.TrimSpace(strings.Split(part, ";")[0]))
				if i18n.Supported(candidate) {
					lang = candidate
					break
				}
			}
		}

		c.Set("lang", lang)
		c.Next()
	}
}

func normalizeLang(tag string) string {
	switch tag {
	case "zh-TW", "zh-Hant", "zh_TW", "zh-HK", "zh":
		return "zh_TW"
	case "en", "en-US", "en-GB":
		return "en"
	default:
		return tag
	}
}
