package middleware

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// EnsureUTF8Body 确保请求体是 UTF-8 编码的中间件
// 目的地、聊天消息等字段常含中文，Windows 下的 curl 可能以 GBK 发送请求体，
// 这里检测到非 UTF-8 时尝试按 GBK 解码后再交给后续 handler
func EnsureUTF8Body() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.ContentLength == 0 {
			c.Next()
			return
		}

		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Next()
			return
		}
		c.Request.Body.Close()

		// 已是合法 UTF-8（含空体）则原样恢复
		if len(raw) == 0 || utf8.Valid(raw) {
			c.Request.Body = io.NopCloser(bytes.NewReader(raw))
			c.Next()
			return
		}

		// 中文 Windows 默认代码页 936，按 GBK 解码
		decoded, err := gbkToUTF8(raw)
		if err == nil && utf8.Valid(decoded) {
			c.Request.Body = io.NopCloser(bytes.NewReader(decoded))
			c.Request.ContentLength = int64(len(decoded))
		} else {
			// 解码失败时保留原始字节，由 handler 的绑定逻辑报错
			c.Request.Body = io.NopCloser(bytes.NewReader(raw))
		}

		c.Next()
	}
}

// gbkToUTF8 将 GBK 编码的字节转换为 UTF-8
func gbkToUTF8(gbk []byte) ([]byte, error) {
	reader := transform.NewReader(bytes.NewReader(gbk), simplifiedchinese.GBK.NewDecoder())
	return io.ReadAll(reader)
}
