package middleware

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// utf8BOM 部分 Windows 工具写入 JSON 时带的字节序标记
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// EnsureUTF8Body 规范化请求体编码
// 去掉 UTF-8 BOM；非 UTF-8 内容尝试按 GBK 解码（Windows 下 curl 发送中文标题时常见）
// 转换失败时保留原始数据，由 JSON 解析报错
func EnsureUTF8Body() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.ContentLength == 0 {
			c.Next()
			return
		}

		bodyBytes, err := io.ReadAll(c.Request.Body)
		_ = c.Request.Body.Close()
		if err != nil {
			c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			c.Next()
			return
		}

		normalized := normalizeBody(bodyBytes)
		c.Request.Body = io.NopCloser(bytes.NewReader(normalized))
		c.Request.ContentLength = int64(len(normalized))
		c.Next()
	}
}

// normalizeBody 返回 UTF-8 编码的请求体
func normalizeBody(body []byte) []byte {
	body = bytes.TrimPrefix(body, utf8BOM)
	if utf8.Valid(body) {
		return body
	}

	converted, err := convertGBKToUTF8(body)
	if err != nil || !utf8.Valid(converted) {
		return body
	}
	return converted
}

// convertGBKToUTF8 将 GBK 编码的字节转换为 UTF-8
func convertGBKToUTF8(gbkBytes []byte) ([]byte, error) {
	reader := transform.NewReader(bytes.NewReader(gbkBytes), simplifiedchinese.GBK.NewDecoder())
	return io.ReadAll(reader)
}
