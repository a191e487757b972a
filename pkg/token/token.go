package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// opaqueLength 是不透明令牌的随机字节数。32字节编码后约43个字符。
const opaqueLength = 32

// NewOpaque 生成一个密码学安全的不透明令牌，Base64 URL编码，无填充。
// 会话ID等只在服务端解析的标识都用它生成。
func NewOpaque() (string, error) {
	raw := make([]byte, opaqueLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("无法生成安全的随机令牌: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
