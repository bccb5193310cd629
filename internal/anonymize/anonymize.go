package anonymize

import (
	"crypto/sha256"
	"encoding/hex"
)

// Token 以固定盐对客户端地址做 SHA-256 单向哈希并输出十六进制。
// 相同地址在相同盐下总是得到相同令牌，因此可以统计独立访客
// 而不保存原始地址。
func Token(address, salt string) string {
	sum := sha256.Sum256([]byte(address + ":" + salt))
	return hex.EncodeToString(sum[:])
}
