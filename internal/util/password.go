package util

import "golang.org/x/crypto/bcrypt"

// bcrypt 只处理前 72 字节。这里在哈希与校验两侧做同样的截断：
// 超过 72 字节的输入在 Go 实现中会直接报错而不是静默截断，
// 截断必须对称，否则前缀相同的长密码无法登录。
const bcryptMaxPasswordBytes = 72

func truncatePassword(password string) []byte {
	b := []byte(password)
	if len(b) > bcryptMaxPasswordBytes {
		b = b[:bcryptMaxPasswordBytes]
	}
	return b
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(truncatePassword(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), truncatePassword(password)) == nil
}
