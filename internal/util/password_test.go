package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, VerifyPassword(hash, "secret123"))
	assert.False(t, VerifyPassword(hash, "secret124"))
	assert.False(t, VerifyPassword(hash, ""))
}

func TestLongPasswordTruncationIsSymmetric(t *testing.T) {
	long := strings.Repeat("a", 100)

	hash, err := HashPassword(long)
	require.NoError(t, err)

	// 哈希与校验两侧同样截断前 72 字节，超长密码可以正常登录
	assert.True(t, VerifyPassword(hash, long))

	// 前 72 字节相同的密码在截断后不可区分
	samePrefix := strings.Repeat("a", 72) + "bbbb"
	assert.True(t, VerifyPassword(hash, samePrefix))

	differentPrefix := strings.Repeat("a", 71) + "c" + strings.Repeat("a", 28)
	assert.False(t, VerifyPassword(hash, differentPrefix))
}

func TestHashPasswordUsesSalt(t *testing.T) {
	h1, err := HashPassword("secret123")
	require.NoError(t, err)
	h2, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
