package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPasswordConfig 测试使用的轻量参数
var testPasswordConfig = &PasswordConfig{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestHashPasswordUsesRandomSalt(t *testing.T) {
	pm := NewPasswordManager(testPasswordConfig)

	for _, plain := range []string{"123456", "P@ssw0rd", "中文密码abc1"} {
		h1, err := pm.HashPassword(plain)
		require.NoError(t, err)
		h2, err := pm.HashPassword(plain)
		require.NoError(t, err)

		assert.NotEqual(t, h1, h2)

		ok, err := pm.VerifyPassword(plain, h1)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = pm.VerifyPassword(plain, h2)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = pm.VerifyPassword(plain+"x", h1)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestVerifyPasswordUsesHashParameters(t *testing.T) {
	hash, err := NewPasswordManager(testPasswordConfig).HashPassword("secret1")
	require.NoError(t, err)

	// 用默认参数的管理器校验旧参数生成的哈希
	ok, err := NewPasswordManager(nil).VerifyPassword("secret1", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyPasswordInvalidHash(t *testing.T) {
	pm := NewPasswordManager(testPasswordConfig)

	_, err := pm.VerifyPassword("secret", "plain-text")
	assert.ErrorIs(t, err, ErrInvalidHash)

	_, err = pm.VerifyPassword("secret", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA")
	assert.ErrorIs(t, err, ErrInvalidHash)

	_, err = pm.HashPassword("")
	assert.Error(t, err)
}

func TestValidatePasswordStrength(t *testing.T) {
	assert.NoError(t, ValidatePasswordStrength("abcd1234"))
	assert.Error(t, ValidatePasswordStrength("abc123"))
	assert.Error(t, ValidatePasswordStrength("a1"))
	assert.Error(t, ValidatePasswordStrength("abcdefgh"))
	assert.Error(t, ValidatePasswordStrength("12345678"))
}
