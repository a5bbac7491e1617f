package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Izzycode820/huzilerz-go/pkg/config"
)

func withSysopConfig(t *testing.T, password, secret string) {
	t.Helper()
	prevPassword, prevSecret := config.SysopPassword, config.JWTSecret
	config.SysopPassword = password
	config.JWTSecret = secret
	t.Cleanup(func() {
		config.SysopPassword = prevPassword
		config.JWTSecret = prevSecret
	})
}

func TestSysopAuthenticatePlainPassword(t *testing.T) {
	withSysopConfig(t, "letmein", "test-secret")
	svc := NewSysopService(quietLogger(t))

	result := svc.Authenticate("letmein")
	require.True(t, result.Success)
	assert.NotEmpty(t, result.Token)
	assert.True(t, svc.ValidateToken(result.Token))
}

func TestSysopAuthenticateBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	withSysopConfig(t, string(hash), "test-secret")
	svc := NewSysopService(quietLogger(t))

	assert.True(t, svc.Authenticate("s3cret").Success)
	assert.False(t, svc.Authenticate("wrong").Success)
}

func TestSysopAuthenticateRejectsWhenUnconfigured(t *testing.T) {
	withSysopConfig(t, "", "test-secret")
	svc := NewSysopService(quietLogger(t))

	result := svc.Authenticate("anything")
	assert.False(t, result.Success)
	assert.Empty(t, result.Token)
}

func TestSysopValidateTokenRejectsGarbage(t *testing.T) {
	withSysopConfig(t, "letmein", "test-secret")
	svc := NewSysopService(quietLogger(t))

	assert.False(t, svc.ValidateToken("not-a-jwt"))

	issued := svc.Authenticate("letmein")
	require.True(t, issued.Success)

	config.JWTSecret = "rotated"
	assert.False(t, svc.ValidateToken(issued.Token))
}
