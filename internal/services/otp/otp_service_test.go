package otp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCodeLength(t *testing.T) {
	for i := 0; i < 50; i++ {
		assert.Len(t, generateCode(), CodeLength)
	}
}

func TestMockStoreVerify(t *testing.T) {
	ctx := context.Background()
	store := NewMockStore()

	code, err := store.Issue(ctx, "+919876543210")
	require.NoError(t, err)
	require.Len(t, code, CodeLength)

	wrong := "000000"
	if code == wrong {
		wrong = "000001"
	}
	assert.ErrorIs(t, store.Verify(ctx, "+919876543210", wrong), ErrCodeInvalid)
	assert.NoError(t, store.Verify(ctx, "+919876543210", code))

	// codes are single use
	assert.ErrorIs(t, store.Verify(ctx, "+919876543210", code), ErrCodeExpired)
}

func TestMockStoreUnknownPhone(t *testing.T) {
	store := NewMockStore()
	assert.ErrorIs(t, store.Verify(context.Background(), "+919999999999", "123456"), ErrCodeExpired)
}

func TestMockStoreReissueReplacesCode(t *testing.T) {
	ctx := context.Background()
	store := NewMockStore()

	first, err := store.Issue(ctx, "+919876543210")
	require.NoError(t, err)
	second, err := store.Issue(ctx, "+919876543210")
	require.NoError(t, err)

	if first != second {
		assert.ErrorIs(t, store.Verify(ctx, "+919876543210", first), ErrCodeInvalid)
	}
	assert.NoError(t, store.Verify(ctx, "+919876543210", second))
}
