package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "campusconnect/pkg/domain"
)

func TestIssueValidateRoundtrip(t *testing.T) {
	mgr := NewManager("test-signing-key", time.Hour)
	userID := id.NewUserID()

	signed, err := mgr.Issue(userID, "admin", time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := mgr.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateExpired(t *testing.T) {
	mgr := NewManager("test-signing-key", time.Minute)

	signed, err := mgr.Issue(id.NewUserID(), "user", time.Now().Add(-2*time.Minute))
	require.NoError(t, err)

	_, err = mgr.Validate(signed)
	assert.Error(t, err)
}

func TestValidateWrongKey(t *testing.T) {
	signed, err := NewManager("key-one", time.Hour).Issue(id.NewUserID(), "user", time.Now())
	require.NoError(t, err)

	_, err = NewManager("key-two", time.Hour).Validate(signed)
	assert.Error(t, err)
}

func TestValidateGarbage(t *testing.T) {
	mgr := NewManager("test-signing-key", time.Hour)

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		_, err := mgr.Validate(tok)
		assert.Error(t, err, "token %q should not validate", tok)
	}
}
