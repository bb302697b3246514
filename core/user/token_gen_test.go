package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chorale-hq/chorale/core"
)

func newTokenUser(t *testing.T) User {
	t.Helper()

	usr := User{ID: 7, Username: "kodjo.a", Email: "kodjo@example.com"}
	require.NoError(t, usr.SetPassword("V3ry$trongPwd"))
	return usr
}

func TestMakeAndVerifyToken(t *testing.T) {
	usr := newTokenUser(t)

	token, err := MakeToken(usr)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, verifyToken(usr, token))
}

func TestVerifyTokenFailures(t *testing.T) {
	usr := newTokenUser(t)

	token, err := MakeToken(usr)
	require.NoError(t, err)

	t.Run("empty token", func(t *testing.T) {
		assert.Equal(t, errInvalidToken, verifyToken(usr, ""))
	})

	t.Run("malformed token", func(t *testing.T) {
		assert.Equal(t, errInvalidToken, verifyToken(usr, "nodash"))
	})

	t.Run("tampered signature", func(t *testing.T) {
		assert.Equal(t, errInvalidToken, verifyToken(usr, token+"x"))
	})

	t.Run("another user's token", func(t *testing.T) {
		other := newTokenUser(t)
		other.ID = 8
		assert.Equal(t, errInvalidToken, verifyToken(other, token))
	})

	t.Run("password change invalidates the token", func(t *testing.T) {
		changed := usr
		require.NoError(t, changed.SetPassword("An0ther$trongPwd"))
		assert.Equal(t, errInvalidToken, verifyToken(changed, token))
	})

	t.Run("login invalidates the token", func(t *testing.T) {
		loggedIn := usr
		loggedIn.LastLogin = time.Now()
		assert.Equal(t, errInvalidToken, verifyToken(loggedIn, token))
	})

	t.Run("expired token", func(t *testing.T) {
		defer func() { NowFunc = time.Now }()
		NowFunc = func() time.Time {
			return time.Now().Add(-(core.Conf.PasswordResetTimeoutDelta + 48*time.Hour))
		}
		oldToken, err := MakeToken(usr)
		require.NoError(t, err)
		assert.Equal(t, errTokenExpired, verifyToken(usr, oldToken))
	})
}

func TestEncodeDecodeUID(t *testing.T) {
	usr := User{ID: 42}

	uid := EncodeUID(usr)
	require.NotEmpty(t, uid)

	id, err := decodeUID(uid)
	require.NoError(t, err)
	assert.Equal(t, usr.ID, id)

	_, err = decodeUID("!!!not-base64!!!")
	assert.Error(t, err)
}
