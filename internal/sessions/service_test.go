package sessions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoginCheckLogout(t *testing.T) {
	svc := NewService("pw", "secret-secret-secret-secret-1234", time.Hour, nil)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "wrong")
	require.True(t, errors.Is(err, ErrBadPassword))

	tok, exp, err := svc.Login(ctx, "pw")
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	require.True(t, exp.After(time.Now()))

	id, err := svc.Check(ctx, tok)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.NoError(t, svc.Logout(ctx, tok))
	_, err = svc.Check(ctx, tok)
	require.True(t, errors.Is(err, ErrRevoked))
}

func TestCheckRejectsGarbage(t *testing.T) {
	svc := NewService("pw", "secret", time.Hour, NewMemoryBlacklist())
	_, err := svc.Check(context.Background(), "garbage")
	require.Error(t, err)
	require.Error(t, svc.Logout(context.Background(), "garbage"))
}
