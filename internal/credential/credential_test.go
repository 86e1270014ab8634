package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcrypt_HashAndCheck(t *testing.T) {
	c := NewBcrypt(bcrypt.MinCost)

	h, err := c.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", h)

	assert.NoError(t, c.Check(h, "s3cret"))
	assert.ErrorIs(t, c.Check(h, "wrong"), ErrMismatch)
	assert.ErrorIs(t, c.Check("", "s3cret"), ErrMismatch)
}

func TestBcrypt_Salted(t *testing.T) {
	c := NewBcrypt(bcrypt.MinCost)
	h1, _ := c.Hash("same")
	h2, _ := c.Hash("same")
	assert.NotEqual(t, h1, h2)
}

func TestNewBcrypt_OutOfRangeCost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcrypt(99).Cost)
}
