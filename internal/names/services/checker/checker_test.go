package checker

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/haukened/rr-names/internal/names/domain"
)

type mockDecider struct {
	mock.Mock
}

func (m *mockDecider) Decide(canonical, collection string) (domain.Decision, error) {
	args := m.Called(canonical, collection)
	return args.Get(0).(domain.Decision), args.Error(1)
}

func TestNewChecker_RequiresDecider(t *testing.T) {
	_, err := NewChecker(Options{})
	assert.Error(t, err)
}

func TestNewChecker_DefaultCollection(t *testing.T) {
	c, err := NewChecker(Options{Decider: &mockDecider{}})
	require.NoError(t, err)
	assert.Equal(t, "all", c.DefaultCollection())

	c, err = NewChecker(Options{Decider: &mockDecider{}, Collection: "mail"})
	require.NoError(t, err)
	assert.Equal(t, "mail", c.DefaultCollection())
}

func TestCheck_InvalidNamesNeverReachTheDecider(t *testing.T) {
	m := &mockDecider{}
	c, err := NewChecker(Options{Decider: m})
	require.NoError(t, err)

	for _, name := range []string{"", "0a", "a--a", "-a", "a-", "a.b", "a b", "Jake."} {
		// unknown collection too: lint runs first
		d, err := c.Check(name, "does-not-exist")
		require.NoError(t, err, name)
		assert.False(t, d.Allowed, name)
		assert.True(t, d.Invalid, name)
	}
	m.AssertNotCalled(t, "Decide", mock.Anything, mock.Anything)
}

func TestCheck_CanonicalizesBeforeDeciding(t *testing.T) {
	m := &mockDecider{}
	m.On("Decide", "admin", "all").Return(domain.Decision{Name: "admin", Collection: "all", MatchedIn: "all"}, nil).Times(3)
	c, err := NewChecker(Options{Decider: m})
	require.NoError(t, err)

	for _, name := range []string{"admin", "AdmiN", "ADMIN"} {
		ok, err := c.Allowed(name, "")
		require.NoError(t, err)
		assert.False(t, ok, name)
	}
	m.AssertExpectations(t)
}

func TestCheck_PassesCollectionThrough(t *testing.T) {
	m := &mockDecider{}
	m.On("Decide", "postmaster", "null").Return(domain.AllowDecision("postmaster", "null"), nil).Once()
	c, err := NewChecker(Options{Decider: m})
	require.NoError(t, err)

	ok, err := c.Allowed("postmaster", "null")
	require.NoError(t, err)
	assert.True(t, ok)
	m.AssertExpectations(t)
}

func TestCheck_PropagatesDeciderErrors(t *testing.T) {
	m := &mockDecider{}
	wrapped := fmt.Errorf("%w: %q", domain.ErrUnknownCollection, "web")
	m.On("Decide", "jake", "web").Return(domain.Decision{}, wrapped)
	c, err := NewChecker(Options{Decider: m})
	require.NoError(t, err)

	ok, err := c.Allowed("jake", "web")
	assert.False(t, ok)
	assert.True(t, errors.Is(err, domain.ErrUnknownCollection))
}

func TestValidPassThrough(t *testing.T) {
	c, err := NewChecker(Options{Decider: &mockDecider{}})
	require.NoError(t, err)

	got, ok := c.Valid("Jake")
	assert.True(t, ok)
	assert.Equal(t, "jake", got)

	_, ok = c.ValidMaxLength("jake", 3)
	assert.False(t, ok)
	got, ok = c.ValidMaxLength(strings.Repeat("a", 32), 32)
	assert.True(t, ok)
	assert.Len(t, got, 32)
}
