package session

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }
func newTestStore(ttl time.Duration) (*Store, *clock) {
	c := &clock{t: time.Date(2024, 12, 25, 8, 0, 0, 0, time.UTC)}
	s := NewStore(ttl)
	s.now = c.now
	return s, c
}

func TestCreateLookupDelete(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	ses := s.Create("root")
	_, err := uuid.Parse(ses.Token)
	require.NoError(t, err)

	got, ok := s.Lookup(ses.Token)
	require.True(t, ok)
	assert.Equal(t, "root", got.User)

	s.Delete(ses.Token)
	_, ok = s.Lookup(ses.Token)
	assert.False(t, ok)
}

func TestTokensAreUnique(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	a, b := s.Create("root"), s.Create("root")
	assert.NotEqual(t, a.Token, b.Token)
	assert.Equal(t, 2, s.Len())
}

func TestExpiry(t *testing.T) {
	s, c := newTestStore(time.Minute)
	ses := s.Create("root")
	c.advance(59 * time.Second)
	_, ok := s.Lookup(ses.Token)
	assert.True(t, ok)

	c.advance(time.Second)
	_, ok = s.Lookup(ses.Token)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestCreateSweepsExpired(t *testing.T) {
	s, c := newTestStore(time.Minute)
	s.Create("a")
	s.Create("b")
	c.advance(2 * time.Minute)
	s.Create("c")
	assert.Equal(t, 1, s.Len())
}

func TestLookupGarbage(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	for _, tok := range []string{"", "root", "not-a-uuid"} {
		_, ok := s.Lookup(tok)
		assert.False(t, ok, tok)
	}
}

func TestConcurrentUse(t *testing.T) {
	s := NewStore(time.Hour)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ses := s.Create("u")
			_, ok := s.Lookup(ses.Token)
			assert.True(t, ok)
			s.Delete(ses.Token)
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, s.Len())
}
