package clientfakes

import (
	"context"
	"errors"
	"sync"

	"github.com/tunubeya/collasco-front-sub002/authclient"
)

var _ authclient.Client = (*FakeAuthClient)(nil)

// FakeAuthClient is an in-memory authentication backend for tests. It
// enforces single-use refresh tokens the way the real backend does: a
// token refreshed once is rejected on every later attempt.
type FakeAuthClient struct {
	pairs    map[string]*authclient.TokenPair // refresh token -> pair handed out for it
	used     map[string]bool
	failWith error
	calls    int
	lock     sync.Mutex
}

func NewFakeAuthClient() *FakeAuthClient {
	return &FakeAuthClient{
		pairs: make(map[string]*authclient.TokenPair),
		used:  make(map[string]bool),
	}
}

// RegisterToken makes refreshToken exchangeable exactly once for pair.
func (f *FakeAuthClient) RegisterToken(refreshToken string, pair *authclient.TokenPair) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.pairs[refreshToken] = pair
}

// FailWith makes every Refresh call return err, simulating an
// unreachable or erroring backend.
func (f *FakeAuthClient) FailWith(err error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.failWith = err
}

// Calls returns how many Refresh calls were made.
func (f *FakeAuthClient) Calls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.calls
}

func (f *FakeAuthClient) Refresh(_ context.Context, refreshToken string) (*authclient.TokenPair, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.calls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	if f.used[refreshToken] {
		return nil, errors.New("refresh token already used")
	}
	pair, ok := f.pairs[refreshToken]
	if !ok {
		return nil, errors.New("unknown refresh token")
	}
	f.used[refreshToken] = true
	return pair, nil
}
