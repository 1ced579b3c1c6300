package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/projectgate/internal/common"
	"github.com/dmitrijs2005/projectgate/internal/server/models"
)

// AccountFinder is the read side of the account store the resolver needs.
// Implementations return common.ErrorNotFound for unknown usernames.
type AccountFinder interface {
	GetUserByLogin(ctx context.Context, userName string) (*models.Account, error)
}

// Resolver turns a bearer token into a Principal.
type Resolver struct {
	codec    *TokenCodec
	accounts AccountFinder
	clock    Clock
}

func NewResolver(codec *TokenCodec, accounts AccountFinder, clock Clock) *Resolver {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Resolver{codec: codec, accounts: accounts, clock: clock}
}

// Resolve decodes token and loads the account it names.
//
// Every rejection (malformed, forged, expired, account gone, account
// replaced by a new one with the same username) is reported as
// common.ErrUnauthenticated with no further detail. The returned role is
// the one currently stored, not the one embedded in the token. A store
// failure yields common.ErrorInternal.
func (r *Resolver) Resolve(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, common.ErrUnauthenticated
	}

	claims, err := r.codec.Decode(token, r.clock.Now())
	if err != nil {
		return nil, common.ErrUnauthenticated
	}

	account, err := r.accounts.GetUserByLogin(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnauthenticated
		}
		return nil, fmt.Errorf("%w: account lookup: %v", common.ErrorInternal, err)
	}

	if account.ID != claims.AccountID {
		return nil, common.ErrUnauthenticated
	}

	return &Principal{
		AccountID: account.ID,
		UserName:  account.UserName,
		Role:      account.Role,
	}, nil
}
