package ledger

import (
	"sort"

	"lendingpool/core"

	"github.com/shopspring/decimal"
)

type borrowKey struct {
	pool  string
	token string
}

type ownerKey struct {
	token string
	owner string
}

type state struct {
	assets        map[string]*core.AssetInfo
	tokens        []string
	borrows       map[borrowKey]*core.BorrowRecord
	borrowerCount int64
	deposits      map[string]*core.FixedTermDeposit
	owners        map[ownerKey]*keyList
	// shares held by active fixed-term deposits
	locked map[ownerKey]decimal.Decimal
	cursor string
}

func newState() *state {
	return &state{
		assets:   map[string]*core.AssetInfo{},
		borrows:  map[borrowKey]*core.BorrowRecord{},
		deposits: map[string]*core.FixedTermDeposit{},
		owners:   map[ownerKey]*keyList{},
		locked:   map[ownerKey]decimal.Decimal{},
	}
}

// copyAccounts copies assets and borrows, deposits are left out
func (s *state) copyAccounts() *state {
	c := newState()
	c.tokens = append(c.tokens, s.tokens...)
	c.borrowerCount = s.borrowerCount
	c.cursor = s.cursor

	for token, asset := range s.assets {
		c.assets[token] = asset.Clone()
	}

	for key, b := range s.borrows {
		c.borrows[key] = b.Clone()
	}

	return c
}

func (s *state) putDeposit(d *core.FixedTermDeposit) {
	key := ownerKey{token: d.Token, owner: d.Owner}
	list, ok := s.owners[key]
	if !ok {
		list = newKeyList()
		s.owners[key] = list
	}

	locked := s.locked[key]
	if !list.Add(d.Key) {
		// rewritten in place
		locked = locked.Sub(s.deposits[d.Key].ShareAmount)
	}

	s.deposits[d.Key] = d
	s.locked[key] = locked.Add(d.ShareAmount)
}

func (s *state) deleteDeposit(key string) {
	d, ok := s.deposits[key]
	if !ok {
		return
	}

	delete(s.deposits, key)

	okey := ownerKey{token: d.Token, owner: d.Owner}
	list, ok := s.owners[okey]
	if !ok || !list.Remove(key) {
		return
	}

	if list.Len() == 0 {
		delete(s.owners, okey)
		delete(s.locked, okey)
		return
	}

	s.locked[okey] = s.locked[okey].Sub(d.ShareAmount)
}

// lockedShares shares of owner in token held by active deposits
func (s *state) lockedShares(token, owner string) decimal.Decimal {
	return s.locked[ownerKey{token: token, owner: owner}]
}

func (s *state) export() *core.LedgerState {
	out := &core.LedgerState{
		BorrowerCount: s.borrowerCount,
		Cursor:        s.cursor,
	}

	for _, token := range s.tokens {
		out.Assets = append(out.Assets, s.assets[token].Clone())
	}

	for _, b := range s.borrows {
		out.Borrows = append(out.Borrows, b.Clone())
	}

	for _, d := range s.deposits {
		out.Deposits = append(out.Deposits, d.Clone())
	}

	sort.Slice(out.Borrows, func(i, j int) bool {
		a, b := out.Borrows[i], out.Borrows[j]
		if a.Pool != b.Pool {
			return a.Pool < b.Pool
		}
		return a.Token < b.Token
	})

	sort.Slice(out.Deposits, func(i, j int) bool {
		return out.Deposits[i].Key < out.Deposits[j].Key
	})

	return out
}

func importState(snapshot *core.LedgerState) *state {
	s := newState()
	s.borrowerCount = snapshot.BorrowerCount
	s.cursor = snapshot.Cursor

	for _, asset := range snapshot.Assets {
		if _, ok := s.assets[asset.Token]; !ok {
			s.tokens = append(s.tokens, asset.Token)
		}

		s.assets[asset.Token] = asset.Clone()
	}

	for _, b := range snapshot.Borrows {
		s.borrows[borrowKey{pool: b.Pool, token: b.Token}] = b.Clone()
	}

	for _, d := range snapshot.Deposits {
		s.putDeposit(d.Clone())
	}

	return s
}
