package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/multiyield-labs/multiyield-engine/internal/config"
	"github.com/multiyield-labs/multiyield-engine/internal/db"
	"github.com/multiyield-labs/multiyield-engine/internal/db/model"
	"github.com/multiyield-labs/multiyield-engine/internal/engine"
	"github.com/multiyield-labs/multiyield-engine/internal/ledger"
	"github.com/multiyield-labs/multiyield-engine/internal/oracle"
	"github.com/multiyield-labs/multiyield-engine/internal/queue"
	"github.com/multiyield-labs/multiyield-engine/internal/stake"
	"github.com/multiyield-labs/multiyield-engine/internal/types"
	"github.com/multiyield-labs/multiyield-engine/tests/mocks"
	"github.com/multiyield-labs/multiyield-engine/testutil"
)

const (
	tradeFeed   = "myield-usd"
	floorFeed   = "nft-floor"
	testBump    = 253
	startTime   = int64(1_700_000_000)
	oraclePrice = 1_000
)

type user struct {
	principal types.Address
	account   types.Address
	lpAccount types.Address
}

type fixture struct {
	t      *testing.T
	ctx    context.Context
	cfg    *config.Config
	svc    *Service
	store  *db.Memory
	ledger *ledger.Memory
	prices *oracle.Static
	now    int64

	mint         types.Address
	lpMint       types.Address
	lpAuthority  ledger.Authority
	govAuthority types.Address
	dest         config.Destinations
}

type fixtureOption func(*config.Config)

func withoutInsurance() fixtureOption {
	return func(cfg *config.Config) {
		cfg.Engine.InsurancePool = ""
	}
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	f := &fixture{
		t:            t,
		ctx:          context.Background(),
		store:        db.NewMemory(),
		ledger:       ledger.NewMemory(),
		prices:       oracle.NewStatic(map[string]int64{tradeFeed: oraclePrice, floorFeed: 5_000}),
		now:          startTime,
		mint:         testutil.RandomAddress(),
		lpMint:       testutil.RandomAddress(),
		lpAuthority:  ledger.Authority{Seed: "lp_faucet", Bump: 1},
		govAuthority: testutil.RandomAddress(),
	}

	cfg := config.Default()
	cfg.Db.Backend = config.BackendMemory
	cfg.Engine.TradePriceFeed = tradeFeed
	cfg.Engine.NFTFloorFeed = floorFeed
	cfg.Engine.InsurancePool = testutil.RandomAddress().String()
	cfg.Engine.DAOTreasury = testutil.RandomAddress().String()
	cfg.Engine.StakingPool = testutil.RandomAddress().String()
	cfg.Engine.LPStakingPool = testutil.RandomAddress().String()
	for _, opt := range opts {
		opt(cfg)
	}
	require.NoError(t, cfg.Engine.Validate())
	f.cfg = cfg

	var err error
	f.dest, err = cfg.Engine.Destinations()
	require.NoError(t, err)

	require.NoError(t, f.ledger.RegisterMint(f.mint, ledger.MintAuthority(testBump).Address()))
	require.NoError(t, f.ledger.RegisterMint(f.lpMint, f.lpAuthority.Address()))
	pools := []types.Address{f.dest.InsurancePool, f.dest.DAOTreasury, f.dest.StakingPool}
	for _, pool := range pools {
		if pool.IsZero() {
			continue
		}
		require.NoError(t, f.ledger.OpenAccount(pool, f.mint, testutil.RandomAddress()))
	}
	require.NoError(t, f.ledger.OpenAccount(f.dest.LPStakingPool, f.lpMint, testutil.RandomAddress()))

	f.svc = f.newService(f.store, f.prices, f.ledger, nil)
	return f
}

func (f *fixture) newService(store db.DbInterface, o oracle.PriceOracle, l ledger.TokenLedger, p queue.EventPublisher) *Service {
	svc, err := NewService(f.cfg, store, o, l, p)
	require.NoError(f.t, err)
	return svc.WithClock(func() int64 { return f.now })
}

func (f *fixture) initialize() *model.GlobalState {
	gs, err := f.svc.Initialize(f.ctx, InitializeRequest{
		Mint:                f.mint,
		Bump:                testBump,
		GovernanceAuthority: f.govAuthority,
	})
	require.Nil(f.t, err)
	return gs
}

// newUser opens token and LP accounts and funds them with amount each
func (f *fixture) newUser(amount uint64) user {
	u := user{
		principal: testutil.RandomAddress(),
		account:   testutil.RandomAddress(),
		lpAccount: testutil.RandomAddress(),
	}
	require.NoError(f.t, f.ledger.OpenAccount(u.account, f.mint, u.principal))
	require.NoError(f.t, f.ledger.OpenAccount(u.lpAccount, f.lpMint, u.principal))
	if amount > 0 {
		require.NoError(f.t, f.ledger.Mint(f.ctx, f.mint, u.account, amount, ledger.MintAuthority(testBump)))
		require.NoError(f.t, f.ledger.Mint(f.ctx, f.lpMint, u.lpAccount, amount, f.lpAuthority))
	}
	return u
}

func (f *fixture) balance(account types.Address) uint64 {
	balance, err := f.ledger.Balance(account)
	require.NoError(f.t, err)
	return balance
}

func (f *fixture) trade(u user, amount, price, uniqueTraders uint64) (*engine.TradeReward, *types.Error) {
	return f.svc.RewardTrade(f.ctx, RewardTradeRequest{
		Trader:            u.principal,
		TraderAccount:     u.account,
		TradeAmount:       amount,
		TradePrice:        price,
		UniqueTraderCount: uniqueTraders,
	})
}

func (f *fixture) stake(u user, amount uint64, autoCompound bool) *types.Error {
	_, err := f.svc.StakeTokens(f.ctx, StakeTokensRequest{
		Staker:        u.principal,
		StakerAccount: u.account,
		Amount:        amount,
		AutoCompound:  autoCompound,
	})
	return err
}

func (f *fixture) claim(u user) (*stake.ClaimResult, *types.Error) {
	return f.svc.ClaimStakeRewards(f.ctx, ClaimStakeRewardsRequest{
		Staker:        u.principal,
		RewardAccount: u.account,
	})
}

func assertCode(t *testing.T, err *types.Error, code types.ErrorCode) {
	t.Helper()
	require.NotNil(t, err)
	assert.Equal(t, code, err.ErrorCode, err.Error())
}

func TestNewService(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.DAOTreasury = "invalid"

	_, err := NewService(cfg, db.NewMemory(), oracle.NewStatic(nil), ledger.NewMemory(), nil)
	require.Error(t, err)
}

func TestInitialize(t *testing.T) {
	f := newFixture(t)

	u := f.newUser(0)
	_, err := f.trade(u, 10_000, oraclePrice, 5)
	assertCode(t, err, types.NotInitialized)

	_, err = f.svc.UpdateRewardParameters(f.ctx, UpdateRewardParametersRequest{Caller: f.govAuthority})
	assertCode(t, err, types.NotInitialized)

	_, err = f.svc.Initialize(f.ctx, InitializeRequest{Bump: testBump})
	assertCode(t, err, types.InvalidArgument)

	gs := f.initialize()
	assert.Equal(t, f.mint, gs.Mint)
	assert.Equal(t, uint8(testBump), gs.Bump)
	assert.Equal(t, uint64(0), gs.ProtocolWideVolume)

	gov, err := f.svc.GetGovernance(f.ctx)
	require.Nil(t, err)
	assert.Equal(t, f.govAuthority, gov.Authority)
	assert.False(t, gov.DAOApproved)

	_, err = f.svc.Initialize(f.ctx, InitializeRequest{Mint: testutil.RandomAddress(), Bump: 1})
	assertCode(t, err, types.AlreadyInitialized)

	// the original singleton is untouched
	stored, err := f.svc.GetGlobalState(f.ctx)
	require.Nil(t, err)
	assert.Equal(t, f.mint, stored.Mint)
}

func TestOwnerMismatch(t *testing.T) {
	f := newFixture(t)
	f.initialize()
	u := f.newUser(0)

	// a record stored under u's key but claiming another owner is never mutated
	tampered := model.NewTraderVolume(u.principal)
	tampered.Trader = testutil.RandomAddress()
	require.NoError(t, f.store.Commit(f.ctx, tampered))

	_, err := f.trade(u, 10_000, oraclePrice, 5)
	assertCode(t, err, types.OwnerMismatch)
}

// racingDb commits a conflicting write right before the request commits
type racingDb struct {
	*db.Memory
	race func()
}

func (r *racingDb) Commit(ctx context.Context, records ...model.Record) error {
	if r.race != nil {
		r.race()
		r.race = nil
	}
	return r.Memory.Commit(ctx, records...)
}

func TestStaleRecord(t *testing.T) {
	f := newFixture(t)
	f.initialize()
	u := f.newUser(0)

	racing := &racingDb{Memory: f.store}
	racing.race = func() {
		gs, err := f.store.GetGlobalState(f.ctx)
		require.NoError(t, err)
		gs.ProtocolWideVolume = 42
		require.NoError(t, f.store.Commit(f.ctx, gs))
	}
	svc := f.newService(racing, f.prices, f.ledger, nil)

	_, err := svc.RewardTrade(f.ctx, RewardTradeRequest{
		Trader:            u.principal,
		TraderAccount:     u.account,
		TradeAmount:       200_000,
		TradePrice:        oraclePrice,
		UniqueTraderCount: 5,
	})
	assertCode(t, err, types.StaleRecord)

	// the concurrent write wins, nothing of the failed request is stored
	gs, err := f.svc.GetGlobalState(f.ctx)
	require.Nil(t, err)
	assert.Equal(t, uint64(42), gs.ProtocolWideVolume)

	tv, err := f.svc.GetTraderVolume(f.ctx, u.principal)
	require.Nil(t, err)
	assert.True(t, tv.IsNew())

	// the stale commit happens before anything is minted
	assert.Equal(t, uint64(0), f.balance(u.account))
	assert.Equal(t, uint64(0), f.balance(f.dest.InsurancePool))
	assert.Equal(t, uint64(0), f.ledger.Supply(f.mint))
}

func TestPublishEvents(t *testing.T) {
	f := newFixture(t)
	f.initialize()
	u := f.newUser(0)

	publisher := mocks.NewEventPublisher(t)
	svc := f.newService(f.store, f.prices, f.ledger, publisher)

	publisher.On("PublishRewardEvents", mock.Anything, mock.MatchedBy(func(events []queue.RewardEvent) bool {
		if len(events) != 2 {
			return false
		}
		return events[0].DestinationKind == queue.DestinationInsurance && events[0].Amount == 40 &&
			events[1].DestinationKind == queue.DestinationTrader && events[1].Amount == 360 &&
			events[1].Destination == u.account && events[1].Principal == u.principal &&
			events[1].Operation == types.OpRewardTrade.String()
	})).Return(errors.New("broker unavailable")).Once()

	// a publishing failure does not undo the committed request
	_, err := svc.RewardTrade(f.ctx, RewardTradeRequest{
		Trader:            u.principal,
		TraderAccount:     u.account,
		TradeAmount:       200_000,
		TradePrice:        oraclePrice,
		UniqueTraderCount: 5,
	})
	require.Nil(t, err)
	assert.Equal(t, uint64(360), f.balance(u.account))

	tv, err := f.svc.GetTraderVolume(f.ctx, u.principal)
	require.Nil(t, err)
	assert.Equal(t, uint64(200_000), tv.TotalVolume)
}
