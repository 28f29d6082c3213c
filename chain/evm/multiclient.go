package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/google/uuid"

	chainsel "github.com/smartcontractkit/chain-selectors"

	"github.com/smartcontractkit/evm-proxy-inspector/pkg/logger"
)

// Defaults for reads issued through a MultiClient.
const (
	RPCDefaultRetryAttempts = 1
	RPCDefaultRetryDelay    = time.Second
	RPCDefaultRetryTimeout  = 10 * time.Second

	RPCDefaultDialRetryAttempts = 1
	RPCDefaultDialRetryDelay    = time.Second
	RPCDefaultDialTimeout       = 10 * time.Second

	RPCDefaultHealthCheckTimeout = 2 * time.Second
)

// RetryConfig controls how often, and for how long, a MultiClient retries reads and dials
// against a single endpoint before moving to the next one.
type RetryConfig struct {
	Attempts     uint
	Delay        time.Duration
	Timeout      time.Duration
	DialAttempts uint
	DialDelay    time.Duration
	DialTimeout  time.Duration
}

// WithRetryConfig overrides the non-zero fields of the default retry configuration.
func WithRetryConfig(cfg RetryConfig) func(*MultiClient) {
	return func(mc *MultiClient) {
		mc.RetryConfig = mc.RetryConfig.merge(cfg)
	}
}

func (c RetryConfig) merge(o RetryConfig) RetryConfig {
	if o.Attempts > 0 {
		c.Attempts = o.Attempts
	}
	if o.Delay > 0 {
		c.Delay = o.Delay
	}
	if o.Timeout > 0 {
		c.Timeout = o.Timeout
	}
	if o.DialAttempts > 0 {
		c.DialAttempts = o.DialAttempts
	}
	if o.DialDelay > 0 {
		c.DialDelay = o.DialDelay
	}
	if o.DialTimeout > 0 {
		c.DialTimeout = o.DialTimeout
	}

	return c
}

var _ OnchainClient = (*MultiClient)(nil)

// MultiClient is a read-only EVM client over a primary RPC and any number of backups.
//
// Each read is retried against one client before the next is tried. A client that serves a
// read after others failed becomes the primary. Reverts are answers and return immediately.
type MultiClient struct {
	*ethclient.Client
	Backups     []*ethclient.Client
	RetryConfig RetryConfig

	lggr      logger.Logger
	chainName string
	mu        sync.RWMutex
}

// NewMultiClient dials every RPC of rpcsCfg. RPCs that cannot be dialed, or that fail a
// eth_blockNumber health check, are skipped; the first healthy one becomes the primary.
func NewMultiClient(lggr logger.Logger, rpcsCfg RPCConfig, opts ...func(client *MultiClient)) (*MultiClient, error) {
	if len(rpcsCfg.RPCs) == 0 {
		return nil, errors.New("no RPCs provided, need at least one")
	}

	chain, ok := chainsel.ChainBySelector(rpcsCfg.ChainSelector)
	if !ok {
		return nil, fmt.Errorf("chain with selector %d not found", rpcsCfg.ChainSelector)
	}

	mc := &MultiClient{
		lggr:      lggr.Named("multiclient"),
		chainName: chain.Name,
		RetryConfig: RetryConfig{
			Attempts:     RPCDefaultRetryAttempts,
			Delay:        RPCDefaultRetryDelay,
			Timeout:      RPCDefaultRetryTimeout,
			DialAttempts: RPCDefaultDialRetryAttempts,
			DialDelay:    RPCDefaultDialRetryDelay,
			DialTimeout:  RPCDefaultDialTimeout,
		},
	}
	for _, opt := range opts {
		opt(mc)
	}

	var healthy []*ethclient.Client
	for _, r := range rpcsCfg.RPCs {
		client, err := mc.connectHealthy(r)
		if err != nil {
			mc.lggr.Warnw("skipping RPC", "chain", chain.Name, "selector", chain.Selector, "rpc", r.Name, "err", err)
			continue
		}
		healthy = append(healthy, client)
	}
	if len(healthy) == 0 {
		return nil, errors.New("no valid RPC clients created")
	}

	mc.Client, mc.Backups = healthy[0], healthy[1:]

	return mc, nil
}

func (mc *MultiClient) connectHealthy(r RPC) (*ethclient.Client, error) {
	client, err := mc.dialWithRetry(r)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), RPCDefaultHealthCheckTimeout)
	defer cancel()

	if _, err := client.BlockNumber(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("health check failed: %w", err)
	}

	return client, nil
}

// ChainName returns the name of the chain the client is connected to.
func (mc *MultiClient) ChainName() string {
	return mc.chainName
}

func (mc *MultiClient) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return withBackups(ctx, mc, "CodeAt", func(ctx context.Context, c *ethclient.Client) ([]byte, error) {
		return c.CodeAt(ctx, account, blockNumber)
	})
}

func (mc *MultiClient) StorageAt(ctx context.Context, account common.Address, key common.Hash, blockNumber *big.Int) ([]byte, error) {
	return withBackups(ctx, mc, "StorageAt", func(ctx context.Context, c *ethclient.Client) ([]byte, error) {
		return c.StorageAt(ctx, account, key, blockNumber)
	})
}

func (mc *MultiClient) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return withBackups(ctx, mc, "CallContract", func(ctx context.Context, c *ethclient.Client) ([]byte, error) {
		return c.CallContract(ctx, msg, blockNumber)
	})
}

func (mc *MultiClient) BlockNumber(ctx context.Context) (uint64, error) {
	return withBackups(ctx, mc, "BlockNumber", func(ctx context.Context, c *ethclient.Client) (uint64, error) {
		return c.BlockNumber(ctx)
	})
}

// Close closes the primary and every backup client.
func (mc *MultiClient) Close() {
	for _, client := range mc.clients() {
		client.Close()
	}
}

func withBackups[T any](ctx context.Context, mc *MultiClient, opName string, read func(context.Context, *ethclient.Client) (T, error)) (T, error) {
	var out T
	err := mc.retryWithBackups(ctx, opName, func(ctx context.Context, c *ethclient.Client) error {
		var err error
		out, err = read(ctx, c)

		return err
	})

	return out, err
}

// retryWithBackups runs op against each client in turn until one succeeds.
func (mc *MultiClient) retryWithBackups(ctx context.Context, opName string, op func(context.Context, *ethclient.Client) error) error {
	lggr := &tracedLogger{Logger: mc.lggr, fields: []any{"traceID", uuid.NewString(), "chain", mc.chainName, "op", opName}}

	var lastErr error
	for i, client := range mc.clients() {
		retries, err := mc.tryClient(ctx, lggr, i, client, op)
		if err == nil {
			mc.reorderRPCs(client)
			if retries > 0 {
				lggr.Infow("succeeded after retries", "client", i, "retries", retries)
			}

			return nil
		}

		switch {
		case IsRevert(err):
			return err
		case ctx.Err() != nil:
			return errors.Join(err, ctx.Err())
		}

		lastErr = err
		lggr.Infow("client failed, trying next", "client", i)
	}

	return errors.Join(lastErr, fmt.Errorf("all backup clients failed for chain %q", mc.chainName))
}

// tryClient retries op against a single client and reports how many retries it took.
func (mc *MultiClient) tryClient(ctx context.Context, lggr *tracedLogger, index int, client *ethclient.Client, op func(context.Context, *ethclient.Client) error) (uint, error) {
	var retries uint
	err := retry.Do(
		func() error {
			callCtx, cancel := ensureTimeout(ctx, mc.RetryConfig.Timeout)
			defer cancel()

			err := op(callCtx, client)
			switch {
			case err == nil:
				return nil
			case IsRevert(err):
				return retry.Unrecoverable(err)
			default:
				lggr.Warnw("retryable read error", "client", index, "err", maybeDataErr(err))
				return err
			}
		},
		retry.Context(ctx),
		retry.Attempts(mc.RetryConfig.Attempts),
		retry.Delay(mc.RetryConfig.Delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(uint, error) { retries++ }),
	)

	return retries, err
}

func (mc *MultiClient) dialWithRetry(r RPC) (*ethclient.Client, error) {
	endpoint, err := r.ToEndpoint()
	if err != nil {
		return nil, err
	}

	lggr := &tracedLogger{Logger: mc.lggr, fields: []any{"traceID", uuid.NewString(), "chain", mc.chainName, "rpc", r.Name}}

	var retries uint
	client, err := retry.DoWithData(
		func() (*ethclient.Client, error) {
			ctx, cancel := context.WithTimeout(context.Background(), mc.RetryConfig.DialTimeout)
			defer cancel()

			lggr.Debugw("dialing endpoint", "endpoint", endpoint)
			c, dialErr := ethclient.DialContext(ctx, endpoint)
			if dialErr != nil {
				lggr.Warnw("dial failed", "endpoint", endpoint, "err", dialErr)
			}

			return c, dialErr
		},
		retry.Attempts(mc.RetryConfig.DialAttempts),
		retry.Delay(mc.RetryConfig.DialDelay),
		retry.OnRetry(func(uint, error) { retries++ }),
	)
	if err != nil {
		return nil, errors.Join(err, fmt.Errorf("failed to dial endpoint '%s' for RPC %s for chain %s after retries", endpoint, r.Name, mc.chainName))
	}
	if retries > 0 {
		lggr.Infow("dialed endpoint after retries", "endpoint", endpoint, "retries", retries)
	}

	return client, nil
}

// ensureTimeout bounds ctx by timeout unless it already carries a deadline.
func ensureTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, timeout)
}

// reorderRPCs makes served the primary when it is one of the backups. Backups after it keep
// their order and come first, followed by the backups before it and finally the old primary.
func (mc *MultiClient) reorderRPCs(served *ethclient.Client) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	i := slices.Index(mc.Backups, served)
	if i < 0 {
		return
	}

	rest := make([]*ethclient.Client, 0, len(mc.Backups))
	rest = append(rest, mc.Backups[i+1:]...)
	rest = append(rest, mc.Backups[:i]...)
	rest = append(rest, mc.Client)

	mc.Client, mc.Backups = served, rest
}

func (mc *MultiClient) clients() []*ethclient.Client {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	all := make([]*ethclient.Client, 0, len(mc.Backups)+1)

	return append(append(all, mc.Client), mc.Backups...)
}

// maybeDataErr surfaces the data attached to JSON-RPC errors, which often holds the reason.
func maybeDataErr(err error) error {
	var d rpc.DataError
	if errors.As(err, &d) {
		return fmt.Errorf("%s: %v", d.Error(), d.ErrorData())
	}

	return err
}

// tracedLogger prefixes structured log calls with a fixed set of fields.
type tracedLogger struct {
	logger.Logger
	fields []any
}

func (l *tracedLogger) Debugw(msg string, kv ...any) { l.Logger.Debugw(msg, slices.Concat(l.fields, kv)...) }
func (l *tracedLogger) Infow(msg string, kv ...any)  { l.Logger.Infow(msg, slices.Concat(l.fields, kv)...) }
func (l *tracedLogger) Warnw(msg string, kv ...any)  { l.Logger.Warnw(msg, slices.Concat(l.fields, kv)...) }
