package proxy

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	chainsel "github.com/smartcontractkit/chain-selectors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/smartcontractkit/evm-proxy-inspector/chain/evm"
	"github.com/smartcontractkit/evm-proxy-inspector/config"
	"github.com/smartcontractkit/evm-proxy-inspector/disasm"
	"github.com/smartcontractkit/evm-proxy-inspector/inspector"
	"github.com/smartcontractkit/evm-proxy-inspector/internal/testutils"
	"github.com/smartcontractkit/evm-proxy-inspector/pkg/logger"
	"github.com/smartcontractkit/evm-proxy-inspector/proxies"
	"github.com/smartcontractkit/evm-proxy-inspector/slots"
)

const minimalProxy = "0x363d3d373d3d3d363d73bebebebebebebebebebebebebebebebebebebebe5af43d82803e903d91602b57fd5bf3"

var (
	proxyAddr = common.HexToAddress("0x1000000000000000000000000000000000000001")
	implAddr  = common.HexToAddress("0x2000000000000000000000000000000000000002")
	facetA    = common.HexToAddress("0xaaaa000000000000000000000000000000000001")
	facetB    = common.HexToAddress("0xbbbb000000000000000000000000000000000002")
)

// execute runs cmd with args and returns everything it printed.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func testConfig() *config.Config {
	return &config.Config{
		Log: config.LogConfig{Level: "info"},
		RPC: config.RPCConfig{
			ChainSelector: chainsel.ETHEREUM_MAINNET.Selector,
			HTTPURLs:      []string{"http://localhost:8545"},
		},
		Inspector: config.InspectorConfig{FollowDepth: 1, Concurrency: 8},
	}
}

// fakeDeps serves cfg and p, recording the config handed to the provider factory.
func fakeDeps(cfg *config.Config, p evm.Provider, got **config.Config) *Deps {
	return &Deps{
		ConfigLoader: func(string) (*config.Config, error) {
			return cfg, nil
		},
		ProviderFactory: func(_ context.Context, _ logger.Logger, c *config.Config) (evm.Provider, func(), error) {
			if got != nil {
				*got = c
			}

			return p, nil, nil
		},
	}
}

func eip1967Proxy() *testutils.FakeProvider {
	code := common.FromHex("0x7f" + hex.EncodeToString(proxies.EIP1967ImplementationSlot[:]) +
		"543660008037600080366000845af43d6000803e3d6000f3")

	return testutils.NewFakeProvider().
		SetCode(proxyAddr, code).
		SetStorage(proxyAddr, proxies.EIP1967ImplementationSlot, testutils.AddressWord(implAddr)).
		SetCode(implAddr, common.FromHex(minimalProxy))
}

func diamondProxy() *testutils.FakeProvider {
	base := proxies.DiamondStandardStorageSlot
	code := common.FromHex("0x7f" + hex.EncodeToString(base[:]) + "543660008037600080366000845af43d6000803e3d6000f3")
	selectorsOf := func(facet common.Address) common.Hash {
		offset := slots.AddSlotOffset(base, 1)
		return slots.JoinSlot(slots.AddressKey(facet), offset[:])
	}

	return testutils.NewFakeProvider().
		SetCode(proxyAddr, code).
		SetArray(proxyAddr, slots.AddSlotOffset(base, 2), common.AddressLength, [][]byte{facetA.Bytes(), facetB.Bytes()}).
		SetArray(proxyAddr, selectorsOf(facetA), 4, [][]byte{{0x73, 0x6e, 0xac, 0x0b}, {0x12, 0x34, 0x56, 0x78}}).
		SetArray(proxyAddr, selectorsOf(facetB), 4, [][]byte{{0xde, 0xad, 0xbe, 0xef}})
}

func TestDisasm(t *testing.T) {
	t.Parallel()

	t.Run("detects a fixed proxy", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, NewDisasmCommand(Config{Logger: logger.Test(t)}), minimalProxy)
		require.NoError(t, err)
		assert.Contains(t, out, "FixedProxy")
		assert.Contains(t, strings.ToLower(out), "0xbebebebebebebebebebebebebebebebebebebebe")
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, NewDisasmCommand(Config{}), "--format", "json", minimalProxy)
		require.NoError(t, err)

		var got []candidateView
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "FixedProxy", got[0].Name)
		assert.True(t, strings.EqualFold("0xbebebebebebebebebebebebebebebebebebebebe", got[0].Address))
	})

	t.Run("file with listing", func(t *testing.T) {
		t.Parallel()

		cmd := NewDisasmCommand(Config{Deps: &Deps{
			ReadFile: func(path string) ([]byte, error) {
				assert.Equal(t, "code.hex", path)
				return []byte(minimalProxy + "\n"), nil
			},
		}})

		out, err := execute(t, cmd, "--file", "code.hex", "--listing")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "0x0000: CALLDATASIZE\n0x0001: RETURNDATASIZE\n"), out)
		assert.Contains(t, out, "DELEGATECALL")
		assert.Contains(t, out, "FixedProxy")
	})

	t.Run("storage slot candidates", func(t *testing.T) {
		t.Parallel()

		code := "0x7f" + hex.EncodeToString(proxies.EIP1967ImplementationSlot[:]) + "54"
		out, err := execute(t, NewDisasmCommand(Config{}), "-f", "yaml", code)
		require.NoError(t, err)

		var got []candidateView
		require.NoError(t, yaml.Unmarshal([]byte(out), &got))
		assert.Equal(t, []candidateView{{Name: "EIP1967Proxy", Slot: proxies.EIP1967ImplementationSlot.Hex()}}, got)
	})

	t.Run("no proxy", func(t *testing.T) {
		t.Parallel()

		out, err := execute(t, NewDisasmCommand(Config{}), "0x6080604052")
		require.NoError(t, err)
		assert.Contains(t, out, "no proxy detected")
	})

	errorTests := []struct {
		name    string
		args    []string
		deps    *Deps
		wantErr string
		wantIs  error
	}{
		{name: "no bytecode", args: []string{}, wantErr: "bytecode is required"},
		{name: "argument and file", args: []string{"--file", "code.hex", "0x00"}, wantErr: "not both"},
		{name: "malformed", args: []string{"0x123"}, wantIs: disasm.ErrMalformedBytecode},
		{name: "unknown format", args: []string{"-f", "csv", "0x00"}, wantErr: `unknown format "csv"`},
		{
			name:    "unreadable file",
			args:    []string{"--file", "missing.hex"},
			deps:    &Deps{ReadFile: func(string) ([]byte, error) { return nil, errors.New("no such file") }},
			wantErr: "failed to read bytecode file: no such file",
		},
	}

	for _, tt := range errorTests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := execute(t, NewDisasmCommand(Config{Deps: tt.deps}), tt.args...)
			require.Error(t, err)
			if tt.wantIs != nil {
				require.ErrorIs(t, err, tt.wantIs)
			}
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	t.Run("table follows one hop", func(t *testing.T) {
		t.Parallel()

		cmd := NewResolveCommand(Config{Logger: logger.Test(t), Deps: fakeDeps(testConfig(), eip1967Proxy(), nil)})

		out, err := execute(t, cmd, "--address", proxyAddr.Hex())
		require.NoError(t, err)
		assert.Contains(t, out, "EIP1967Proxy")
		assert.Contains(t, out, implAddr.Hex())
		assert.Contains(t, out, "FixedProxy")
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		cmd := NewResolveCommand(Config{Deps: fakeDeps(testConfig(), eip1967Proxy(), nil)})

		out, err := execute(t, cmd, "-a", proxyAddr.Hex(), "-f", "json", "--follow", "0")
		require.NoError(t, err)

		var got inspector.Report
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, proxyAddr, got.Address)
		require.Len(t, got.Proxies, 1)
		assert.Equal(t, "EIP1967Proxy", got.Proxies[0].Name)
		assert.Equal(t, []common.Address{implAddr}, got.Proxies[0].Implementations)
		assert.Nil(t, got.Next)
	})

	t.Run("diamond selector", func(t *testing.T) {
		t.Parallel()

		sel := proxies.MustParseSelector("0x736eac0b")
		p := diamondProxy().SetStorage(proxyAddr,
			slots.JoinSlot(slots.RightPad32(sel[:]), proxies.DiamondStandardStorageSlot[:]),
			testutils.AddressWord(facetA))
		cmd := NewResolveCommand(Config{Deps: fakeDeps(testConfig(), p, nil)})

		out, err := execute(t, cmd, "-a", proxyAddr.Hex(), "--selector", sel.Hex(), "-f", "yaml", "--follow", "0")
		require.NoError(t, err)
		assert.Contains(t, out, "name: DiamondProxy")
		assert.Contains(t, strings.ToLower(out), strings.ToLower(facetA.Hex()))
		assert.NotContains(t, strings.ToLower(out), strings.ToLower(facetB.Hex()))
	})

	t.Run("overrides", func(t *testing.T) {
		t.Parallel()

		var got *config.Config
		cmd := NewResolveCommand(Config{Deps: fakeDeps(testConfig(), eip1967Proxy(), &got)})

		_, err := execute(t, cmd, "-a", proxyAddr.Hex(), "--follow", "3",
			"--rpc-url", "https://a.example.com", "--rpc-url", "https://b.example.com")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 3, got.Inspector.FollowDepth)
		assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, got.RPC.HTTPURLs)
	})

	t.Run("config path is forwarded", func(t *testing.T) {
		t.Parallel()

		var gotPath string
		deps := fakeDeps(testConfig(), eip1967Proxy(), nil)
		deps.ConfigLoader = func(path string) (*config.Config, error) {
			gotPath = path
			return testConfig(), nil
		}

		_, err := execute(t, NewResolveCommand(Config{Deps: deps}), "-a", proxyAddr.Hex(), "-c", "inspector.yml")
		require.NoError(t, err)
		assert.Equal(t, "inspector.yml", gotPath)
	})

	invalidCfg := testConfig()
	invalidCfg.RPC.ChainSelector = 0

	errorTests := []struct {
		name    string
		args    []string
		deps    *Deps
		wantErr string
	}{
		{
			name:    "missing address",
			args:    []string{},
			deps:    fakeDeps(testConfig(), eip1967Proxy(), nil),
			wantErr: `required flag(s) "address" not set`,
		},
		{
			name:    "invalid address",
			args:    []string{"-a", "0x1234"},
			deps:    fakeDeps(testConfig(), eip1967Proxy(), nil),
			wantErr: `invalid address "0x1234"`,
		},
		{
			name:    "invalid selector",
			args:    []string{"-a", proxyAddr.Hex(), "-s", "0x1234"},
			deps:    fakeDeps(testConfig(), eip1967Proxy(), nil),
			wantErr: "invalid selector",
		},
		{
			name:    "invalid config",
			args:    []string{"-a", proxyAddr.Hex()},
			deps:    fakeDeps(invalidCfg, eip1967Proxy(), nil),
			wantErr: "invalid config: rpc.chain_selector is required",
		},
		{
			name: "config load failure",
			args: []string{"-a", proxyAddr.Hex()},
			deps: &Deps{ConfigLoader: func(string) (*config.Config, error) {
				return nil, errors.New("bad yaml")
			}},
			wantErr: "failed to load config: bad yaml",
		},
		{
			name: "connection failure",
			args: []string{"-a", proxyAddr.Hex()},
			deps: &Deps{
				ConfigLoader: func(string) (*config.Config, error) { return testConfig(), nil },
				ProviderFactory: func(context.Context, logger.Logger, *config.Config) (evm.Provider, func(), error) {
					return nil, nil, errors.New("no valid RPC clients created")
				},
			},
			wantErr: "failed to connect to chain",
		},
		{
			name:    "rpc failure",
			args:    []string{"-a", proxyAddr.Hex()},
			deps:    fakeDeps(testConfig(), testutils.NewFakeProvider().FailAll(proxyAddr, errors.New("rate limited")), nil),
			wantErr: "rate limited",
		},
	}

	for _, tt := range errorTests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := execute(t, NewResolveCommand(Config{Deps: tt.deps}), tt.args...)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestResolve_closesProvider(t *testing.T) {
	t.Parallel()

	closed := false
	deps := &Deps{
		ConfigLoader: func(string) (*config.Config, error) { return testConfig(), nil },
		ProviderFactory: func(context.Context, logger.Logger, *config.Config) (evm.Provider, func(), error) {
			return eip1967Proxy(), func() { closed = true }, nil
		},
	}

	_, err := execute(t, NewResolveCommand(Config{Deps: deps}), "-a", proxyAddr.Hex())
	require.NoError(t, err)
	assert.True(t, closed)
}

func TestFacets(t *testing.T) {
	t.Parallel()

	t.Run("table", func(t *testing.T) {
		t.Parallel()

		cmd := NewFacetsCommand(Config{Deps: fakeDeps(testConfig(), diamondProxy(), nil)})

		out, err := execute(t, cmd, "-a", proxyAddr.Hex(), "--selectors")
		require.NoError(t, err)
		assert.Contains(t, out, facetA.Hex())
		assert.Contains(t, out, facetB.Hex())
		assert.Contains(t, out, "0x736eac0b 0x12345678")
		assert.Contains(t, out, "0xdeadbeef")
	})

	t.Run("json with limit", func(t *testing.T) {
		t.Parallel()

		cmd := NewFacetsCommand(Config{Deps: fakeDeps(testConfig(), diamondProxy(), nil)})

		out, err := execute(t, cmd, "-a", proxyAddr.Hex(), "--limit", "1", "--selectors", "-f", "json")
		require.NoError(t, err)

		var got []facetView
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, []facetView{{Facet: facetA, Selectors: []string{"0x736eac0b", "0x12345678"}}}, got)
	})

	t.Run("without selectors", func(t *testing.T) {
		t.Parallel()

		cmd := NewFacetsCommand(Config{Deps: fakeDeps(testConfig(), diamondProxy(), nil)})

		out, err := execute(t, cmd, "-a", proxyAddr.Hex(), "-f", "json")
		require.NoError(t, err)

		var got []facetView
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, []facetView{{Facet: facetA}, {Facet: facetB}}, got)
	})

	t.Run("not a diamond", func(t *testing.T) {
		t.Parallel()

		cmd := NewFacetsCommand(Config{Deps: fakeDeps(testConfig(), eip1967Proxy(), nil)})

		_, err := execute(t, cmd, "-a", proxyAddr.Hex())
		require.ErrorContains(t, err, "no diamond proxy detected")
	})
}
