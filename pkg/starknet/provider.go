package starknet

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/snehendu098/ghost/snverify/pkg/log"
	"github.com/snehendu098/ghost/snverify/pkg/stark"
)

const (
	methodGetClassAt = "starknet_getClassAt"
	methodCall       = "starknet_call"
)

// BlockID selects the block a read is evaluated against. Exactly one of Tag,
// Number or Hash should be set.
type BlockID struct {
	Tag    string
	Number *uint64
	Hash   *stark.Felt
}

// LatestBlock is the block_id used for every read in this package.
var LatestBlock = BlockID{Tag: "latest"}

func (b BlockID) MarshalJSON() ([]byte, error) {
	switch {
	case b.Hash != nil:
		return json.Marshal(map[string]stark.Felt{"block_hash": *b.Hash})
	case b.Number != nil:
		return json.Marshal(map[string]uint64{"block_number": *b.Number})
	case b.Tag != "":
		return json.Marshal(b.Tag)
	default:
		return json.Marshal(LatestBlock.Tag)
	}
}

// FunctionCall is the request object of starknet_call.
type FunctionCall struct {
	ContractAddress    stark.Felt   `json:"contract_address"`
	EntryPointSelector stark.Felt   `json:"entry_point_selector"`
	Calldata           []stark.Felt `json:"calldata"`
}

// ContractClass is the subset of a class definition this package reads.
// Sierra classes carry ContractClassVersion; Cairo 0 classes leave it empty.
type ContractClass struct {
	ContractClassVersion string `json:"contract_class_version,omitempty"`
	ABI                  ABI    `json:"abi"`
}

// Observer is notified after every node request.
type Observer func(method string, duration time.Duration, err error)

// Provider reads chain state from a Starknet JSON-RPC node.
type Provider struct {
	client   *rpc.Client
	logger   log.Logger
	observer Observer
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

func WithLogger(logger log.Logger) ProviderOption {
	return func(p *Provider) { p.logger = logger }
}

func WithObserver(observer Observer) ProviderOption {
	return func(p *Provider) { p.observer = observer }
}

// NewProvider dials url (http, https, ws or wss). For HTTP endpoints no
// connection is made until the first request.
func NewProvider(ctx context.Context, url string, opts ...ProviderOption) (*Provider, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial starknet node: %w", err)
	}
	return NewProviderWithClient(client, opts...), nil
}

// NewProviderWithClient wraps an existing JSON-RPC client.
func NewProviderWithClient(client *rpc.Client, opts ...ProviderOption) *Provider {
	p := &Provider{
		client: client,
		logger: log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.WithName("provider")
	return p
}

// Close releases the underlying client.
func (p *Provider) Close() {
	p.client.Close()
}

// ClassAt returns the class deployed at address.
func (p *Provider) ClassAt(ctx context.Context, blockID BlockID, address stark.Felt) (*ContractClass, error) {
	var class ContractClass
	if err := p.call(ctx, &class, methodGetClassAt, blockID, address); err != nil {
		return nil, err
	}
	return &class, nil
}

// Call executes a view call and returns the raw result felts.
func (p *Provider) Call(ctx context.Context, call FunctionCall, blockID BlockID) ([]stark.Felt, error) {
	if call.Calldata == nil {
		call.Calldata = []stark.Felt{}
	}
	var result []stark.Felt
	if err := p.call(ctx, &result, methodCall, call, blockID); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *Provider) call(ctx context.Context, result any, method string, args ...any) error {
	start := time.Now()
	err := p.client.CallContext(ctx, result, method, args...)
	elapsed := time.Since(start)

	if p.observer != nil {
		p.observer(method, elapsed, err)
	}
	if err != nil {
		p.logger.Debug("request failed", "method", method, "duration", elapsed, "error", err)
		return wrapCallError(method, err)
	}
	p.logger.Debug("request completed", "method", method, "duration", elapsed)
	return nil
}
