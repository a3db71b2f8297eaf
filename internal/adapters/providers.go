package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/netctl/internal/adapters/accounts"
	"github.com/trebuchet-org/netctl/internal/adapters/anvil"
	"github.com/trebuchet-org/netctl/internal/adapters/blockchain"
	"github.com/trebuchet-org/netctl/internal/adapters/fs"
	"github.com/trebuchet-org/netctl/internal/adapters/interactive"
	"github.com/trebuchet-org/netctl/internal/config"
	"github.com/trebuchet-org/netctl/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewSessionStoreAdapter,
	wire.Bind(new(usecase.SessionStore), new(*fs.SessionStoreAdapter)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.NetworkSelector), new(*interactive.SelectorAdapter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	config.NewNetworkResolver,
	wire.Bind(new(usecase.NetworkResolver), new(*config.NetworkResolver)),
)

// BlockchainSet provides the transport and the account cache that reads through it
var BlockchainSet = wire.NewSet(
	blockchain.NewClientAdapter,
	wire.Bind(new(usecase.ChainClient), new(*blockchain.ClientAdapter)),
	wire.Bind(new(accounts.ChainSource), new(*blockchain.ClientAdapter)),

	accounts.NewCache,
	wire.Bind(new(usecase.AccountResetter), new(*accounts.Cache)),
)

// NodeSet provides the local node manager
var NodeSet = wire.NewSet(
	anvil.NewManager,
	wire.Bind(new(usecase.NodeManager), new(*anvil.Manager)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	InteractiveSet,
	ConfigSet,
	BlockchainSet,
	NodeSet,
)
