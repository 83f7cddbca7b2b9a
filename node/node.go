package node

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/relaymesh/mailbox/eventbus"
	"github.com/relaymesh/mailbox/events"
	"github.com/relaymesh/mailbox/mailbox"
	"github.com/relaymesh/mailbox/maildb"
	"github.com/relaymesh/mailbox/rpc"
	"github.com/relaymesh/mailbox/wserver"
)

type Component interface {
	Start()
	Stop()
	// Name returns the name of this component
	Name() string
}

// Node is the basic entrypoint for all modules to start.
type Node struct {
	Components []Component

	db      maildb.Database
	Mailbox *mailbox.Mailbox
}

func NewNode() *Node {
	n := new(Node)

	db, err := getDatabase()
	if err != nil {
		logrus.WithError(err).Fatal("cannot open database")
	}
	n.db = db

	bus := new(eventbus.DefaultEventBus)
	bus.InitDefault()
	events.RegisterAll(bus, events.EventLogger{})

	var ws *wserver.Server
	if viper.GetBool("wserver.enabled") {
		ws = wserver.NewServer(":" + viper.GetString("wserver.port"))
		events.RegisterAll(bus, wserver.EventPusher{Server: ws})
	}
	bus.Build()

	registry := mailbox.NewRegistry()
	registerBuiltins(registry)

	mb := mailbox.NewMailbox(db, registry, bus)
	n.Mailbox = mb
	initializeMailbox(mb)

	// Order matters. Queries must be servable once the rpc port opens.
	if viper.GetBool("rpc.enabled") {
		controller := &rpc.RpcController{Mailbox: mb}
		n.Components = append(n.Components, rpc.NewRpcServer(viper.GetString("rpc.port"), controller))
	}
	if ws != nil {
		n.Components = append(n.Components, ws)
	}
	return n
}

func getDatabase() (maildb.Database, error) {
	datadir := viper.GetString("datadir")
	if datadir == "" {
		logrus.Warn("no datadir given, mailbox state will not survive a restart")
		return maildb.NewMemDatabase(), nil
	}
	return maildb.NewLDBDatabase(datadir, viper.GetInt("db.cache"), viper.GetInt("db.handles"))
}

// registerBuiltins wires the development collaborators named in config into
// the registry. Real deployments register their own implementations.
func registerBuiltins(registry *mailbox.Registry) {
	if addr := viper.GetString("collaborators.noop_hook"); addr != "" {
		registry.RegisterHook(addr, mailbox.NoopHook{})
	}
	if addr := viper.GetString("collaborators.accept_all_ism"); addr != "" {
		registry.RegisterModule(addr, mailbox.AcceptAllIsm{})
	}
	if addr := viper.GetString("collaborators.logging_recipient"); addr != "" {
		registry.RegisterRecipient(addr, mailbox.LoggingRecipient{})
	}
}

func initializeMailbox(mb *mailbox.Mailbox) {
	if mb.Config() != nil {
		return
	}
	config := mailbox.Config{
		LocalDomain: uint32(viper.GetInt64("mailbox.local_domain")),
		Hrp:         viper.GetString("mailbox.hrp"),
		DefaultIsm:  viper.GetString("mailbox.default_ism"),
		DefaultHook: viper.GetString("mailbox.default_hook"),
	}
	owner := viper.GetString("mailbox.owner")
	if config.LocalDomain == 0 || config.Hrp == "" || owner == "" {
		logrus.Fatal("mailbox.local_domain, mailbox.hrp and mailbox.owner must be configured")
	}
	if err := mb.Initialize(config, owner); err != nil {
		logrus.WithError(err).Fatal("cannot initialize mailbox")
	}
}

func (n *Node) Start() {
	for _, component := range n.Components {
		logrus.Infof("Starting %s", component.Name())
		component.Start()
		logrus.Infof("Started: %s", component.Name())
	}
	logrus.Info("Node Started")
}

func (n *Node) Stop() {
	for i := len(n.Components) - 1; i >= 0; i-- {
		comp := n.Components[i]
		logrus.Infof("Stopping %s", comp.Name())
		comp.Stop()
		logrus.Infof("Stopped: %s", comp.Name())
	}
	n.db.Close()
	logrus.Info("Node Stopped")
}
