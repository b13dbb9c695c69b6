package config

import "github.com/spf13/pflag"

// flagKeys maps flag names to config keys. Flags not listed, and flags the
// user did not set, are ignored by Load.
var flagKeys = map[string]string{
	"layout":     "layout.kind",
	"seed":       "layout.random.seed",
	"fit":        "navigation.fit_to_screen",
	"labels":     "style.labels",
	"store":      "store.backend",
	"store-dir":  "store.dir",
	"redis-addr": "store.redis_addr",
	"mongo-uri":  "store.mongo_uri",
	"addr":       "server.addr",
	"view-id":    "server.view_id",
}

// BindFlags registers the view flags Load understands on fs.
func BindFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("layout", string(d.Layout.Kind), "layout algorithm (random, hierarchical, circular, force_directed, force_directed_extras)")
	fs.Uint64("seed", d.Layout.Random.Seed, "seed for random placement")
	fs.Bool("fit", d.Navigation.FitToScreen, "keep the graph fitted to the viewport")
	fs.Bool("labels", d.Style.Labels, "label every node")
	BindStoreFlags(fs)
}

// BindStoreFlags registers the state store flags and the view id on fs.
func BindStoreFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("view-id", d.Server.ViewID, "view id used as the state store key")
	fs.String("store", string(d.Store.Backend), "layout state store (file, none, redis, mongo)")
	fs.String("store-dir", d.Store.Dir, "directory of the file store")
	fs.String("redis-addr", d.Store.RedisAddr, "redis address")
	fs.String("mongo-uri", d.Store.MongoURI, "mongodb connection uri")
}

// BindServerFlags registers the HTTP host flags on fs, on top of BindFlags.
func BindServerFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("addr", d.Server.Addr, "listen address")
}
