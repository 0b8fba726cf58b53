package api

import (
	"fmt"

	"github.com/JaimeStill/clarus/internal/catalog"
	"github.com/JaimeStill/clarus/internal/chat"
	"github.com/JaimeStill/clarus/internal/documents"
	"github.com/JaimeStill/clarus/internal/guided"
)

// transcriptRetention bounds the Redis chat transcript list.
const transcriptRetention = 1000

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Catalog   *catalog.Catalog
	Guided    guided.System
	Chat      chat.System
	Documents documents.System
}

// NewDomain creates all domain systems from the API runtime. The session store
// and chat transcript share the backend selected by guided.store.
func NewDomain(runtime *Runtime) (*Domain, error) {
	cfg := runtime.Config

	cat, err := loadCatalog(&cfg.Guided)
	if err != nil {
		return nil, err
	}

	store, transcript, err := newStores(runtime)
	if err != nil {
		return nil, err
	}

	guidedSys := guided.New(
		cat,
		store,
		runtime.Logger,
		guided.WithStrictAnswers(cfg.Guided.StrictAnswers),
		guided.WithMetrics(runtime.Metrics),
	)

	chatSys := chat.New(
		cfg.Chat,
		runtime.Logger,
		chat.WithTranscript(transcript),
		chat.WithMetrics(runtime.Metrics),
	)

	documentsSys := documents.New(&cfg.Documents, runtime.Metrics, runtime.Logger)

	return &Domain{
		Catalog:   cat,
		Guided:    guidedSys,
		Chat:      chatSys,
		Documents: documentsSys,
	}, nil
}

func loadCatalog(cfg *guided.Config) (*catalog.Catalog, error) {
	if cfg.CatalogFile == "" {
		return catalog.Default()
	}
	cat, err := catalog.LoadFile(cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", cfg.CatalogFile, err)
	}
	return cat, nil
}

func newStores(runtime *Runtime) (guided.Store, chat.Transcript, error) {
	cfg := &runtime.Config.Guided

	switch cfg.Store {
	case guided.BackendMemory:
		return guided.NewMemoryStore(), chat.NewMemoryTranscript(), nil
	case guided.BackendPostgres:
		if runtime.Database == nil {
			return nil, nil, fmt.Errorf("postgres store selected without a database")
		}
		conn := runtime.Database.Connection()
		return guided.NewPostgresStore(conn, runtime.Logger), chat.NewPostgresTranscript(conn), nil
	case guided.BackendRedis:
		if runtime.Redis == nil {
			return nil, nil, fmt.Errorf("redis store selected without a redis client")
		}
		store := guided.NewRedisStore(
			runtime.Redis,
			guided.WithTTL(cfg.SessionTTLDuration()),
			guided.WithPrefix(cfg.KeyPrefix),
		)
		return store, chat.NewRedisTranscript(runtime.Redis, cfg.KeyPrefix, transcriptRetention), nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
