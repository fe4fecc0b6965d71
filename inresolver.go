package inresolver

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/iotanames/inresolver/cache"
	"github.com/iotanames/inresolver/common"
	"github.com/iotanames/inresolver/config"
	"github.com/iotanames/inresolver/preview"
	"github.com/iotanames/inresolver/rawdb"
	"github.com/iotanames/inresolver/rpc"
	"github.com/iotanames/inresolver/schema"
)

var log = common.NewLog("inresolver")

const (
	defaultRpcTimeout      = 10 * time.Second
	defaultCacheLifeWindow = 24 * time.Hour
	defaultRouterPoolSize  = 64
)

type Inr struct {
	engine    *gin.Engine
	localDb   rawdb.KeyValueDB
	sessionDb rawdb.KeyValueDB

	config    *config.Config
	resolver  *Resolver
	tabs      *TabStore
	router    *Router
	previews  *preview.Manager
	scheduler *gocron.Scheduler

	publicUrl *url.URL
	now       func() time.Time
	cfg       schema.Config
}

func New(cfg schema.Config) *Inr {
	localDb, err := rawdb.NewBoltDB(cfg.DataDir)
	if err != nil {
		panic(err)
	}
	var sessionDb rawdb.KeyValueDB
	if cfg.SessionStore {
		sessionDb = rawdb.NewMemoryDB()
	}

	if cfg.CacheLifeWindow <= 0 {
		cfg.CacheLifeWindow = defaultCacheLifeWindow
	}
	localCache, err := cache.NewLocalCache(cfg.CacheLifeWindow)
	if err != nil {
		panic(err)
	}
	if cfg.RpcTimeout <= 0 {
		cfg.RpcTimeout = defaultRpcTimeout
	}

	s, err := newInr(cfg, rpc.New(cfg.RpcTimeout), localDb, sessionDb, localCache.Cache, time.Now)
	if err != nil {
		panic(err)
	}
	return s
}

func newInr(cfg schema.Config, caller Caller, localDb, sessionDb rawdb.KeyValueDB, store cache.ICache, now func() time.Time) (*Inr, error) {
	publicUrl, err := parsePublicUrl(cfg.PublicUrl, cfg.Port)
	if err != nil {
		return nil, err
	}
	if cfg.CacheLifeWindow > 0 && cfg.CacheLifeWindow.Milliseconds() < schema.DefaultSettings().CacheTtlMs {
		return nil, fmt.Errorf("cache life window %s is shorter than the default cacheTtlMs", cfg.CacheLifeWindow)
	}
	router, err := NewRouter(defaultRouterPoolSize)
	if err != nil {
		return nil, err
	}

	conf := config.New(localDb)
	conf.SetMaxCacheTtl(cfg.CacheLifeWindow)
	s := &Inr{
		engine:    gin.Default(),
		localDb:   localDb,
		sessionDb: sessionDb,
		config:    conf,
		resolver:  NewResolver(caller, conf, cache.NewResolutionCache(store, now)),
		tabs:      NewTabStore(sessionDb, localDb),
		router:    router,
		previews:  preview.NewManager(cfg.PreviewInterval),
		scheduler: gocron.NewScheduler(time.UTC),
		publicUrl: publicUrl,
		now:       now,
		cfg:       cfg,
	}
	s.registerHandlers(router)
	s.initAPI()
	return s, nil
}

func parsePublicUrl(raw, port string) (*url.URL, error) {
	if raw == "" {
		if port == "" {
			port = ":8080"
		}
		raw = "http://127.0.0.1" + port
	}
	u, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, schema.ErrInvalidPublicUrl
	}
	return u, nil
}

func (s *Inr) Run(port string) {
	go s.runAPI(port)
	s.runJobs()
}

func (s *Inr) Close() {
	s.scheduler.Stop()
	s.previews.Stop()
	s.router.Release()
	if s.sessionDb != nil {
		if err := s.sessionDb.Close(); err != nil {
			log.Error("close session store", "err", err)
		}
	}
	if err := s.localDb.Close(); err != nil {
		log.Error("close local store", "err", err)
	}
}
