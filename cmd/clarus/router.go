package main

import (
	"net/http"

	"github.com/JaimeStill/clarus/internal/infrastructure"
	"github.com/JaimeStill/clarus/internal/metrics"
	"github.com/JaimeStill/clarus/pkg/module"
)

func newRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("NOT READY"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("READY"))
	})

	router.Handle("GET /metrics", metrics.Handler(infra.Registry))

	return router
}
