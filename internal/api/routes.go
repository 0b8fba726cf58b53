package api

import (
	"net/http"

	"github.com/JaimeStill/clarus/internal/chat"
	"github.com/JaimeStill/clarus/internal/documents"
	"github.com/JaimeStill/clarus/internal/guided"
	"github.com/JaimeStill/clarus/pkg/openapi"
	"github.com/JaimeStill/clarus/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, spec *openapi.Spec, runtime *Runtime, domain *Domain) {
	guidedHandler := guided.NewHandler(domain.Guided, runtime.Logger)
	chatHandler := chat.NewHandler(domain.Chat, runtime.Logger)
	documentsHandler := documents.NewHandler(domain.Documents, runtime.Logger)

	spec.Components.AddSchemas(guided.Spec.Schemas())
	spec.Components.AddSchemas(chat.Spec.Schemas())
	spec.Components.AddSchemas(documents.Spec.Schemas())

	routes.Register(
		mux,
		runtime.Config.API.BasePath,
		spec,
		guidedHandler.Routes(),
		chatHandler.Routes(),
		documentsHandler.Routes(),
	)
}
