package routes

import (
	"net/http"

	"github.com/JaimeStill/clarus/pkg/openapi"
)

// Register adds every route of groups to mux and documents it in spec.
// Mux patterns are relative to the module; spec paths are prefixed with basePath.
func Register(mux *http.ServeMux, basePath string, spec *openapi.Spec, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, basePath, "", spec, group)
	}
}

func registerGroup(mux *http.ServeMux, basePath, parentPrefix string, spec *openapi.Spec, group Group) {
	prefix := parentPrefix + group.Prefix

	for _, route := range group.Routes {
		pattern := prefix + route.Pattern
		mux.HandleFunc(route.Method+" "+pattern, route.Handler)

		if route.OpenAPI == nil || spec == nil {
			continue
		}

		op := route.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = group.Tags
		}
		spec.AddOperation(basePath+pattern, route.Method, op)
	}

	for _, child := range group.Children {
		registerGroup(mux, basePath, prefix, spec, child)
	}
}
