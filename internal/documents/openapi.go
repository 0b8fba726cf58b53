package documents

import "github.com/JaimeStill/clarus/pkg/openapi"

type spec struct {
	Analyze *openapi.Operation
}

var Spec = spec{
	Analyze: &openapi.Operation{
		Summary:     "Analyze document",
		Description: "Uploads a PDF or text document and returns a preliminary analysis",
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"multipart/form-data": {
					Schema: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"file": {Type: "string", Format: "binary", Description: "Document to analyze"},
						},
						Required: []string{"file"},
					},
				},
			},
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Analysis", "DocumentAnalysis"),
			400: openapi.ResponseRef("BadRequest"),
			413: openapi.ResponseRef("PayloadTooLarge"),
			415: {Description: "Unsupported file type"},
			422: openapi.ResponseRef("UnprocessableEntity"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	strings := &openapi.Schema{Type: "array", Items: &openapi.Schema{Type: "string"}}
	return map[string]*openapi.Schema{
		"DocumentAnalysis": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"filename":            {Type: "string"},
				"content_type":        {Type: "string", Example: "application/pdf"},
				"size_bytes":          {Type: "integer", Format: "int64"},
				"page_count":          {Type: "integer", Description: "PDF documents only"},
				"summary":             {Type: "string"},
				"key_points":          strings,
				"risks":               strings,
				"suggested_questions": strings,
			},
		},
	}
}
