package handlers

import (
	"encoding/json"
	"net/http"
)

type object = map[string]interface{}

func jsonContent(schema interface{}) object {
	return object{"application/json": object{"schema": schema}}
}

func ref(name string) object {
	return object{"$ref": "#/components/schemas/" + name}
}

func errorResponses(codes ...string) object {
	out := object{}
	for _, code := range codes {
		out[code] = object{
			"description": "Error",
			"content":     jsonContent(ref("ErrorResponse")),
		}
	}
	return out
}

// OpenAPISpec returns the OpenAPI 3.0 description of the temperature matrix API
func OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	eventErrors := errorResponses("400", "404")
	eventErrors["200"] = object{
		"description": "Scene changes caused by the event",
		"content":     jsonContent(ref("EventResponse")),
	}

	spec := object{
		"openapi": "3.0.0",
		"info": object{
			"title":       "Temperature Matrix API",
			"description": "Year by month heatmap of daily temperature extremes with a server-side max/min view toggle",
			"version":     "1.0.0",
		},
		"servers": []map[string]string{
			{"url": "http://localhost:8080", "description": "Local development server"},
		},
		"paths": object{
			"/": object{
				"get": object{
					"summary": "Interactive matrix page",
					"responses": object{
						"200": object{
							"description": "HTML page embedding the current SVG",
							"content":     object{"text/html": object{"schema": object{"type": "string"}}},
						},
					},
				},
			},
			"/heatmap.svg": object{
				"get": object{
					"summary":     "Matrix as SVG",
					"description": "The drawn matrix, legend and tooltip in their current state",
					"responses": object{
						"200": object{
							"description": "SVG document",
							"content":     object{"image/svg+xml": object{"schema": object{"type": "string"}}},
						},
					},
				},
			},
			"/api/matrix": object{
				"get": object{
					"summary":     "Aggregated matrix",
					"description": "Monthly extremes and daily observations for the trailing ten years",
					"responses": object{
						"200": object{
							"description": "Successful response",
							"content":     jsonContent(ref("MatrixResponse")),
						},
					},
				},
			},
			"/api/view": object{
				"get": object{
					"summary": "Current view state",
					"responses": object{
						"200": object{
							"description": "Successful response",
							"content":     jsonContent(ref("ViewResponse")),
						},
					},
				},
			},
			"/api/view/events": object{
				"post": object{
					"summary":     "Dispatch a pointer event",
					"description": "Delivers pointerenter, pointerleave or click to a shape. A click on any cell toggles every cell between max and min.",
					"requestBody": object{
						"required": true,
						"content":  jsonContent(ref("EventRequest")),
					},
					"responses": eventErrors,
				},
			},
			"/health": object{
				"get": object{
					"summary":     "Health check",
					"description": "Check if the server is running and, for the postgres source, the database is reachable",
					"responses": object{
						"503": object{
							"description": "Database unreachable",
							"content":     jsonContent(ref("ErrorResponse")),
						},
						"200": object{
							"description": "Server is healthy",
							"content": jsonContent(object{
								"type": "object",
								"properties": object{
									"status":    object{"type": "string"},
									"cells":     object{"type": "integer"},
									"timestamp": object{"type": "string", "format": "date-time"},
								},
							}),
						},
					},
				},
			},
			"/metrics": object{
				"get": object{
					"summary":     "Prometheus metrics",
					"description": "Prometheus metrics endpoint for monitoring",
					"responses": object{
						"200": object{
							"description": "Prometheus metrics in text format",
							"content":     object{"text/plain": object{"schema": object{"type": "string"}}},
						},
					},
				},
			},
		},
		"components": object{
			"schemas": object{
				"MatrixResponse": object{
					"type": "object",
					"properties": object{
						"years":  object{"type": "array", "items": object{"type": "integer"}},
						"months": object{"type": "array", "items": object{"type": "string"}},
						"cells": object{
							"type": "array",
							"items": object{
								"type": "object",
								"properties": object{
									"year":         object{"type": "integer"},
									"month":        object{"type": "integer", "minimum": 1, "maximum": 12},
									"max_of_month": object{"type": "number"},
									"min_of_month": object{"type": "number"},
									"days": object{
										"type": "array",
										"items": object{
											"type": "object",
											"properties": object{
												"date":            object{"type": "string", "format": "date"},
												"max_temperature": object{"type": "number"},
												"min_temperature": object{"type": "number"},
											},
										},
									},
								},
							},
						},
					},
				},
				"ViewResponse": object{
					"type": "object",
					"properties": object{
						"metric":  object{"type": "string", "enum": []string{"max", "min"}},
						"toggles": object{"type": "integer"},
					},
				},
				"EventRequest": object{
					"type":     "object",
					"required": []string{"type", "target"},
					"properties": object{
						"type":   object{"type": "string", "enum": []string{"pointerenter", "pointerleave", "click"}},
						"target": object{"type": "string", "example": "cell-2020-02-bg"},
						"x":      object{"type": "number"},
						"y":      object{"type": "number"},
					},
				},
				"EventResponse": object{
					"type": "object",
					"properties": object{
						"changes": object{
							"type": "array",
							"items": object{
								"type": "object",
								"properties": object{
									"op":          object{"type": "string", "enum": []string{"fill", "visibility", "text", "move"}},
									"target":      object{"type": "string"},
									"fill":        object{"type": "string"},
									"duration_ms": object{"type": "integer"},
									"visible":     object{"type": "boolean"},
									"text":        object{"type": "string"},
									"x":           object{"type": "number"},
									"y":           object{"type": "number"},
								},
							},
						},
						"view": ref("ViewResponse"),
					},
				},
				"ErrorResponse": object{
					"type": "object",
					"properties": object{
						"error":      object{"type": "string"},
						"message":    object{"type": "string"},
						"code":       object{"type": "integer"},
						"request_id": object{"type": "string"},
					},
				},
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(spec)
}
