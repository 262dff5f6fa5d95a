// Package docs holds the OpenAPI document served at /swagger/doc.json. It is
// maintained by hand alongside the handler annotations in api/resources.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/compare-graph-data": {
            "get": {
                "description": "Mean pH per day and location, keyed by location",
                "produces": ["application/json"],
                "tags": ["graph"],
                "summary": "Compare daily pH averages across locations",
                "parameters": [
                    {"type": "string", "description": "First date (YYYY-MM-DD)", "name": "startDate", "in": "query", "required": true},
                    {"type": "string", "description": "Last date (YYYY-MM-DD)", "name": "endDate", "in": "query", "required": true},
                    {"type": "string", "description": "Comma-separated locations", "name": "locations", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "array",
                                "items": {"$ref": "#/definitions/models.DailyAverage"}
                            }
                        }
                    },
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/data": {
            "get": {
                "description": "Get all readings, optionally filtered by date and location",
                "produces": ["application/json"],
                "tags": ["data"],
                "summary": "List sensor readings",
                "parameters": [
                    {"type": "string", "description": "Date (YYYY-MM-DD)", "name": "date", "in": "query"},
                    {"type": "string", "description": "Location", "name": "location", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object", "additionalProperties": true}}},
                    "404": {"description": "Not Found", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            },
            "post": {
                "description": "Store one reading submitted as form fields",
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["data"],
                "summary": "Record a sensor reading",
                "parameters": [
                    {"type": "number", "description": "pH value", "name": "ph_value", "in": "formData", "required": true},
                    {"type": "number", "description": "Temperature", "name": "temperature", "in": "formData", "required": true},
                    {"type": "string", "description": "Location", "name": "location", "in": "formData", "required": true},
                    {"type": "string", "description": "Time of day", "name": "time", "in": "formData", "required": true},
                    {"type": "string", "description": "Date (YYYY-MM-DD)", "name": "date", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/graph-data": {
            "get": {
                "description": "Mean pH per day within an inclusive date range",
                "produces": ["application/json"],
                "tags": ["graph"],
                "summary": "Daily pH averages for one location",
                "parameters": [
                    {"type": "string", "description": "First date (YYYY-MM-DD)", "name": "startDate", "in": "query", "required": true},
                    {"type": "string", "description": "Last date (YYYY-MM-DD)", "name": "endDate", "in": "query", "required": true},
                    {"type": "string", "description": "Location", "name": "location", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.DailyAverage"}}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "models.DailyAverage": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "ph_value": {"type": "number"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "sensorlog API",
	Description:      "Records environmental sensor readings and serves daily pH averages for charting.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
