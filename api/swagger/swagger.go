package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Pacific Reef Hotel Analytics API",
        "description": "Operational analytics for the Pacific Reef Hotel reservation system",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Analytics", "description": "Occupancy, revenue, customer and room analytics"},
        {"name": "Reports", "description": "Report export and signed downloads"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check including the reservation store",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/analytics/occupancy": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Daily occupancy analytics",
                "parameters": [
                    {"name": "start_date", "in": "query", "type": "string", "format": "date"},
                    {"name": "end_date", "in": "query", "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid date range", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/revenue": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Daily revenue analytics",
                "parameters": [
                    {"name": "start_date", "in": "query", "type": "string", "format": "date"},
                    {"name": "end_date", "in": "query", "type": "string", "format": "date"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid date range", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/customers": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Customer analytics and segmentation",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/rooms": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Room performance analytics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/predictions": {
            "get": {
                "tags": ["Analytics"],
                "summary": "30 day demand forecast",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/dashboard": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Composed dashboard summary",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/export": {
            "post": {
                "tags": ["Reports"],
                "summary": "Generate a report artifact",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Export failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/analytics/export/{token}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a generated report via signed token",
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File stream"},
                    "404": {"description": "Invalid or expired link", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ExportRequest": {
            "type": "object",
            "required": ["report_type"],
            "properties": {
                "report_type": {"type": "string", "enum": ["occupancy", "revenue", "customer", "comprehensive"]},
                "format": {"type": "string", "enum": ["json", "csv", "pdf"]},
                "start_date": {"type": "string", "format": "date"},
                "end_date": {"type": "string", "format": "date"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
