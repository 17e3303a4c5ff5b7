// Package docs holds the OpenAPI document for the board API
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/board": {
            "get": {
                "tags": ["Board"],
                "summary": "Get the board",
                "description": "The X-CSRF-Token response header carries the token that POST and DELETE requests must echo back.",
                "produces": ["application/json"],
                "responses": {
                    "200": {
                        "description": "OK",
                        "headers": {
                            "X-CSRF-Token": {"type": "string", "description": "CSRF token"}
                        },
                        "schema": {"$ref": "#/definitions/ports.BoardView"}
                    },
                    "503": {
                        "description": "Board is still loading",
                        "schema": {"$ref": "#/definitions/ports.MessageResponse"}
                    }
                }
            },
            "delete": {
                "tags": ["Board"],
                "summary": "Reset the board",
                "description": "Clears every deposit and deletes the saved record. Requires {\"confirm\": true}.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "header",
                        "name": "X-CSRF-Token",
                        "description": "CSRF token from GET /board",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "in": "body",
                        "name": "request",
                        "description": "Confirmation",
                        "required": true,
                        "schema": {"$ref": "#/definitions/ports.ResetRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/ports.ResetResponse"}
                    },
                    "403": {
                        "description": "Missing or invalid CSRF token",
                        "schema": {"$ref": "#/definitions/ports.MessageResponse"}
                    },
                    "503": {
                        "description": "Board is still loading",
                        "schema": {"$ref": "#/definitions/ports.MessageResponse"}
                    }
                }
            }
        },
        "/board/deposits/{value}/toggle": {
            "post": {
                "tags": ["Board"],
                "summary": "Toggle one deposit",
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "header",
                        "name": "X-CSRF-Token",
                        "description": "CSRF token from GET /board",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "in": "path",
                        "name": "value",
                        "description": "Deposit value (1-200)",
                        "required": true,
                        "type": "integer",
                        "minimum": 1,
                        "maximum": 200
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/ports.BoardView"}
                    },
                    "400": {
                        "description": "Deposit value out of range",
                        "schema": {"$ref": "#/definitions/ports.MessageResponse"}
                    },
                    "403": {
                        "description": "Missing or invalid CSRF token",
                        "schema": {"$ref": "#/definitions/ports.MessageResponse"}
                    },
                    "503": {
                        "description": "Board is still loading",
                        "schema": {"$ref": "#/definitions/ports.MessageResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "ports.Cell": {
            "type": "object",
            "properties": {
                "value": {"type": "integer"},
                "selected": {"type": "boolean"}
            }
        },
        "ports.BoardView": {
            "type": "object",
            "properties": {
                "phase": {"type": "string", "enum": ["loading", "ready"]},
                "title": {"type": "string"},
                "goal": {"type": "number", "example": 20000},
                "goal_label": {"type": "string"},
                "total": {"type": "number"},
                "total_label": {"type": "string"},
                "selected": {"type": "array", "items": {"type": "integer"}},
                "count": {"type": "integer"},
                "count_label": {"type": "string"},
                "progress_percent": {"type": "number"},
                "goal_percent": {"type": "number"},
                "goal_percent_label": {"type": "string"},
                "cells": {"type": "array", "items": {"$ref": "#/definitions/ports.Cell"}},
                "hints": {"type": "array", "items": {"type": "string"}}
            }
        },
        "ports.ResetRequest": {
            "type": "object",
            "properties": {
                "confirm": {"type": "boolean", "example": true}
            }
        },
        "ports.ResetResponse": {
            "type": "object",
            "properties": {
                "reset": {"type": "boolean"},
                "board": {"$ref": "#/definitions/ports.BoardView"}
            }
        },
        "ports.MessageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "SavingsBoard API",
	Description:      "200 deposits savings challenge",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
